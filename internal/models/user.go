package models

import (
	"time"

	"github.com/google/uuid"
)

const RoleSuperuser = "superuser"

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u User) IsSuperuser() bool {
	return u.Role == RoleSuperuser && u.IsActive
}
