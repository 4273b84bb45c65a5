package models

import (
	"time"

	"github.com/google/uuid"
)

type City struct {
	ID            uuid.UUID `json:"id"`
	CountryID     uuid.UUID `json:"countryId"`
	Name          string    `json:"name"`
	StateOrRegion string    `json:"stateOrRegion,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	CreatedAt     time.Time `json:"createdAt"`

	// Country is populated on reads that join the parent row.
	Country *Country `json:"country,omitempty"`
}
