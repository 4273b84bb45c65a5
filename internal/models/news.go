package models

import (
	"time"

	"github.com/google/uuid"
)

type NewsItem struct {
	ID          uuid.UUID `json:"id"`
	CountryID   uuid.UUID `json:"countryId"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
