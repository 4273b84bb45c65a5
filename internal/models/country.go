package models

import (
	"time"

	"github.com/google/uuid"
)

type Country struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Alpha2Code   string    `json:"alpha2Code"`
	Alpha3Code   string    `json:"alpha3Code"`
	Capital      string    `json:"capital"`
	Region       string    `json:"region"`
	Subregion    string    `json:"subregion"`
	Population   int64     `json:"population"`
	CurrencyCode string    `json:"currencyCode"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CurrencyRates holds the latest exchange rates for a base currency.
// Not persisted; fetched per request for the aggregate location endpoint.
type CurrencyRates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}
