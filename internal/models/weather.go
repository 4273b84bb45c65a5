package models

import (
	"time"

	"github.com/google/uuid"
)

type WeatherSnapshot struct {
	ID          uuid.UUID `json:"id"`
	CityID      uuid.UUID `json:"cityId"`
	City        string    `json:"city"`
	ObservedAt  time.Time `json:"observedAt"`
	Temperature float64   `json:"temperature"`
	Conditions  string    `json:"conditions"`
	Pressure    int       `json:"pressure"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Visibility  int       `json:"visibility"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LocationInfo is the aggregate response for GET /locations/{city}:
// the city, its country, current weather and the latest rates for the
// country's currency.
type LocationInfo struct {
	City          City               `json:"city"`
	Country       Country            `json:"country"`
	Weather       WeatherSnapshot    `json:"weather"`
	CurrencyRates map[string]float64 `json:"currencyRates,omitempty"`
}
