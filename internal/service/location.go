package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"location-info-service/internal/client"
	"location-info-service/internal/models"
)

// LocationService aggregates the enriched view of a place: city, country,
// current weather and currency rates. The fan-out is sequential and a failed
// city or weather call fails the whole request; currency rates are
// best-effort.
type LocationService struct {
	citySvc    *CityService
	weatherSvc *WeatherService
	geo        client.GeoClient
}

func NewLocationService(citySvc *CityService, weatherSvc *WeatherService, geo client.GeoClient) *LocationService {
	return &LocationService{citySvc: citySvc, weatherSvc: weatherSvc, geo: geo}
}

func (s *LocationService) GetLocationInfo(ctx context.Context, cityName string) (models.LocationInfo, error) {
	logger := loggerFromContext(ctx)

	city, err := s.citySvc.GetCity(ctx, cityName)
	if err != nil {
		return models.LocationInfo{}, err
	}
	if city.Country == nil {
		return models.LocationInfo{}, fmt.Errorf("city %q has no country reference", cityName)
	}
	country := *city.Country

	weather, err := s.weatherSvc.GetWeather(ctx, cityName)
	if err != nil {
		return models.LocationInfo{}, err
	}

	info := models.LocationInfo{
		City:    city,
		Country: country,
		Weather: weather,
	}
	info.City.Country = nil // country is a top-level field here

	if country.CurrencyCode != "" {
		rates, err := s.geo.GetCurrencyRates(ctx, country.CurrencyCode)
		if err != nil {
			if logger != nil {
				logger.Warn("currency rates unavailable",
					zap.String("base", country.CurrencyCode), zap.Error(err))
			}
		} else {
			info.CurrencyRates = rates.Rates
		}
	}

	return info, nil
}
