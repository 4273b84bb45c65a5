package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"location-info-service/internal/client"
	"location-info-service/internal/models"
	"location-info-service/internal/observability"
	"location-info-service/internal/repository"
)

// WeatherService fetches current conditions for a city and persists every
// successful reading as a snapshot bound to the city row.
type WeatherService struct {
	repo    repository.WeatherRepository
	client  client.WeatherClient
	citySvc *CityService
}

func NewWeatherService(repo repository.WeatherRepository, weatherClient client.WeatherClient, citySvc *CityService) *WeatherService {
	return &WeatherService{repo: repo, client: weatherClient, citySvc: citySvc}
}

// GetWeather resolves the city (creating it on first sight), calls the
// weather provider and stores the snapshot. Weather is always fetched live;
// only the lookup history is persisted.
func (s *WeatherService) GetWeather(ctx context.Context, cityName string) (models.WeatherSnapshot, error) {
	start := time.Now()
	logger := loggerFromContext(ctx)

	city, err := s.citySvc.GetCity(ctx, cityName)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}

	alpha2 := ""
	if city.Country != nil {
		alpha2 = city.Country.Alpha2Code
	}

	snapshot, err := s.client.GetCurrentWeather(ctx, city.Name, alpha2)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("fetch weather for %s: %w", cityName, err)
	}

	snapshot.CityID = city.ID
	saved, err := s.repo.Save(ctx, snapshot)
	if err != nil {
		// The reading is still good; log the persistence failure and serve it.
		if logger != nil {
			logger.Warn("weather snapshot not persisted", zap.String("city", cityName), zap.Error(err))
		}
		return snapshot, nil
	}

	observability.RecordLookup("weather", "upstream")
	if logger != nil {
		logger.Debug("weather served", zap.String("city", cityName), zap.Duration("duration", time.Since(start)))
	}
	return saved, nil
}

// LatestSnapshot returns the most recent stored reading for a known city.
func (s *WeatherService) LatestSnapshot(ctx context.Context, cityName string) (models.WeatherSnapshot, error) {
	city, err := s.citySvc.GetCity(ctx, cityName)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}
	snapshot, err := s.repo.LatestForCity(ctx, city.ID)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}
	observability.RecordLookup("weather", "database")
	return snapshot, nil
}
