package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"location-info-service/internal/client"
	"location-info-service/internal/models"
	"location-info-service/internal/observability"
	"location-info-service/internal/repository"
)

// CityService serves city lookups. A first lookup geocodes the city through
// the geography provider and persists both the city and, when missing, its
// country, so the foreign key always holds.
type CityService struct {
	repo       repository.CityRepository
	geo        client.GeoClient
	countrySvc *CountryService
}

func NewCityService(repo repository.CityRepository, geo client.GeoClient, countrySvc *CountryService) *CityService {
	return &CityService{repo: repo, geo: geo, countrySvc: countrySvc}
}

func (s *CityService) GetCity(ctx context.Context, name string) (models.City, error) {
	city, err := s.repo.FindByName(ctx, name)
	if err == nil {
		observability.RecordLookup("city", "database")
		return city, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.City{}, fmt.Errorf("lookup city %q: %w", name, err)
	}

	if logger := loggerFromContext(ctx); logger != nil {
		logger.Debug("city miss, fetching upstream", zap.String("name", name))
	}

	result, err := s.geo.GetCity(ctx, name)
	if err != nil {
		return models.City{}, fmt.Errorf("fetch city %q: %w", name, err)
	}

	country, err := s.countrySvc.EnsureByAlpha2(ctx, result.CountryAlpha2, result.CountryName)
	if err != nil {
		return models.City{}, fmt.Errorf("resolve country for city %q: %w", name, err)
	}

	saved, err := s.repo.Save(ctx, models.City{
		CountryID:     country.ID,
		Name:          result.Name,
		StateOrRegion: result.StateOrRegion,
		Latitude:      result.Latitude,
		Longitude:     result.Longitude,
	})
	if err != nil {
		// A concurrent request may have inserted the same city; serve the row.
		if errors.Is(err, repository.ErrDuplicate) {
			return s.repo.FindByName(ctx, result.Name)
		}
		return models.City{}, fmt.Errorf("persist city %q: %w", name, err)
	}

	saved.Country = &country
	observability.RecordLookup("city", "upstream")
	return saved, nil
}
