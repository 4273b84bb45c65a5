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

// CountryService serves country lookups: database first, geography provider
// on a miss, persisting the fetched record for subsequent requests.
type CountryService struct {
	repo repository.CountryRepository
	geo  client.GeoClient
}

func NewCountryService(repo repository.CountryRepository, geo client.GeoClient) *CountryService {
	return &CountryService{repo: repo, geo: geo}
}

func (s *CountryService) GetCountry(ctx context.Context, name string) (models.Country, error) {
	country, err := s.repo.FindByName(ctx, name)
	if err == nil {
		observability.RecordLookup("country", "database")
		return country, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.Country{}, fmt.Errorf("lookup country %q: %w", name, err)
	}

	if logger := loggerFromContext(ctx); logger != nil {
		logger.Debug("country miss, fetching upstream", zap.String("name", name))
	}

	fetched, err := s.geo.GetCountry(ctx, name)
	if err != nil {
		return models.Country{}, fmt.Errorf("fetch country %q: %w", name, err)
	}

	saved, err := s.repo.Save(ctx, fetched)
	if err != nil {
		return models.Country{}, fmt.Errorf("persist country %q: %w", name, err)
	}
	observability.RecordLookup("country", "upstream")
	return saved, nil
}

// EnsureByAlpha2 returns the stored country for an alpha-2 code, fetching and
// persisting it by name when absent. Used by the city and news flows, which
// learn the country from a provider reference rather than user input.
func (s *CountryService) EnsureByAlpha2(ctx context.Context, alpha2Code, name string) (models.Country, error) {
	country, err := s.repo.FindByAlpha2(ctx, alpha2Code)
	if err == nil {
		return country, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.Country{}, fmt.Errorf("lookup country %s: %w", alpha2Code, err)
	}

	var fetched models.Country
	if name != "" {
		fetched, err = s.geo.GetCountry(ctx, name)
	} else {
		fetched, err = s.geo.GetCountryByAlpha2(ctx, alpha2Code)
	}
	if err != nil {
		return models.Country{}, fmt.Errorf("fetch country %s: %w", alpha2Code, err)
	}

	saved, err := s.repo.Save(ctx, fetched)
	if err != nil {
		return models.Country{}, fmt.Errorf("persist country %s: %w", alpha2Code, err)
	}
	return saved, nil
}
