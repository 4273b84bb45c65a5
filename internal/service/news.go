package service

import (
	"context"
	"errors"
	"fmt"

	"location-info-service/internal/client"
	"location-info-service/internal/models"
	"location-info-service/internal/observability"
	"location-info-service/internal/repository"
)

// defaultNewsLimit caps how many stored headlines a news lookup returns.
const defaultNewsLimit = 50

// NewsService serves country headlines: stored news first, provider fetch
// and bulk persist when the database has none for the country.
type NewsService struct {
	repo       repository.NewsRepository
	client     client.NewsClient
	countrySvc *CountryService
}

func NewNewsService(repo repository.NewsRepository, newsClient client.NewsClient, countrySvc *CountryService) *NewsService {
	return &NewsService{repo: repo, client: newsClient, countrySvc: countrySvc}
}

func (s *NewsService) GetNews(ctx context.Context, alpha2Code string) ([]models.NewsItem, error) {
	country, err := s.countrySvc.EnsureByAlpha2(ctx, alpha2Code, "")
	if err != nil {
		return nil, err
	}

	items, err := s.repo.FindByCountry(ctx, country.ID, defaultNewsLimit)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup news for %s: %w", alpha2Code, err)
	}
	if len(items) > 0 {
		observability.RecordLookup("news", "database")
		return items, nil
	}

	fetched, err := s.client.GetTopHeadlines(ctx, alpha2Code)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", alpha2Code, err)
	}
	for i := range fetched {
		fetched[i].CountryID = country.ID
	}

	if err := s.repo.SaveBatch(ctx, fetched); err != nil {
		return nil, fmt.Errorf("persist news for %s: %w", alpha2Code, err)
	}

	observability.RecordLookup("news", "upstream")
	return fetched, nil
}
