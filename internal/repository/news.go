package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"location-info-service/internal/models"
)

var _ NewsRepository = (*PostgresNewsRepository)(nil)

type NewsRepository interface {
	SaveBatch(ctx context.Context, items []models.NewsItem) error
	FindByCountry(ctx context.Context, countryID uuid.UUID, limit int) ([]models.NewsItem, error)
}

type PostgresNewsRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewPostgresNewsRepository(db Querier, logger *zap.Logger) *PostgresNewsRepository {
	return &PostgresNewsRepository{db: db, logger: logger}
}

const saveNewsQuery = `
	INSERT INTO news (country_id, source, author, title, description, url, published_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (url) DO NOTHING`

// SaveBatch persists headlines fetched from the news provider. Duplicate URLs
// are skipped so refetching a country is idempotent.
func (r *PostgresNewsRepository) SaveBatch(ctx context.Context, items []models.NewsItem) error {
	for _, item := range items {
		_, err := r.db.Exec(ctx, saveNewsQuery,
			item.CountryID,
			item.Source,
			newNullString(item.Author),
			item.Title,
			newNullString(item.Description),
			item.URL,
			item.PublishedAt,
		)
		if err != nil {
			return recordDBError("news_save", fmt.Errorf("insert news item %q: %w", item.Title, err))
		}
	}
	return nil
}

const findNewsByCountryQuery = `
	SELECT id, country_id, source, COALESCE(author, ''), title,
	       COALESCE(description, ''), url, published_at, created_at
	FROM news
	WHERE country_id = $1
	ORDER BY published_at DESC
	LIMIT $2`

func (r *PostgresNewsRepository) FindByCountry(ctx context.Context, countryID uuid.UUID, limit int) ([]models.NewsItem, error) {
	rows, err := r.db.Query(ctx, findNewsByCountryQuery, countryID, limit)
	if err != nil {
		return nil, recordDBError("news_find_by_country", fmt.Errorf("query news: %w", err))
	}
	defer rows.Close()

	var items []models.NewsItem
	for rows.Next() {
		var item models.NewsItem
		if err := rows.Scan(
			&item.ID,
			&item.CountryID,
			&item.Source,
			&item.Author,
			&item.Title,
			&item.Description,
			&item.URL,
			&item.PublishedAt,
			&item.CreatedAt,
		); err != nil {
			return nil, recordDBError("news_find_by_country", fmt.Errorf("scan news item: %w", err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, recordDBError("news_find_by_country", fmt.Errorf("iterate news rows: %w", err))
	}
	return items, nil
}
