package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"location-info-service/internal/models"
)

var _ CountryRepository = (*PostgresCountryRepository)(nil)

type CountryRepository interface {
	Save(ctx context.Context, country models.Country) (models.Country, error)
	FindByName(ctx context.Context, name string) (models.Country, error)
	FindByAlpha2(ctx context.Context, alpha2Code string) (models.Country, error)
	Count(ctx context.Context) (int64, error)
}

type PostgresCountryRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewPostgresCountryRepository(db Querier, logger *zap.Logger) *PostgresCountryRepository {
	return &PostgresCountryRepository{db: db, logger: logger}
}

const saveCountryQuery = `
	INSERT INTO countries (
		name, alpha2_code, alpha3_code, capital, region, subregion,
		population, currency_code, latitude, longitude
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (alpha2_code) DO UPDATE SET
		population = EXCLUDED.population,
		currency_code = EXCLUDED.currency_code
	RETURNING id, created_at`

// Save inserts a country fetched from the geography provider. Re-saving an
// existing alpha-2 code refreshes the mutable fields instead of failing.
func (r *PostgresCountryRepository) Save(ctx context.Context, country models.Country) (models.Country, error) {
	err := r.db.QueryRow(ctx, saveCountryQuery,
		country.Name,
		country.Alpha2Code,
		country.Alpha3Code,
		country.Capital,
		country.Region,
		country.Subregion,
		country.Population,
		country.CurrencyCode,
		country.Latitude,
		country.Longitude,
	).Scan(&country.ID, &country.CreatedAt)
	if err != nil {
		return models.Country{}, recordDBError("country_save", fmt.Errorf("insert country: %w", err))
	}
	return country, nil
}

const findCountryByNameQuery = `
	SELECT id, name, alpha2_code, alpha3_code, capital, region, subregion,
	       population, currency_code, latitude, longitude, created_at
	FROM countries
	WHERE LOWER(name) = LOWER($1)`

func (r *PostgresCountryRepository) FindByName(ctx context.Context, name string) (models.Country, error) {
	return r.scanCountry(r.db.QueryRow(ctx, findCountryByNameQuery, name), "country_find_by_name")
}

const findCountryByAlpha2Query = `
	SELECT id, name, alpha2_code, alpha3_code, capital, region, subregion,
	       population, currency_code, latitude, longitude, created_at
	FROM countries
	WHERE alpha2_code = UPPER($1)`

func (r *PostgresCountryRepository) FindByAlpha2(ctx context.Context, alpha2Code string) (models.Country, error) {
	return r.scanCountry(r.db.QueryRow(ctx, findCountryByAlpha2Query, alpha2Code), "country_find_by_alpha2")
}

func (r *PostgresCountryRepository) scanCountry(row pgx.Row, operation string) (models.Country, error) {
	var c models.Country
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Alpha2Code,
		&c.Alpha3Code,
		&c.Capital,
		&c.Region,
		&c.Subregion,
		&c.Population,
		&c.CurrencyCode,
		&c.Latitude,
		&c.Longitude,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Country{}, ErrNotFound
		}
		return models.Country{}, recordDBError(operation, fmt.Errorf("scan country: %w", err))
	}
	return c, nil
}

func (r *PostgresCountryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM countries`).Scan(&n); err != nil {
		return 0, recordDBError("country_count", fmt.Errorf("count countries: %w", err))
	}
	return n, nil
}
