package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"location-info-service/internal/models"
)

var _ CityRepository = (*PostgresCityRepository)(nil)

type CityRepository interface {
	Save(ctx context.Context, city models.City) (models.City, error)
	FindByName(ctx context.Context, name string) (models.City, error)
	Count(ctx context.Context) (int64, error)
}

type PostgresCityRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewPostgresCityRepository(db Querier, logger *zap.Logger) *PostgresCityRepository {
	return &PostgresCityRepository{db: db, logger: logger}
}

const saveCityQuery = `
	INSERT INTO cities (country_id, name, state_or_region, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at`

// Save inserts a city row. The country must already exist; the foreign key
// rejects orphan cities.
func (r *PostgresCityRepository) Save(ctx context.Context, city models.City) (models.City, error) {
	if city.CountryID == uuid.Nil {
		return models.City{}, fmt.Errorf("save city %q: country id is required", city.Name)
	}

	err := r.db.QueryRow(ctx, saveCityQuery,
		city.CountryID,
		city.Name,
		newNullString(city.StateOrRegion),
		city.Latitude,
		city.Longitude,
	).Scan(&city.ID, &city.CreatedAt)
	if err != nil {
		if uniqueViolation(err) {
			return models.City{}, ErrDuplicate
		}
		return models.City{}, recordDBError("city_save", fmt.Errorf("insert city: %w", err))
	}
	return city, nil
}

const findCityByNameQuery = `
	SELECT c.id, c.country_id, c.name, COALESCE(c.state_or_region, ''),
	       c.latitude, c.longitude, c.created_at,
	       co.id, co.name, co.alpha2_code, co.alpha3_code, co.capital,
	       co.region, co.subregion, co.population, co.currency_code,
	       co.latitude, co.longitude, co.created_at
	FROM cities c
	JOIN countries co ON co.id = c.country_id
	WHERE LOWER(c.name) = LOWER($1)`

// FindByName returns the city with its country row joined in.
func (r *PostgresCityRepository) FindByName(ctx context.Context, name string) (models.City, error) {
	var city models.City
	var country models.Country
	var state sql.NullString

	err := r.db.QueryRow(ctx, findCityByNameQuery, name).Scan(
		&city.ID,
		&city.CountryID,
		&city.Name,
		&state,
		&city.Latitude,
		&city.Longitude,
		&city.CreatedAt,
		&country.ID,
		&country.Name,
		&country.Alpha2Code,
		&country.Alpha3Code,
		&country.Capital,
		&country.Region,
		&country.Subregion,
		&country.Population,
		&country.CurrencyCode,
		&country.Latitude,
		&country.Longitude,
		&country.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.City{}, ErrNotFound
		}
		return models.City{}, recordDBError("city_find_by_name", fmt.Errorf("scan city: %w", err))
	}

	city.StateOrRegion = state.String
	city.Country = &country
	return city, nil
}

func (r *PostgresCityRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cities`).Scan(&n); err != nil {
		return 0, recordDBError("city_count", fmt.Errorf("count cities: %w", err))
	}
	return n, nil
}

// newNullString converts an empty string to a SQL NULL on insert.
func newNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
