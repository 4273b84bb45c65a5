package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"location-info-service/internal/models"
)

var _ WeatherRepository = (*PostgresWeatherRepository)(nil)

type WeatherRepository interface {
	Save(ctx context.Context, snapshot models.WeatherSnapshot) (models.WeatherSnapshot, error)
	LatestForCity(ctx context.Context, cityID uuid.UUID) (models.WeatherSnapshot, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type PostgresWeatherRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewPostgresWeatherRepository(db Querier, logger *zap.Logger) *PostgresWeatherRepository {
	return &PostgresWeatherRepository{db: db, logger: logger}
}

const saveSnapshotQuery = `
	INSERT INTO weather_snapshots (
		city_id, observed_at, temperature, conditions, pressure,
		humidity, wind_speed, visibility
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at`

func (r *PostgresWeatherRepository) Save(ctx context.Context, snapshot models.WeatherSnapshot) (models.WeatherSnapshot, error) {
	err := r.db.QueryRow(ctx, saveSnapshotQuery,
		snapshot.CityID,
		snapshot.ObservedAt,
		snapshot.Temperature,
		snapshot.Conditions,
		snapshot.Pressure,
		snapshot.Humidity,
		snapshot.WindSpeed,
		snapshot.Visibility,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)
	if err != nil {
		return models.WeatherSnapshot{}, recordDBError("weather_save", fmt.Errorf("insert weather snapshot: %w", err))
	}
	return snapshot, nil
}

const latestSnapshotQuery = `
	SELECT s.id, s.city_id, c.name, s.observed_at, s.temperature, s.conditions,
	       s.pressure, s.humidity, s.wind_speed, s.visibility, s.created_at
	FROM weather_snapshots s
	JOIN cities c ON c.id = s.city_id
	WHERE s.city_id = $1
	ORDER BY s.observed_at DESC
	LIMIT 1`

func (r *PostgresWeatherRepository) LatestForCity(ctx context.Context, cityID uuid.UUID) (models.WeatherSnapshot, error) {
	var s models.WeatherSnapshot
	err := r.db.QueryRow(ctx, latestSnapshotQuery, cityID).Scan(
		&s.ID,
		&s.CityID,
		&s.City,
		&s.ObservedAt,
		&s.Temperature,
		&s.Conditions,
		&s.Pressure,
		&s.Humidity,
		&s.WindSpeed,
		&s.Visibility,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.WeatherSnapshot{}, ErrNotFound
		}
		return models.WeatherSnapshot{}, recordDBError("weather_latest", fmt.Errorf("scan weather snapshot: %w", err))
	}
	return s, nil
}

const deleteSnapshotsBeforeQuery = `
	DELETE FROM weather_snapshots WHERE observed_at < $1`

// DeleteBefore prunes snapshots observed before cutoff and returns the number
// of rows removed. Used by the admin surface.
func (r *PostgresWeatherRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteSnapshotsBeforeQuery, cutoff)
	if err != nil {
		return 0, recordDBError("weather_delete_before", fmt.Errorf("delete weather snapshots: %w", err))
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresWeatherRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM weather_snapshots`).Scan(&n); err != nil {
		return 0, recordDBError("weather_count", fmt.Errorf("count weather snapshots: %w", err))
	}
	return n, nil
}
