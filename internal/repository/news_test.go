package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"location-info-service/internal/models"
)

func TestNewsRepository_SaveBatch(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresNewsRepository(mock, zap.NewNop())

	countryID := uuid.New()
	publishedAt := time.Now().UTC()
	items := []models.NewsItem{
		{CountryID: countryID, Source: "BBC News", Author: "Staff", Title: "One",
			Description: "First", URL: "https://news.example.com/1", PublishedAt: publishedAt},
		{CountryID: countryID, Source: "The Guardian", Title: "Two",
			URL: "https://news.example.com/2", PublishedAt: publishedAt},
	}

	mock.ExpectExec(saveNewsQuery).
		WithArgs(countryID, "BBC News", sql.NullString{String: "Staff", Valid: true},
			"One", sql.NullString{String: "First", Valid: true},
			"https://news.example.com/1", publishedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// duplicate URL: ON CONFLICT DO NOTHING affects zero rows but is not an error
	mock.ExpectExec(saveNewsQuery).
		WithArgs(countryID, "The Guardian", sql.NullString{},
			"Two", sql.NullString{},
			"https://news.example.com/2", publishedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, repo.SaveBatch(context.Background(), items))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsRepository_SaveBatch_Empty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresNewsRepository(mock, zap.NewNop())

	require.NoError(t, repo.SaveBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsRepository_FindByCountry(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresNewsRepository(mock, zap.NewNop())

	countryID := uuid.New()
	publishedAt := time.Now().UTC()
	cols := []string{"id", "country_id", "source", "author", "title",
		"description", "url", "published_at", "created_at"}

	mock.ExpectQuery(findNewsByCountryQuery).
		WithArgs(countryID, 50).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(uuid.New(), countryID, "BBC News", "Staff", "One",
				"First", "https://news.example.com/1", publishedAt, publishedAt).
			AddRow(uuid.New(), countryID, "The Guardian", "", "Two",
				"", "https://news.example.com/2", publishedAt, publishedAt))

	got, err := repo.FindByCountry(context.Background(), countryID, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Title)
	assert.Empty(t, got[1].Author)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsRepository_FindByCountry_NoRows(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresNewsRepository(mock, zap.NewNop())

	countryID := uuid.New()
	cols := []string{"id", "country_id", "source", "author", "title",
		"description", "url", "published_at", "created_at"}

	mock.ExpectQuery(findNewsByCountryQuery).
		WithArgs(countryID, 50).
		WillReturnRows(pgxmock.NewRows(cols))

	got, err := repo.FindByCountry(context.Background(), countryID, 50)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
