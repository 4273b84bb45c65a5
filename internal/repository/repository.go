// Package repository holds the PostgreSQL persistence layer. Each entity gets
// an interface plus a pgx implementation; services depend on the interfaces.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"location-info-service/internal/observability"
)

// ErrNotFound is returned when a query matches no rows.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("record already exists")

// Querier is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// uniqueViolation reports whether err is a PostgreSQL unique_violation (23505).
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// recordDBError counts a statement failure for the given operation, ignoring
// no-rows results which are expected control flow.
func recordDBError(operation string, err error) error {
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		observability.DBErrorsTotal.WithLabelValues(operation).Inc()
	}
	return err
}
