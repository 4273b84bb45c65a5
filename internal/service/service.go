// Package service holds the lookup flows between the HTTP layer, the external
// providers and the persistence layer. Every flow is database-first: a record
// is created on the first upstream fetch and served from PostgreSQL afterward.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// loggerFromContext extracts the request-scoped zap.Logger if the correlation
// middleware put one in the context.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if v := ctx.Value("logger"); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nil
}

// normalizeName normalizes lookup names for consistent database matching and
// upstream requests.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
