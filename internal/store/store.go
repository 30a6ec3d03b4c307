// Package store opens a transcription repository from a database URL.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jusunglee/g2pk/internal/db"
	"github.com/jusunglee/g2pk/internal/db/postgres"
	"github.com/jusunglee/g2pk/internal/db/sqlite"
)

// Open returns a PostgreSQL repository for postgres:// and postgresql://
// URLs and a SQLite repository for anything else, which is read as a file
// path with an optional sqlite:// prefix.
func Open(ctx context.Context, databaseURL string) (db.Repository, error) {
	if IsPostgres(databaseURL) {
		repo, err := postgres.New(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("creating PostgreSQL connection: %w", err)
		}
		return repo, nil
	}
	repo, err := sqlite.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating SQLite database: %w", err)
	}
	return repo, nil
}

func IsPostgres(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}
