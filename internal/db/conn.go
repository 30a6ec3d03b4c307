package db

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a pgx pool for the transcription store. A pool_max_conns or
// pool_min_conns parameter in the URL wins over the sizing here.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}
	sizePool(config, databaseURL, runtime.GOMAXPROCS(0))

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

// sizePool allows one connection per batch worker. Every cache miss is a
// lookup followed by an upsert on the same goroutine, so more connections
// than workers would sit idle.
func sizePool(config *pgxpool.Config, databaseURL string, workers int) {
	if !strings.Contains(databaseURL, "pool_max_conns") {
		config.MaxConns = int32(max(workers, 2))
	}
	if !strings.Contains(databaseURL, "pool_min_conns") {
		config.MinConns = 1
	}
	config.MinConns = min(config.MinConns, config.MaxConns)
	config.MaxConnIdleTime = time.Minute
	config.HealthCheckPeriod = 30 * time.Second
}
