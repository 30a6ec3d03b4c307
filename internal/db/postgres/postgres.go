package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/g2pk/internal/db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transcriptions (
    id BIGSERIAL PRIMARY KEY,
    input TEXT NOT NULL,
    output TEXT NOT NULL,
    romanized TEXT NOT NULL DEFAULT '',
    descriptive BOOLEAN NOT NULL DEFAULT FALSE,
    group_vowels BOOLEAN NOT NULL DEFAULT FALSE,
    to_syllable BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (input, descriptive, group_vowels, to_syllable)
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_created_at ON transcriptions (created_at);
`

const transcriptionColumns = `id, input, output, romanized, descriptive, group_vowels, to_syllable, created_at`

// Repository implements db.Repository using PostgreSQL via pgx
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL repository and makes sure the schema exists
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// PoolStats returns the current connection pool statistics.
func (r *Repository) PoolStats() *pgxpool.Stat {
	return r.pool.Stat()
}

func (r *Repository) SaveTranscription(ctx context.Context, arg db.SaveTranscriptionParams) (db.Transcription, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO transcriptions (input, output, romanized, descriptive, group_vowels, to_syllable)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (input, descriptive, group_vowels, to_syllable) DO UPDATE SET
			output = EXCLUDED.output,
			romanized = EXCLUDED.romanized,
			created_at = NOW()
		RETURNING `+transcriptionColumns,
		arg.Input, arg.Output, arg.Romanized, arg.Descriptive, arg.GroupVowels, arg.ToSyllable)
	return scanTranscription(row)
}

func (r *Repository) GetTranscription(ctx context.Context, arg db.GetTranscriptionParams) (db.Transcription, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transcriptionColumns+` FROM transcriptions
		WHERE input = $1 AND descriptive = $2 AND group_vowels = $3 AND to_syllable = $4
	`, arg.Input, arg.Descriptive, arg.GroupVowels, arg.ToSyllable)
	return scanTranscription(row)
}

func (r *Repository) ListTranscriptions(ctx context.Context, arg db.ListTranscriptionsParams) ([]db.Transcription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transcriptionColumns+` FROM transcriptions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.Transcription, error) {
		return scanInto(row)
	})
}

func (r *Repository) CountTranscriptions(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transcriptions`).Scan(&count)
	return count, err
}

func scanInto(row pgx.Row) (db.Transcription, error) {
	var t db.Transcription
	err := row.Scan(&t.ID, &t.Input, &t.Output, &t.Romanized, &t.Descriptive, &t.GroupVowels, &t.ToSyllable, &t.CreatedAt)
	return t, err
}

func scanTranscription(row pgx.Row) (db.Transcription, error) {
	t, err := scanInto(row)
	if err == pgx.ErrNoRows {
		return db.Transcription{}, db.ErrNoRows
	}
	return t, err
}
