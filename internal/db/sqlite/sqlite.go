package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jusunglee/g2pk/internal/db"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const memoryPath = ":memory:"

// Fixed width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository implements db.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(ctx context.Context, dbPath string) (*Repository, error) {
	// Strip sqlite:// prefix if present
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	isNew := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		isNew = true
	}

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if dbPath == memoryPath {
		sqliteDB.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if isNew && dbPath != memoryPath {
		slog.Info("created new SQLite database", "path", dbPath)
	}

	return &Repository{db: sqliteDB}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

const transcriptionColumns = `id, input, output, romanized, descriptive, group_vowels, to_syllable, created_at`

func (r *Repository) SaveTranscription(ctx context.Context, arg db.SaveTranscriptionParams) (db.Transcription, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO transcriptions (input, output, romanized, descriptive, group_vowels, to_syllable, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (input, descriptive, group_vowels, to_syllable) DO UPDATE SET
			output = excluded.output,
			romanized = excluded.romanized,
			created_at = excluded.created_at
		RETURNING `+transcriptionColumns,
		arg.Input, arg.Output, arg.Romanized, arg.Descriptive, arg.GroupVowels, arg.ToSyllable,
		time.Now().UTC().Format(timeLayout))
	return scanTranscription(row)
}

func (r *Repository) GetTranscription(ctx context.Context, arg db.GetTranscriptionParams) (db.Transcription, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transcriptionColumns+` FROM transcriptions
		WHERE input = ? AND descriptive = ? AND group_vowels = ? AND to_syllable = ?
	`, arg.Input, arg.Descriptive, arg.GroupVowels, arg.ToSyllable)
	return scanTranscription(row)
}

func (r *Repository) ListTranscriptions(ctx context.Context, arg db.ListTranscriptionsParams) ([]db.Transcription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transcriptionColumns+` FROM transcriptions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTranscriptions(rows)
}

func (r *Repository) CountTranscriptions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcriptions`).Scan(&count)
	return count, err
}

// Scan helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanInto(s scanner) (db.Transcription, error) {
	var t db.Transcription
	var createdAtStr string
	err := s.Scan(&t.ID, &t.Input, &t.Output, &t.Romanized, &t.Descriptive, &t.GroupVowels, &t.ToSyllable, &createdAtStr)
	if err != nil {
		return db.Transcription{}, err
	}
	t.CreatedAt, _ = time.Parse(timeLayout, createdAtStr)
	return t, nil
}

func scanTranscription(row *sql.Row) (db.Transcription, error) {
	t, err := scanInto(row)
	if err == sql.ErrNoRows {
		return db.Transcription{}, db.ErrNoRows
	}
	return t, err
}

func scanTranscriptions(rows *sql.Rows) ([]db.Transcription, error) {
	var out []db.Transcription
	for rows.Next() {
		t, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
