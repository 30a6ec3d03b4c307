package db

import (
	"context"
	"time"
)

// Transcription is one stored pronunciation. The option columns are part of
// the key: the same input transcribes differently per mode.
type Transcription struct {
	ID          int64
	Input       string
	Output      string
	Romanized   string
	Descriptive bool
	GroupVowels bool
	ToSyllable  bool
	CreatedAt   time.Time
}

type SaveTranscriptionParams struct {
	Input       string
	Output      string
	Romanized   string
	Descriptive bool
	GroupVowels bool
	ToSyllable  bool
}

type GetTranscriptionParams struct {
	Input       string
	Descriptive bool
	GroupVowels bool
	ToSyllable  bool
}

type ListTranscriptionsParams struct {
	Limit  int32
	Offset int32
}

// Repository defines the interface for database operations
type Repository interface {
	// SaveTranscription inserts or replaces the row for the params' key and
	// returns the stored row.
	SaveTranscription(ctx context.Context, arg SaveTranscriptionParams) (Transcription, error)
	GetTranscription(ctx context.Context, arg GetTranscriptionParams) (Transcription, error)
	// ListTranscriptions returns rows newest first.
	ListTranscriptions(ctx context.Context, arg ListTranscriptionsParams) ([]Transcription, error)
	CountTranscriptions(ctx context.Context) (int64, error)

	// Lifecycle
	Close() error
}
