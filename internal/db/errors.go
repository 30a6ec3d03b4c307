package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows means no transcription is stored for the requested input and
// options.
var ErrNoRows = errors.New("transcription not stored")

// IsNoRows reports whether err is a store miss from either backend. Callers
// treat a miss as a reason to run the pipeline, never as a failure.
func IsNoRows(err error) bool {
	return errors.Is(err, ErrNoRows) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, pgx.ErrNoRows)
}
