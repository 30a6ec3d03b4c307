package g2p

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jusunglee/g2pk/internal/db"
	"github.com/jusunglee/g2pk/internal/metrics"
	"github.com/jusunglee/g2pk/internal/transliteration"
)

// CachedTranscriber reads through to a transcription store. With a nil
// repository it only runs the engine and records metrics.
type CachedTranscriber struct {
	engine *Engine
	repo   db.Repository
	log    *slog.Logger
}

func NewCachedTranscriber(engine *Engine, repo db.Repository, log *slog.Logger) *CachedTranscriber {
	if log == nil {
		log = slog.Default()
	}
	return &CachedTranscriber{engine: engine, repo: repo, log: log}
}

// Transcribe returns the stored pronunciation for text and opts, or runs the
// pipeline and stores the result. Verbose calls always run the pipeline
// because traces are not stored.
func (c *CachedTranscriber) Transcribe(ctx context.Context, text string, opts Options) (Result, error) {
	key := db.GetTranscriptionParams{
		Input:       text,
		Descriptive: opts.Descriptive,
		GroupVowels: opts.GroupVowels,
		ToSyllable:  opts.ToSyllable,
	}

	if c.repo != nil && !opts.Verbose {
		stored, err := c.repo.GetTranscription(ctx, key)
		switch {
		case err == nil:
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return Result{Text: stored.Output, Cached: true}, nil
		case !db.IsNoRows(err):
			return Result{}, fmt.Errorf("looking up transcription: %w", err)
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	res := c.engine.Transcribe(text, opts)
	metrics.TranscriptionDuration.Observe(time.Since(start).Seconds())
	metrics.Transcriptions.WithLabelValues(opts.mode().String()).Inc()

	if c.repo == nil {
		return res, nil
	}
	_, err := c.repo.SaveTranscription(ctx, db.SaveTranscriptionParams{
		Input:       text,
		Output:      res.Text,
		Romanized:   transliteration.Romanize(res.Text),
		Descriptive: opts.Descriptive,
		GroupVowels: opts.GroupVowels,
		ToSyllable:  opts.ToSyllable,
	})
	if err != nil {
		return Result{}, fmt.Errorf("saving transcription: %w", err)
	}
	c.log.DebugContext(ctx, "stored transcription", "input", text, "mode", opts.mode())
	return res, nil
}
