// Package batch transcribes line-oriented corpora in parallel.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/g2pk/internal/g2p"
	"github.com/jusunglee/g2pk/internal/metrics"
	"github.com/jusunglee/g2pk/internal/transliteration"
)

const maxLineSize = 1 << 20

type Transcriber interface {
	Transcribe(ctx context.Context, text string, opts g2p.Options) (g2p.Result, error)
}

type Runner struct {
	Transcriber Transcriber
	Options     g2p.Options
	// Workers bounds the number of lines in flight. Zero means GOMAXPROCS.
	Workers int
	// Romanize appends a tab and the romanized output to every line.
	Romanize bool
	Log      *slog.Logger
}

type Stats struct {
	Lines  int
	Blank  int
	Cached int
}

// Run reads one sentence per line from r and writes one transcription per
// line to w, in input order. Blank lines are copied through.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}

	var lines []string
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Stats{}, fmt.Errorf("reading input: %w", err)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]string, len(lines))
	var cached, blank atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank.Add(1)
			metrics.BatchLines.WithLabelValues("blank").Inc()
			continue
		}
		g.Go(func() error {
			res, err := r.Transcriber.Transcribe(gctx, line, r.Options)
			if err != nil {
				metrics.BatchLines.WithLabelValues("failed").Inc()
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			if res.Cached {
				cached.Add(1)
			}
			metrics.BatchLines.WithLabelValues("success").Inc()

			results[i] = res.Text
			if r.Romanize {
				results[i] += "\t" + transliteration.Romanize(res.Text)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("transcribing batch: %w", err)
	}

	bw := bufio.NewWriter(out)
	for _, res := range results {
		bw.WriteString(res)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return Stats{}, fmt.Errorf("writing output: %w", err)
	}

	stats := Stats{Lines: len(lines), Blank: int(blank.Load()), Cached: int(cached.Load())}
	log.InfoContext(ctx, "batch finished", "lines", stats.Lines, "blank", stats.Blank, "cached", stats.Cached, "workers", workers)
	return stats, nil
}
