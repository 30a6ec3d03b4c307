package batch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/g2pk/internal/db/sqlite"
	"github.com/jusunglee/g2pk/internal/g2p"
)

var discard = slog.New(slog.DiscardHandler)

func newEngine(t *testing.T) *g2p.Engine {
	t.Helper()
	e, err := g2p.Load(discard)
	require.NoError(t, err)
	return e
}

func TestRunPreservesOrder(t *testing.T) {
	r := &Runner{
		Transcriber: g2p.NewCachedTranscriber(newEngine(t), nil, discard),
		Options:     g2p.DefaultOptions(),
		Workers:     4,
		Log:         discard,
	}

	input := strings.Join([]string{"신라", "", "밖에 있어", "3시 10분", "좋고", "  ", "굳이"}, "\n")
	var out bytes.Buffer
	stats, err := r.Run(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	assert.Equal(t, "실라\n\n바께 이써\n세시 십뿐\n조코\n\n구지\n", out.String())
	assert.Equal(t, Stats{Lines: 7, Blank: 2}, stats)
}

func TestRunRomanize(t *testing.T) {
	r := &Runner{
		Transcriber: g2p.NewCachedTranscriber(newEngine(t), nil, discard),
		Options:     g2p.DefaultOptions(),
		Romanize:    true,
		Log:         discard,
	}

	var out bytes.Buffer
	_, err := r.Run(context.Background(), strings.NewReader("신라\r\n있다\r\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "실라\tsilla\n읻따\titta\n", out.String())
}

func TestRunWithStore(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	r := &Runner{
		Transcriber: g2p.NewCachedTranscriber(newEngine(t), repo, discard),
		Options:     g2p.DefaultOptions(),
		Workers:     1,
		Log:         discard,
	}

	// the second 신라 is served from the store
	var out bytes.Buffer
	stats, err := r.Run(ctx, strings.NewReader("신라\n밖에\n신라\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "실라\n바께\n실라\n", out.String())
	assert.Equal(t, 1, stats.Cached)

	count, err := repo.CountTranscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

type failing struct{ err error }

func (f failing) Transcribe(context.Context, string, g2p.Options) (g2p.Result, error) {
	return g2p.Result{}, f.err
}

func TestRunError(t *testing.T) {
	boom := errors.New("store unavailable")
	r := &Runner{Transcriber: failing{err: boom}, Log: discard}

	var out bytes.Buffer
	_, err := r.Run(context.Background(), strings.NewReader("신라\n"), &out)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "line 1")
	assert.Empty(t, out.String())
}
