package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jusunglee/g2pk/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndGetTranscription(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	saved, err := repo.SaveTranscription(ctx, db.SaveTranscriptionParams{
		Input:      "어제는 날씨가 맑았는데",
		Output:     "어제는 날씨가 말간는데",
		Romanized:  "eojeneun nalssiga malganneunde",
		ToSyllable: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := repo.GetTranscription(ctx, db.GetTranscriptionParams{
		Input:      "어제는 날씨가 맑았는데",
		ToSyllable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "어제는 날씨가 말간는데", got.Output)
	assert.Equal(t, "eojeneun nalssiga malganneunde", got.Romanized)
	assert.True(t, got.ToSyllable)
	assert.False(t, got.Descriptive)
}

func TestGetTranscriptionMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetTranscription(context.Background(), db.GetTranscriptionParams{Input: "없음"})
	assert.ErrorIs(t, err, db.ErrNoRows)
	assert.True(t, db.IsNoRows(err))
}

func TestSaveTranscriptionKeyedByOptions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.SaveTranscription(ctx, db.SaveTranscriptionParams{Input: "나의 친구", Output: "나의 친구", ToSyllable: true})
	require.NoError(t, err)
	_, err = repo.SaveTranscription(ctx, db.SaveTranscriptionParams{Input: "나의 친구", Output: "나에 친구", Descriptive: true, ToSyllable: true})
	require.NoError(t, err)

	count, err := repo.CountTranscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Same key replaces the stored output
	again, err := repo.SaveTranscription(ctx, db.SaveTranscriptionParams{Input: "나의 친구", Output: "replaced", ToSyllable: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "replaced", again.Output)

	count, err = repo.CountTranscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListTranscriptions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, input := range []string{"하나", "둘", "셋"} {
		_, err := repo.SaveTranscription(ctx, db.SaveTranscriptionParams{Input: input, Output: input})
		require.NoError(t, err)
	}

	all, err := repo.ListTranscriptions(ctx, db.ListTranscriptionsParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "셋", all[0].Input)
	assert.Equal(t, "하나", all[2].Input)

	page, err := repo.ListTranscriptions(ctx, db.ListTranscriptionsParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "둘", page[0].Input)
}

func TestNewFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g2pk.db")
	ctx := context.Background()

	repo, err := New(ctx, "sqlite://"+path)
	require.NoError(t, err)
	_, err = repo.SaveTranscription(ctx, db.SaveTranscriptionParams{Input: "값", Output: "갑"})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := New(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetTranscription(ctx, db.GetTranscriptionParams{Input: "값"})
	require.NoError(t, err)
	assert.Equal(t, "갑", got.Output)
}
