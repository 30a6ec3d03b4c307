package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/g2pk/internal/db/sqlite"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://user@localhost/g2pk"))
	assert.True(t, IsPostgres("postgresql://localhost/g2pk"))
	assert.False(t, IsPostgres("sqlite://g2pk.db"))
	assert.False(t, IsPostgres(":memory:"))
}

func TestOpenSQLite(t *testing.T) {
	repo, err := Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	defer repo.Close()

	assert.IsType(t, &sqlite.Repository{}, repo)
}
