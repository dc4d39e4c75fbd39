package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/model"
)

func TestLocalSeedsFreshInstall(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(kvstore.NewMemoryStore())

	movies, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "Action Thriller", movies[0].Name)

	m, err := l.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Sci-Fi Adventure", m.Name)

	_, err = l.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestLocalSaveAssignsNextID(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(kvstore.NewMemoryStore())

	created, err := l.Save(ctx, model.Movie{Name: "New Release", Date: "2025-01-01", Time: "21:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)

	created.Name = "New Release (Director's Cut)"
	updated, err := l.Save(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	movies, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 4)
	assert.Equal(t, "New Release (Director's Cut)", movies[3].Name)

	_, err = l.Save(ctx, model.Movie{ID: 99, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestLocalDelete(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(kvstore.NewMemoryStore())

	require.NoError(t, l.Delete(ctx, 1))
	movies, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, movies, 2)

	assert.ErrorIs(t, l.Delete(ctx, 1), ErrMovieNotFound)
}
