package profilerepo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/natal-chart/internal/domain/profile"
)

func TestMemoryRepositoryLifecycle(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newer := profile.Profile{ID: uuid.New(), Owner: "alice", DOB: "1990-05-05", CreatedAt: base.Add(time.Hour)}
	older := profile.Profile{ID: uuid.New(), Owner: "alice", DOB: "1980-01-01", CreatedAt: base}
	other := profile.Profile{ID: uuid.New(), Owner: "bob", CreatedAt: base}
	for _, p := range []profile.Profile{newer, older, other} {
		require.NoError(t, repo.Create(ctx, p))
	}
	require.Error(t, repo.Create(ctx, older))

	got, found, err := repo.Get(ctx, newer.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, newer, got)

	list, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []profile.Profile{older, newer}, list)

	deleted, err := repo.Delete(ctx, older.ID)
	require.NoError(t, err)
	require.True(t, deleted)
	deleted, err = repo.Delete(ctx, older.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	_, found, err = repo.Get(ctx, older.ID)
	require.NoError(t, err)
	require.False(t, found)

	empty, err := repo.ListByOwner(ctx, "carol")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}
