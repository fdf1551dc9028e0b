package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/grimoire/internal/domain"
)

func sampleSnapshot(ts time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		Timestamp: ts,
		Buster:    "v1",
		Queries: []domain.PersistedQuery{
			{Key: "houses", Data: json.RawMessage(`[{"id":"h1","name":"Ravenclaw"}]`), UpdatedAt: ts},
		},
	}
}

func TestPersistRestoreRemove(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, DBFileName), s.Path())

	snap, err := s.RestoreClient(ctx)
	require.NoError(t, err)
	require.Nil(t, snap, "fresh database has no snapshot")

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.PersistClient(ctx, sampleSnapshot(ts)))
	require.NoError(t, s.Close())

	// Reopen to prove the record reached disk, not just the memory cache.
	s, err = Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	snap, err = s.RestoreClient(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.True(t, snap.Timestamp.Equal(ts))
	require.Equal(t, "v1", snap.Buster)
	require.Len(t, snap.Queries, 1)
	require.JSONEq(t, `[{"id":"h1","name":"Ravenclaw"}]`, string(snap.Queries[0].Data))

	require.NoError(t, s.RemoveClient(ctx))
	snap, err = s.RestoreClient(ctx)
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestSnapshotNotHeldInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.PersistClient(ctx, sampleSnapshot(time.Now())))
	snap, err := s.RestoreClient(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)

	require.NoError(t, s.SetItem("session", "harry"))
	_, ok := s.GetItem("session")
	require.True(t, ok)

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.NotContains(t, s.cache, string(bucketQueries)+":"+clientKey)
	require.Contains(t, s.cache, string(bucketLocalStorage)+":session")
}

func TestPersistOverwritesWholesale(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	first := sampleSnapshot(time.Now())
	first.Queries = append(first.Queries, domain.PersistedQuery{Key: "spells", Data: json.RawMessage(`[]`)})
	require.NoError(t, s.PersistClient(ctx, first))

	second := sampleSnapshot(time.Now())
	require.NoError(t, s.PersistClient(ctx, second))

	got, err := s.RestoreClient(ctx)
	require.NoError(t, err)
	require.Len(t, got.Queries, 1)
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	require.Empty(t, s.Path())
	ctx := context.Background()

	require.NoError(t, s.PersistClient(ctx, sampleSnapshot(time.Now())))
	snap, err := s.RestoreClient(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)

	require.NoError(t, s.SetItem("auth_user", `{"username":"harry"}`))
	v, ok := s.GetItem("auth_user")
	require.True(t, ok)
	require.Equal(t, `{"username":"harry"}`, v)
	require.NoError(t, s.Close())
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	_, ok := s.GetItem("favourites.spells")
	require.False(t, ok)

	require.NoError(t, s.SetItem("favourites.spells", `["s1"]`))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, ok := s.GetItem("favourites.spells")
	require.True(t, ok)
	require.Equal(t, `["s1"]`, v)

	require.NoError(t, s.RemoveItem("favourites.spells"))
	_, ok = s.GetItem("favourites.spells")
	require.False(t, ok)

	// Removing an absent key is not an error.
	require.NoError(t, s.RemoveItem("never-set"))
}

func TestClear(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.PersistClient(ctx, sampleSnapshot(time.Now())))
	require.NoError(t, s.SetItem("auth_user", "x"))
	require.NoError(t, s.Clear())

	snap, err := s.RestoreClient(ctx)
	require.NoError(t, err)
	require.Nil(t, snap)
	_, ok := s.GetItem("auth_user")
	require.False(t, ok)
}

func TestCanceledContext(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.PersistClient(ctx, sampleSnapshot(time.Now())), context.Canceled)
	_, err = s.RestoreClient(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
