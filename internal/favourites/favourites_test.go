package favourites

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/grimoire/internal/store"
	"github.com/mmcdole/grimoire/internal/testutil"
)

func TestToggleAddsAndRemoves(t *testing.T) {
	storage := testutil.NewMemoryStorage()
	favs := New(storage, "spells", testutil.Logger())

	on, err := favs.Toggle("s2")
	require.NoError(t, err)
	require.True(t, on)
	_, err = favs.Toggle("s1")
	require.NoError(t, err)

	require.True(t, favs.IsFavourite("s1"))
	require.Equal(t, []string{"s1", "s2"}, favs.IDs())

	raw, ok := storage.GetItem("favourites.spells")
	require.True(t, ok)
	require.JSONEq(t, `["s1","s2"]`, raw)

	on, err = favs.Toggle("s2")
	require.NoError(t, err)
	require.False(t, on)
	require.False(t, favs.IsFavourite("s2"))
	require.Equal(t, 1, favs.Len())

	raw, _ = storage.GetItem("favourites.spells")
	require.JSONEq(t, `["s1"]`, raw)
}

func TestToggleTwiceRestoresSet(t *testing.T) {
	favs := New(testutil.NewMemoryStorage(), "houses", testutil.Logger())
	_, _ = favs.Toggle("h1")
	before := favs.IDs()

	_, _ = favs.Toggle("h2")
	_, _ = favs.Toggle("h2")
	require.Equal(t, before, favs.IDs())
}

func TestLoadsExistingAndDeduplicates(t *testing.T) {
	storage := testutil.NewMemoryStorage()
	require.NoError(t, storage.SetItem("favourites.elixirs", `["e1","e1","e2"]`))

	favs := New(storage, "elixirs", testutil.Logger())
	require.Equal(t, []string{"e1", "e2"}, favs.IDs())
}

func TestNamespacesAreIndependent(t *testing.T) {
	storage := testutil.NewMemoryStorage()
	spells := New(storage, "spells", testutil.Logger())
	houses := New(storage, "houses", testutil.Logger())

	_, _ = spells.Toggle("x")
	require.True(t, spells.IsFavourite("x"))
	require.False(t, houses.IsFavourite("x"))
	require.Equal(t, "favourites.houses", houses.Key())
}

func TestCorruptValueIsEmptySet(t *testing.T) {
	storage := testutil.NewMemoryStorage()
	require.NoError(t, storage.SetItem("favourites.spells", `{not json`))

	favs := New(storage, "spells", testutil.Logger())
	require.Zero(t, favs.Len())

	_, err := favs.Toggle("s1")
	require.NoError(t, err)
	raw, _ := storage.GetItem("favourites.spells")
	require.JSONEq(t, `["s1"]`, raw)
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	storage := testutil.NewMemoryStorage()
	favs := New(storage, "spells", testutil.Logger())
	storage.FailWrite = true

	on, err := favs.Toggle("s1")
	require.ErrorIs(t, err, testutil.ErrWriteFailed)
	require.True(t, on)
	require.True(t, favs.IsFavourite("s1"))
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := store.Open(dir)
	require.NoError(t, err)
	_, err = New(db, "wizards", testutil.Logger()).Toggle("w1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = store.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.True(t, New(db, "wizards", testutil.Logger()).IsFavourite("w1"))
}
