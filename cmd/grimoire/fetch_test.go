package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/grimoire/internal/auth"
	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/favourites"
	"github.com/mmcdole/grimoire/internal/testutil"
)

func TestCheckAccess(t *testing.T) {
	st := testutil.NewMemoryStorage()
	a := &app{auth: auth.NewStore(auth.DemoUsers(), st, nil, testutil.Logger())}

	require.ErrorContains(t, checkAccess(a, domain.KindSpells), "sign in first")
	require.NoError(t, checkAccess(a, domain.KindIngredients), "ingredients have no page to guard")

	require.True(t, a.auth.Login("harry", "expelliarmus"))
	require.NoError(t, checkAccess(a, domain.KindSpells))
	require.ErrorContains(t, checkAccess(a, domain.KindWizards), "requires the admin role")

	a.auth.Logout()
	require.True(t, a.auth.Login("hermione", "wingardium"))
	require.NoError(t, checkAccess(a, domain.KindWizards))
}

func TestPrintTable_MarksFavourites(t *testing.T) {
	favs := favourites.New(testutil.NewMemoryStorage(), "spells", testutil.Logger())
	_, err := favs.Toggle("s2")
	require.NoError(t, err)

	items := []domain.ListItem{
		&domain.Spell{ID: "s1", Name: "Lumos"},
		&domain.Spell{ID: "s2", Name: "Accio"},
	}
	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, items, favs))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	require.Contains(t, string(lines[0]), "NAME")
	require.NotContains(t, string(lines[1]), "★")
	require.Contains(t, string(lines[2]), "★")
	require.Contains(t, string(lines[2]), "Accio")
}

func TestPrintRecord_Formats(t *testing.T) {
	house := &domain.House{ID: "h1", Name: "Ravenclaw"}

	var buf bytes.Buffer
	require.NoError(t, printRecord(&buf, "json", house))
	require.Contains(t, buf.String(), `"name": "Ravenclaw"`)

	buf.Reset()
	require.NoError(t, printRecord(&buf, "yaml", house))
	require.Contains(t, buf.String(), "name: Ravenclaw")

	require.ErrorContains(t, printRecord(&buf, "xml", house), "unknown output format")
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds(nil)
	require.NoError(t, err)
	require.Equal(t, domain.Kinds, kinds)

	kinds, err = parseKinds([]string{"spells", "wizards"})
	require.NoError(t, err)
	require.Equal(t, []domain.Kind{domain.KindSpells, domain.KindWizards}, kinds)

	_, err = parseKinds([]string{"dragons"})
	require.Error(t, err)
}

func TestIsFavouriteKind(t *testing.T) {
	require.True(t, isFavouriteKind(domain.KindSpells))
	require.True(t, isFavouriteKind(domain.KindWizards))
	require.False(t, isFavouriteKind(domain.KindHouses))
}
