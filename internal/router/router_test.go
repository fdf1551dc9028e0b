package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/grimoire/internal/auth"
	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/testutil"
)

type fakeSession struct{ user *auth.User }

func (f *fakeSession) User() *auth.User { return f.user }

func TestResolve(t *testing.T) {
	tests := []struct {
		path     string
		wantName string
		wantID   string
		wantOK   bool
	}{
		{"/", NameHome, "", true},
		{"/login", NameLogin, "", true},
		{"/houses", NameHouses, "", true},
		{"/houses/abc-123", NameHouseDetail, "abc-123", true},
		{"/spells/s%201/", NameSpellDetail, "s 1", true},
		{"/elixirs/e1", NameElixirDetail, "e1", true},
		{"/wizards", NameWizards, "", true},
		{"/wizards/w1", "", "", false},
		{"/dragons", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := Resolve(tt.path)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			require.Equal(t, tt.wantName, m.Route.Name)
			require.Equal(t, tt.wantID, m.Param("id"))
		})
	}
}

func TestGuard(t *testing.T) {
	explorer := &auth.User{Username: "harry", Role: auth.RoleExplorer}
	admin := &auth.User{Username: "hermione", Role: auth.RoleAdmin}

	route := func(path string) Route {
		m, ok := Resolve(path)
		require.True(t, ok)
		return m.Route
	}

	require.Equal(t, "", Guard(route("/login"), nil))
	require.Equal(t, LoginPath, Guard(route("/spells"), nil))
	require.Equal(t, LoginPath, Guard(route("/wizards"), nil))
	require.Equal(t, "", Guard(route("/spells"), explorer))
	require.Equal(t, HomePath, Guard(route("/wizards"), explorer))
	require.Equal(t, "", Guard(route("/wizards"), admin))
}

func TestRouterRedirects(t *testing.T) {
	session := &fakeSession{}
	r := New(session, testutil.Logger())

	m, err := r.Navigate("/houses/h1")
	require.NoError(t, err)
	require.Equal(t, NameLogin, m.Route.Name)

	session.user = &auth.User{Username: "harry", Role: auth.RoleExplorer}
	m, err = r.Navigate("/wizards")
	require.NoError(t, err)
	require.Equal(t, NameHome, m.Route.Name)

	_, err = r.Navigate("/nowhere")
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestRouterHistory(t *testing.T) {
	session := &fakeSession{user: &auth.User{Username: "hermione", Role: auth.RoleAdmin}}
	r := New(session, testutil.Logger())

	_, ok := r.Current()
	require.False(t, ok)
	_, ok = r.Back()
	require.False(t, ok)

	r.Push(HomePath)
	r.Push(ListPath(domain.KindElixirs))
	r.Push(DetailPath(domain.KindElixirs, "e1"))
	require.Equal(t, 3, r.Depth())

	cur, ok := r.Current()
	require.True(t, ok)
	require.Equal(t, "e1", cur.Param("id"))
	require.True(t, cur.IsDetail())

	m, ok := r.Back()
	require.True(t, ok)
	require.Equal(t, NameElixirs, m.Route.Name)
	require.Equal(t, 2, r.Depth())

	// Back re-runs the guard: a signed-out user lands on login.
	session.user = nil
	m, ok = r.Back()
	require.True(t, ok)
	require.Equal(t, NameLogin, m.Route.Name)
}

func TestLogoutNavigatesToLogin(t *testing.T) {
	storage := testutil.NewMemoryStorage()
	authStore := auth.NewStore(auth.DemoUsers(), storage, nil, testutil.Logger())
	r := New(authStore, testutil.Logger())
	authStore.SetNavigator(r)

	require.True(t, authStore.Login("harry", "expelliarmus"))
	r.Push("/spells")

	authStore.Logout()
	cur, ok := r.Current()
	require.True(t, ok)
	require.Equal(t, NameLogin, cur.Route.Name)
}
