package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmcdole/grimoire/internal/testutil"
)

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Push(path string) { n.paths = append(n.paths, path) }

func newTestStore(t *testing.T) (*Store, *testutil.MemoryStorage, *recordingNavigator) {
	t.Helper()
	storage := testutil.NewMemoryStorage()
	nav := &recordingNavigator{}
	return NewStore(DemoUsers(), storage, nav, testutil.Logger()), storage, nav
}

func TestLoginSuccess(t *testing.T) {
	s, storage, _ := newTestStore(t)

	require.True(t, s.Login("hermione", "wingardium"))
	require.Equal(t, &User{Username: "hermione", Role: RoleAdmin}, s.User())

	raw, ok := storage.GetItem(StorageKey)
	require.True(t, ok)
	require.JSONEq(t, `{"username":"hermione","role":"admin"}`, raw)
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	s, storage, _ := newTestStore(t)
	require.True(t, s.Login("harry", "expelliarmus"))

	tests := []struct{ user, pass string }{
		{"harry", "wrong"},
		{"ron", "expelliarmus"},
		{"", ""},
		{"HARRY", "expelliarmus"},
	}
	for _, tt := range tests {
		require.False(t, s.Login(tt.user, tt.pass), "%s/%s", tt.user, tt.pass)
	}

	require.Equal(t, "harry", s.User().Username)
	raw, _ := storage.GetItem(StorageKey)
	require.JSONEq(t, `{"username":"harry","role":"explorer"}`, raw)
}

func TestLogout(t *testing.T) {
	s, storage, nav := newTestStore(t)
	require.True(t, s.Login("harry", "expelliarmus"))

	s.Logout()
	require.Nil(t, s.User())
	require.False(t, s.IsAuthenticated())
	_, ok := storage.GetItem(StorageKey)
	require.False(t, ok)
	require.Equal(t, []string{"/login"}, nav.paths)
}

func TestInitRestoresPersistedUser(t *testing.T) {
	storage := testutil.NewMemoryStorage()
	require.NoError(t, storage.SetItem(StorageKey, `{"username":"luna","role":"seer"}`))

	s := NewStore(nil, storage, nil, testutil.Logger())
	require.False(t, s.IsAuthenticated())
	s.Init()
	require.Equal(t, &User{Username: "luna", Role: "seer"}, s.User())
}

func TestInitIgnoresCorruptValue(t *testing.T) {
	storage := testutil.NewMemoryStorage()
	require.NoError(t, storage.SetItem(StorageKey, `nope`))

	s := NewStore(nil, storage, nil, testutil.Logger())
	s.Init()
	require.Nil(t, s.User())
}

func TestUserIsACopy(t *testing.T) {
	s, _, _ := newTestStore(t)
	require.True(t, s.Login("harry", "expelliarmus"))
	u := s.User()
	u.Role = RoleAdmin
	require.Equal(t, RoleExplorer, s.User().Role)
}

func TestParseUsers(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("alohomora"), bcrypt.MinCost)
	require.NoError(t, err)

	doc := "users:\n  - username: neville\n    password_hash: " + string(hash) + "\n    role: explorer\n"
	users, err := ParseUsers([]byte(doc))
	require.NoError(t, err)
	require.Len(t, users, 1)

	s := NewStore(users, testutil.NewMemoryStorage(), nil, testutil.Logger())
	require.True(t, s.Login("neville", "alohomora"))

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "users: []\n", ErrNoUsers},
		{"missing name", "users:\n  - password_hash: " + string(hash) + "\n", ErrMissingName},
		{"missing hash", "users:\n  - username: a\n", ErrMissingHash},
		{"duplicate", "users:\n  - username: a\n    password_hash: " + string(hash) + "\n  - username: a\n    password_hash: " + string(hash) + "\n", ErrDuplicateUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUsers([]byte(tt.doc))
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err = ParseUsers([]byte("users:\n  - username: a\n    password_hash: plaintext\n"))
	require.Error(t, err, "plaintext passwords are rejected")
}

func TestLoadUsersFromFile(t *testing.T) {
	hash, err := HashPassword("lumos")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  - username: ginny\n    password_hash: "+hash+"\n    role: admin\n"), 0o600))

	users, err := LoadUsers(path)
	require.NoError(t, err)
	require.Equal(t, "ginny", users[0].Username)

	_, err = LoadUsers(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
