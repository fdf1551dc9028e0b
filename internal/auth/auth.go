package auth

import (
	"encoding/json"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmcdole/grimoire/internal/domain"
)

// StorageKey is where the signed-in user is persisted
const StorageKey = "auth_user"

// LoginPath is where Logout sends the user
const LoginPath = "/login"

// User is the signed-in identity. Role is an open string.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store holds at most one signed-in user.
type Store struct {
	users     []Credential
	storage   domain.LocalStorage
	navigator domain.Navigator
	logger    *slog.Logger

	mu   sync.Mutex
	user *User
}

// NewStore creates a signed-out store. navigator may be nil until the UI
// exists; see SetNavigator.
func NewStore(users []Credential, storage domain.LocalStorage, navigator domain.Navigator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{users: users, storage: storage, navigator: navigator, logger: logger}
}

// SetNavigator wires the navigator used by Logout
func (s *Store) SetNavigator(n domain.Navigator) {
	s.mu.Lock()
	s.navigator = n
	s.mu.Unlock()
}

// Init restores a persisted user, if any. A value that does not decode is
// dropped with a warning.
func (s *Store) Init() {
	raw, ok := s.storage.GetItem(StorageKey)
	if !ok || raw == "" {
		return
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.Warn("ignoring corrupt persisted user", "error", err)
		return
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
}

// Login checks the credential list in order. On a match the user is set and
// persisted; otherwise state is unchanged and false is returned.
func (s *Store) Login(username, password string) bool {
	for _, c := range s.users {
		if c.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
			continue
		}

		u := &User{Username: c.Username, Role: c.Role}
		s.mu.Lock()
		s.user = u
		s.mu.Unlock()

		data, _ := json.Marshal(u)
		if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
			s.logger.Error("failed to persist user", "error", err)
		}
		s.logger.Info("user logged in", "username", u.Username, "role", u.Role)
		return true
	}
	s.logger.Info("login rejected", "username", username)
	return false
}

// Logout clears the user, forgets the persisted value and navigates to the
// login route.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	nav := s.navigator
	s.mu.Unlock()

	if err := s.storage.RemoveItem(StorageKey); err != nil {
		s.logger.Error("failed to remove persisted user", "error", err)
	}
	if nav != nil {
		nav.Push(LoginPath)
	}
}

// User returns a copy of the signed-in user, or nil
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}
