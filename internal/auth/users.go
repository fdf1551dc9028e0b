package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Role names used by the route table
const (
	RoleAdmin    = "admin"
	RoleExplorer = "explorer"
)

var (
	ErrNoUsers       = errors.New("users file defines no users")
	ErrMissingName   = errors.New("user entry missing 'username'")
	ErrMissingHash   = errors.New("user entry missing 'password_hash'")
	ErrDuplicateUser = errors.New("duplicate username")
)

// Credential is one login. Passwords are only ever held as bcrypt hashes.
type Credential struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

type usersFile struct {
	Users []Credential `yaml:"users"`
}

// LoadUsers reads credentials from a YAML file of the form
//
//	users:
//	  - username: harry
//	    password_hash: $2a$10$...
//	    role: explorer
func LoadUsers(path string) ([]Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseUsers(data)
}

// ParseUsers decodes and validates a users document.
func ParseUsers(data []byte) ([]Credential, error) {
	var f usersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse users: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, ErrNoUsers
	}

	seen := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		if strings.TrimSpace(u.Username) == "" {
			return nil, fmt.Errorf("users[%d]: %w", i, ErrMissingName)
		}
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("users[%d]: %w", i, ErrMissingHash)
		}
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			return nil, fmt.Errorf("users[%d]: password_hash: %w", i, err)
		}
		if seen[u.Username] {
			return nil, fmt.Errorf("users[%d]: %w: %s", i, ErrDuplicateUser, u.Username)
		}
		seen[u.Username] = true
	}
	return f.Users, nil
}

// HashPassword returns a bcrypt hash suitable for a users file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var (
	demoOnce  sync.Once
	demoUsers []Credential
)

// DemoUsers returns the built-in accounts used when no users file is
// configured: harry/expelliarmus (explorer) and hermione/wingardium (admin).
func DemoUsers() []Credential {
	demoOnce.Do(func() {
		for _, u := range []struct{ name, password, role string }{
			{"harry", "expelliarmus", RoleExplorer},
			{"hermione", "wingardium", RoleAdmin},
		} {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.MinCost)
			if err != nil {
				panic(fmt.Sprintf("hash demo password: %v", err))
			}
			demoUsers = append(demoUsers, Credential{Username: u.name, PasswordHash: string(hash), Role: u.role})
		}
	})
	out := make([]Credential, len(demoUsers))
	copy(out, demoUsers)
	return out
}
