package router

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/grimoire/internal/auth"
	"github.com/mmcdole/grimoire/internal/domain"
)

// ErrNoRoute is returned for paths outside the route table.
var ErrNoRoute = errors.New("no route matches path")

const maxRedirects = 4

// Session supplies the signed-in user to the guard.
type Session interface {
	User() *auth.User
}

// Router resolves paths, runs the guard on every entry and keeps a history
// stack.
type Router struct {
	session Session
	logger  *slog.Logger

	mu      sync.Mutex
	history []Match
}

var _ domain.Navigator = (*Router)(nil)

func New(session Session, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{session: session, logger: logger}
}

// Navigate resolves path, follows guard redirects and pushes the final
// match onto the history.
func (r *Router) Navigate(path string) (Match, error) {
	m, err := r.resolveGuarded(path)
	if err != nil {
		return Match{}, err
	}
	r.mu.Lock()
	r.history = append(r.history, m)
	r.mu.Unlock()
	return m, nil
}

// Push implements domain.Navigator. Unknown paths are logged and ignored.
func (r *Router) Push(path string) {
	if _, err := r.Navigate(path); err != nil {
		r.logger.Warn("navigation failed", "path", path, "error", err)
	}
}

// Back pops the current entry and re-enters the previous one through the
// guard. It reports false when there is nowhere to go back to.
func (r *Router) Back() (Match, bool) {
	r.mu.Lock()
	if len(r.history) < 2 {
		r.mu.Unlock()
		return Match{}, false
	}
	prev := r.history[len(r.history)-2]
	r.history = r.history[:len(r.history)-2]
	r.mu.Unlock()

	m, err := r.Navigate(prev.Path)
	if err != nil {
		return Match{}, false
	}
	return m, true
}

// Current returns the active route; ok is false before the first navigation.
func (r *Router) Current() (Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return Match{}, false
	}
	return r.history[len(r.history)-1], true
}

// Depth returns the number of history entries
func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}

func (r *Router) resolveGuarded(path string) (Match, error) {
	for i := 0; i <= maxRedirects; i++ {
		m, ok := Resolve(path)
		if !ok {
			return Match{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
		}
		var user *auth.User
		if r.session != nil {
			user = r.session.User()
		}
		redirect := Guard(m.Route, user)
		if redirect == "" {
			return m, nil
		}
		r.logger.Debug("route guard redirect", "from", path, "to", redirect)
		path = redirect
	}
	return Match{}, fmt.Errorf("too many redirects from %s", path)
}
