package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/grimoire/internal/domain"
)

// Loader fetches a whole collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Resource holds one collection for display: its items, whether a load is
// running, and the message of the last failure.
type Resource[T any] struct {
	kind   domain.Kind
	load   Loader[T]
	idOf   func(T) string
	logger *slog.Logger

	mu      sync.RWMutex
	items   []T
	loading bool
	err     string
	gen     uint64
}

// NewResource creates an empty resource. idOf extracts the record id for GetByID.
func NewResource[T any](kind domain.Kind, load func(context.Context) ([]T, error), idOf func(T) string, logger *slog.Logger) *Resource[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resource[T]{kind: kind, load: load, idOf: idOf, logger: logger}
}

func (r *Resource[T]) Kind() domain.Kind { return r.kind }

// Items returns a copy of the current items.
func (r *Resource[T]) Items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.items) == 0 {
		return nil
	}
	dup := make([]T, len(r.items))
	copy(dup, r.items)
	return dup
}

func (r *Resource[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Resource[T]) IsLoading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Error returns the last failure message; empty means no error.
func (r *Resource[T]) Error() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// FetchAll loads the collection. On success the items are replaced
// wholesale; on failure the previous items stay and the error message is
// recorded. Only the most recent call may update state: a call overtaken by
// a newer one returns its own outcome but leaves state alone.
func (r *Resource[T]) FetchAll(ctx context.Context) error {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.loading = true
	r.err = ""
	r.mu.Unlock()

	items, err := r.load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen {
		r.logger.Debug("discarding superseded load", "kind", r.kind)
		return err
	}
	r.loading = false
	if err != nil {
		r.err = err.Error()
		return err
	}
	r.items = items
	return nil
}

// GetByID finds an item in the loaded collection.
func (r *Resource[T]) GetByID(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if r.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
