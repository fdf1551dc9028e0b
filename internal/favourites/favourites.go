// Package favourites keeps a per-namespace set of favourite record ids,
// persisted as a JSON array in local storage under "favourites.<namespace>".
package favourites

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mmcdole/grimoire/internal/domain"
)

// KeyPrefix precedes the namespace in the storage key
const KeyPrefix = "favourites."

// Store is the favourites set for one namespace.
type Store struct {
	storage   domain.LocalStorage
	namespace string
	logger    *slog.Logger

	mu  sync.Mutex
	ids map[string]struct{}
}

// New loads the namespace's set from storage once. A missing value is an
// empty set; so is a corrupt one, which is logged and overwritten on the
// next toggle.
func New(storage domain.LocalStorage, namespace string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage:   storage,
		namespace: namespace,
		logger:    logger,
		ids:       make(map[string]struct{}),
	}
	s.load()
	return s
}

// Key returns the storage key for the namespace
func (s *Store) Key() string {
	return KeyPrefix + s.namespace
}

func (s *Store) load() {
	raw, ok := s.storage.GetItem(s.Key())
	if !ok || raw == "" {
		return
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Warn("ignoring corrupt favourites", "key", s.Key(), "error", err)
		return
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Toggle removes id if present, otherwise adds it, then writes the whole
// set. It reports whether id is now a favourite. The in-memory set keeps
// the change even when the write fails.
func (s *Store) Toggle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.ids[id]
	if present {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}

	data, err := json.Marshal(s.sortedLocked())
	if err != nil {
		return !present, fmt.Errorf("encode favourites: %w", err)
	}
	if err := s.storage.SetItem(s.Key(), string(data)); err != nil {
		s.logger.Error("failed to save favourites", "key", s.Key(), "error", err)
		return !present, fmt.Errorf("save favourites: %w", err)
	}
	return !present, nil
}

func (s *Store) IsFavourite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the favourite ids in sorted order
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *Store) sortedLocked() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
