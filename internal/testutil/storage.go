package testutil

import (
	"errors"
	"io"
	"log/slog"
	"sync"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MemoryStorage is an in-memory domain.LocalStorage that can be told to fail writes.
type MemoryStorage struct {
	mu        sync.Mutex
	items     map[string]string
	FailWrite bool
}

// ErrWriteFailed is returned by MemoryStorage when FailWrite is set.
var ErrWriteFailed = errors.New("storage write failed")

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrite {
		return ErrWriteFailed
	}
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrite {
		return ErrWriteFailed
	}
	delete(m.items, key)
	return nil
}
