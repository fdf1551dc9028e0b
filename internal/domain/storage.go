package domain

import (
	"context"
	"encoding/json"
	"time"
)

// PersistedQuery is one successful query-cache entry as written to disk
type PersistedQuery struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Snapshot is the whole query cache, written as a single record.
// Timestamp is when the snapshot was taken; Buster invalidates snapshots
// written by an incompatible build.
type Snapshot struct {
	Timestamp time.Time        `json:"timestamp"`
	Buster    string           `json:"buster"`
	Queries   []PersistedQuery `json:"queries"`
}

// CachePersister mirrors query-cache snapshots into durable storage.
// RestoreClient returns (nil, nil) when nothing has been persisted.
type CachePersister interface {
	PersistClient(ctx context.Context, snapshot *Snapshot) error
	RestoreClient(ctx context.Context) (*Snapshot, error)
	RemoveClient(ctx context.Context) error
}

// LocalStorage is a small string key/value store.
// GetItem reports false when the key is absent.
type LocalStorage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// CacheUpdate describes a change to one query-cache entry
type CacheUpdate struct {
	Key      string
	Fetching bool
	Error    error
}

// CacheObserver receives query-cache updates.
type CacheObserver interface {
	OnCacheUpdate(update CacheUpdate)
}

// NoOpObserver discards updates (for tests and batch commands).
type NoOpObserver struct{}

func (NoOpObserver) OnCacheUpdate(CacheUpdate) {}
