package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/grimoire/internal/domain"
)

// DBFileName is the database file created inside the cache directory
const DBFileName = "grimoire.db"

// Bucket names
var (
	bucketQueries      = []byte("queries")
	bucketLocalStorage = []byte("local_storage")
)

// clientKey is the single record holding the query-cache snapshot
const clientKey = "client"

// Store implements domain.CachePersister and domain.LocalStorage using BoltDB.
// Both live in one database file, opened once at startup.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var (
	_ domain.CachePersister = (*Store)(nil)
	_ domain.LocalStorage   = (*Store)(nil)
)

// Open opens (or creates) the database under dir. An empty dir selects
// memory-only mode, where nothing outlives the process.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, DBFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketQueries, bucketLocalStorage} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

// Path returns the database file path, or "" in memory-only mode
func (s *Store) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string) ([]byte, bool, error) {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, true, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("read %s/%s: %w", bucket, key, err)
	}
	if data == nil {
		return nil, false, nil
	}

	if cached(bucket) {
		s.mu.Lock()
		s.cache[cacheKey] = data
		s.mu.Unlock()
	}

	return data, true, nil
}

func (s *Store) set(bucket []byte, key string, data []byte) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("write %s/%s: %w", bucket, key, err)
		}
	}

	if s.db == nil || cached(bucket) {
		s.mu.Lock()
		s.cache[string(bucket)+":"+key] = data
		s.mu.Unlock()
	}
	return nil
}

// cached reports whether bucket reads are promoted to memory. The query
// snapshot is read once at startup and already lives in the query cache.
func cached(bucket []byte) bool {
	return string(bucket) != string(bucketQueries)
}

func (s *Store) delete(bucket []byte, key string) error {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// === Query-cache persistence ===

// PersistClient overwrites the stored snapshot with snapshot
func (s *Store) PersistClient(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.set(bucketQueries, clientKey, data)
}

// RestoreClient returns the stored snapshot, or nil when none exists
func (s *Store) RestoreClient(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok, err := s.get(bucketQueries, clientKey)
	if err != nil || !ok {
		return nil, err
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// RemoveClient deletes the stored snapshot
func (s *Store) RemoveClient(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete(bucketQueries, clientKey)
}

// === Local storage ===

func (s *Store) GetItem(key string) (string, bool) {
	data, ok, err := s.get(bucketLocalStorage, key)
	if err != nil || !ok {
		return "", false
	}
	return string(data), true
}

func (s *Store) SetItem(key, value string) error {
	return s.set(bucketLocalStorage, key, []byte(value))
}

func (s *Store) RemoveItem(key string) error {
	return s.delete(bucketLocalStorage, key)
}

// Clear wipes every bucket (the "cache clear" command)
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketQueries, bucketLocalStorage} {
			if tx.Bucket(bucket) != nil {
				if err := tx.DeleteBucket(bucket); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
