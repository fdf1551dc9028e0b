package query

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/mmcdole/grimoire/internal/domain"
)

// Snapshot captures every entry that holds data. Entries that are loading
// or failed without data are skipped.
func (c *Cache) Snapshot() *domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := &domain.Snapshot{
		Timestamp: c.clock.Now(),
		Buster:    c.buster,
		Queries:   make([]domain.PersistedQuery, 0, len(c.entries)),
	}
	for keyStr, e := range c.entries {
		if e.data == nil {
			continue
		}
		snap.Queries = append(snap.Queries, domain.PersistedQuery{
			Key:       keyStr,
			Data:      json.RawMessage(e.data),
			UpdatedAt: e.updatedAt,
		})
	}
	sort.Slice(snap.Queries, func(i, j int) bool { return snap.Queries[i].Key < snap.Queries[j].Key })
	return snap
}

// Hydrate loads a snapshot, keeping each entry's original UpdatedAt so
// staleness carries over. Entries already newer in memory win.
// It returns the number of entries loaded.
func (c *Cache) Hydrate(snap *domain.Snapshot) int {
	if snap == nil {
		return 0
	}

	var loaded []string
	c.mu.Lock()
	for _, pq := range snap.Queries {
		key, err := ParseKey(pq.Key)
		if err != nil {
			c.logger.Warn("skipping persisted query", "key", pq.Key, "error", err)
			continue
		}
		if len(pq.Data) == 0 {
			continue
		}
		e := c.entryLocked(key)
		if e.data != nil && !e.updatedAt.Before(pq.UpdatedAt) {
			continue
		}
		e.data = append([]byte(nil), pq.Data...)
		e.updatedAt = pq.UpdatedAt
		e.status = StatusSuccess
		e.err = nil
		loaded = append(loaded, pq.Key)
	}
	c.mu.Unlock()

	for _, key := range loaded {
		c.notify(domain.CacheUpdate{Key: key})
	}
	return len(loaded)
}

// Restore hydrates the cache from the persister. A snapshot older than
// MaxAge, or stamped with a different buster, is removed instead.
// A missing snapshot is not an error.
func (c *Cache) Restore(ctx context.Context) (int, error) {
	if c.persister == nil {
		return 0, nil
	}

	snap, err := c.persister.RestoreClient(ctx)
	if err != nil {
		c.logger.Warn("failed to restore query cache, discarding", "error", err)
		if rmErr := c.persister.RemoveClient(ctx); rmErr != nil {
			c.logger.Error("failed to remove persisted query cache", "error", rmErr)
		}
		return 0, err
	}
	if snap == nil {
		return 0, nil
	}

	age := c.clock.Now().Sub(snap.Timestamp)
	if age > c.maxAge || snap.Buster != c.buster {
		c.logger.Info("discarding persisted query cache", "age", age, "buster", snap.Buster)
		return 0, c.persister.RemoveClient(ctx)
	}

	n := c.Hydrate(snap)
	c.logger.Debug("restored query cache", "entries", n, "age", age)
	return n, nil
}

// persist mirrors the current snapshot. Writes are serialized so an older
// snapshot never lands after a newer one. Failures are logged only.
func (c *Cache) persist() {
	if c.persister == nil {
		return
	}

	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.ctx), defaultPersistTimeout)
	defer cancel()

	if err := c.persister.PersistClient(ctx, c.Snapshot()); err != nil {
		c.logger.Error("failed to persist query cache", "error", err)
	}
}
