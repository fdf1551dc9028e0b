package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/grimoire/internal/domain"
)

// ErrClosed is returned for fetches started after Close.
var ErrClosed = errors.New("query cache closed")

const defaultPersistTimeout = 5 * time.Second

// Options configures a Cache. Every field is optional.
type Options struct {
	// Persister receives a full snapshot after every successful fetch
	Persister domain.CachePersister

	// Buster is stamped on snapshots; Restore discards snapshots with another value
	Buster string

	// MaxAge bounds how old a restored snapshot may be (default 24h)
	MaxAge time.Duration

	Clock  Clock
	Logger *slog.Logger
}

type entry struct {
	key         Key
	data        []byte
	updatedAt   time.Time
	errorAt     time.Time
	err         error
	status      Status
	fetching    bool
	running     bool
	invalidated bool
}

// Cache is a keyed stale-while-revalidate cache. Values are held as JSON so
// the whole cache can be snapshotted and restored without knowing types.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	observers []domain.CacheObserver
	closed    bool

	group     singleflight.Group
	persistMu sync.Mutex

	persister domain.CachePersister
	buster    string
	maxAge    time.Duration
	clock     Clock
	logger    *slog.Logger

	// Background fetches run on ctx so Close can stop them
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an empty cache.
func New(opts Options) *Cache {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 24 * time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		entries:   make(map[string]*entry),
		persister: opts.Persister,
		buster:    opts.Buster,
		maxAge:    opts.MaxAge,
		clock:     opts.Clock,
		logger:    opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// AddObserver registers o for entry updates.
func (c *Cache) AddObserver(o domain.CacheObserver) {
	c.mu.Lock()
	c.observers = append(c.observers, o)
	c.mu.Unlock()
}

// State returns the current state of key without fetching. IsStale is
// reported against a zero stale time, i.e. true whenever data exists.
func (c *Cache) State(key Key) State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked(key, c.entries[key.String()], 0)
}

// Inspect returns the state of q without fetching, with staleness judged
// against q.StaleTime.
func (c *Cache) Inspect(q Query) State {
	return c.stateWithStale(q)
}

// Read returns the current state and, if the entry is absent or stale,
// starts a background fetch. It never blocks on the network.
func (c *Cache) Read(q Query) State {
	if q.Disabled {
		return State{Key: q.Key, Status: StatusIdle}
	}

	c.mu.Lock()
	e := c.entries[q.Key.String()]
	start := c.needsFetchLocked(e, q.StaleTime)
	if start {
		e = c.markFetchingLocked(q.Key)
	}
	state := c.stateLocked(q.Key, e, q.StaleTime)
	c.mu.Unlock()

	if start {
		c.revalidate(q)
	}
	return state
}

// Fetch returns data for q, blocking only when nothing is cached yet.
// Fresh data returns immediately. Stale data also returns immediately and
// is revalidated in the background.
func (c *Cache) Fetch(ctx context.Context, q Query) (State, error) {
	if q.Disabled {
		return State{Key: q.Key, Status: StatusIdle}, nil
	}

	c.mu.RLock()
	e := c.entries[q.Key.String()]
	hasData := e != nil && e.data != nil
	c.mu.RUnlock()

	if hasData {
		return c.Read(q), nil
	}
	return c.run(ctx, q)
}

// Refetch fetches q now, regardless of staleness, and waits for the result.
// A failed refetch keeps whatever data was cached before.
func (c *Cache) Refetch(ctx context.Context, q Query) (State, error) {
	if q.Disabled {
		return State{Key: q.Key, Status: StatusIdle}, nil
	}
	return c.run(ctx, q)
}

// Invalidate marks key stale so the next Read or Fetch revalidates it.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	if e, ok := c.entries[key.String()]; ok {
		e.invalidated = true
	}
	c.mu.Unlock()
}

// InvalidateAll marks every entry stale.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	for _, e := range c.entries {
		e.invalidated = true
	}
	c.mu.Unlock()
}

// Keys returns every key currently held, sorted.
func (c *Cache) Keys() []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		keys = append(keys, e.key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Close stops background fetches and waits for them to return.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// revalidate runs q on a tracked goroutine.
func (c *Cache) revalidate(q Query) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		if _, err := c.run(c.ctx, q); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("background revalidation failed", "key", q.Key.String(), "error", err)
		}
	}()
}

// run executes q through the singleflight group. The fetch itself runs on
// the cache's context, so a caller giving up does not abort a request other
// callers share; the caller only stops waiting.
func (c *Cache) run(ctx context.Context, q Query) (State, error) {
	keyStr := q.Key.String()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return State{Key: q.Key}, ErrClosed
	}
	c.markFetchingLocked(q.Key)
	c.mu.Unlock()

	ch := c.group.DoChan(keyStr, func() (any, error) {
		c.mu.Lock()
		if c.closed {
			c.entryLocked(q.Key).fetching = false
			c.mu.Unlock()
			return nil, ErrClosed
		}
		c.markFetchingLocked(q.Key).running = true
		c.wg.Add(1)
		c.mu.Unlock()
		defer c.wg.Done()
		defer c.settle(q.Key)

		return nil, c.execute(q)
	})

	select {
	case res := <-ch:
		c.settle(q.Key)
		return c.stateWithStale(q), res.Err
	case <-ctx.Done():
		return c.stateWithStale(q), ctx.Err()
	}
}

// settle clears the fetching flag once no flight for key is running. A
// caller that joins a flight after its fetch finished has set the flag
// itself, and nothing else would clear it.
func (c *Cache) settle(key Key) {
	c.mu.Lock()
	if e, ok := c.entries[key.String()]; ok && !e.running {
		e.fetching = false
	}
	c.mu.Unlock()
}

// execute calls the fetcher and records the outcome.
func (c *Cache) execute(q Query) error {
	keyStr := q.Key.String()
	c.notify(domain.CacheUpdate{Key: keyStr, Fetching: true})

	value, err := q.Fetch(c.ctx)
	var data []byte
	if err == nil {
		data, err = json.Marshal(value)
		if err != nil {
			err = fmt.Errorf("encode %s: %w", keyStr, err)
		}
	}

	now := c.clock.Now()
	c.mu.Lock()
	e := c.entryLocked(q.Key)
	e.fetching = false
	e.running = false
	if err != nil {
		// Stale data stays visible until a fetch succeeds.
		e.err = err
		e.errorAt = now
		e.status = StatusError
	} else {
		e.data = data
		e.updatedAt = now
		e.err = nil
		e.errorAt = time.Time{}
		e.status = StatusSuccess
		e.invalidated = false
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("failed to fetch", "key", keyStr, "error", err)
	} else {
		c.logger.Debug("fetched", "key", keyStr, "bytes", len(data))
		c.persist()
	}
	c.notify(domain.CacheUpdate{Key: keyStr, Error: err})
	return err
}

func (c *Cache) needsFetchLocked(e *entry, staleTime time.Duration) bool {
	if e == nil {
		return true
	}
	if e.fetching {
		return false
	}
	if e.data != nil {
		return c.isStaleLocked(e, staleTime)
	}
	// A failed first load is retried once the error itself goes stale.
	if e.err != nil {
		return !c.clock.Now().Before(e.errorAt.Add(staleTime))
	}
	return true
}

func (c *Cache) isStaleLocked(e *entry, staleTime time.Duration) bool {
	if e == nil || e.data == nil {
		return false
	}
	if e.invalidated {
		return true
	}
	return !c.clock.Now().Before(e.updatedAt.Add(staleTime))
}

func (c *Cache) entryLocked(key Key) *entry {
	keyStr := key.String()
	e, ok := c.entries[keyStr]
	if !ok {
		e = &entry{key: key, status: StatusIdle}
		c.entries[keyStr] = e
	}
	return e
}

func (c *Cache) markFetchingLocked(key Key) *entry {
	e := c.entryLocked(key)
	e.fetching = true
	if e.data == nil && e.status != StatusError {
		e.status = StatusLoading
	}
	return e
}

func (c *Cache) stateLocked(key Key, e *entry, staleTime time.Duration) State {
	if e == nil {
		return State{Key: key, Status: StatusIdle}
	}
	return State{
		Key:        key,
		Data:       e.data,
		UpdatedAt:  e.updatedAt,
		Status:     e.status,
		Err:        e.err,
		IsFetching: e.fetching,
		IsStale:    c.isStaleLocked(e, staleTime),
	}
}

func (c *Cache) stateWithStale(q Query) State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked(q.Key, c.entries[q.Key.String()], q.StaleTime)
}

func (c *Cache) notify(update domain.CacheUpdate) {
	c.mu.RLock()
	observers := make([]domain.CacheObserver, len(c.observers))
	copy(observers, c.observers)
	c.mu.RUnlock()

	for _, o := range observers {
		o.OnCacheUpdate(update)
	}
}
