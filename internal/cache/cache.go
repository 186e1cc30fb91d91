package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/internal/telemetry"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultKeepUnusedFor is how long an entry without subscribers survives Prune.
	DefaultKeepUnusedFor = 60 * time.Second
	// DefaultPruneInterval is how often New sweeps unused entries.
	DefaultPruneInterval = 30 * time.Second
)

// ErrNotFound is returned by Peek-style lookups for unknown keys.
var ErrNotFound = errors.New("cache entry not found")

// Status is the fetch state of an entry.
type Status int

const (
	StatusUninitialized Status = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "uninitialized"
	}
}

// FetchFunc loads the value for an entry and reports the tags it provides.
// Tags are recorded even when err is non-nil so that a later invalidation can
// clear an errored entry.
type FetchFunc func(ctx context.Context) (value any, tags []Tag, err error)

// Snapshot is a read-only copy of an entry.
type Snapshot struct {
	Key         Key
	Value       any
	Err         error
	Tags        []Tag
	Status      Status
	Stale       bool
	FetchedAt   time.Time
	LastUsedAt  time.Time
	Subscribers int
}

type entry struct {
	key           Key
	value         any
	err           error
	tags          []Tag
	status        Status
	stale         bool
	invalidations uint64
	fetchedAt     time.Time
	lastUsed      time.Time
	subscribers   map[*Subscription]struct{}
}

func (e *entry) snapshot() Snapshot {
	tags := make([]Tag, len(e.tags))
	copy(tags, e.tags)
	return Snapshot{
		Key:         e.key,
		Value:       e.value,
		Err:         e.err,
		Tags:        tags,
		Status:      e.status,
		Stale:       e.stale,
		FetchedAt:   e.fetchedAt,
		LastUsedAt:  e.lastUsed,
		Subscribers: len(e.subscribers),
	}
}

func (e *entry) notify(ev Event) {
	for sub := range e.subscribers {
		sub.deliver(ev)
	}
}

// Cache is a keyed store of query results. Entries are filled by fetch
// functions, labelled with the tags those functions provide, and marked stale
// when a mutation invalidates an overlapping tag. Stale entries keep their
// data (Peek still returns it) and are refetched on the next Query.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group

	keepUnusedFor time.Duration
	pruneInterval time.Duration
	now           func() time.Time
	metrics       *telemetry.Metrics

	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithKeepUnusedFor sets how long unsubscribed entries survive Prune.
func WithKeepUnusedFor(d time.Duration) Option {
	return func(c *Cache) { c.keepUnusedFor = d }
}

// WithPruneInterval sets how often the background sweep calls Prune. Zero
// disables the sweep.
func WithPruneInterval(d time.Duration) Option {
	return func(c *Cache) { c.pruneInterval = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache and starts the sweep that evicts unused
// entries. Call Close to stop it.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:       make(map[string]*entry),
		keepUnusedFor: DefaultKeepUnusedFor,
		pruneInterval: DefaultPruneInterval,
		now:           time.Now,
		metrics:       telemetry.GetMetrics(),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pruneInterval > 0 {
		go c.pruneLoop()
	}
	return c
}

// Close stops the background sweep. Cached entries stay readable.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Cache) pruneLoop() {
	ticker := time.NewTicker(c.pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if n := c.Prune(c.now()); n > 0 {
				log.Debug().Int("evicted", n).Msg("cache prune")
			}
		}
	}
}

type revalidateKey struct{}

// Revalidating reports whether the fetch running under ctx replaces data that
// was already cached (stale, errored or explicitly refetched). Fetchers use it
// to bypass lower HTTP caches.
func Revalidating(ctx context.Context) bool {
	v, _ := ctx.Value(revalidateKey{}).(bool)
	return v
}

// Query returns the cached value for key when it is fresh, otherwise it calls
// fetch. Concurrent queries for the same key share a single fetch.
func (c *Cache) Query(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if ok && e.status == StatusFulfilled && !e.stale {
		e.lastUsed = c.now()
		value := e.value
		c.mu.Unlock()

		c.metrics.CacheHitsTotal.Add(ctx, 1)
		return value, nil
	}
	revalidate := ok && e.status != StatusUninitialized
	c.mu.Unlock()

	c.metrics.CacheMissesTotal.Add(ctx, 1)
	return c.fetch(ctx, key, fetch, revalidate)
}

// Refetch fetches key unconditionally, replacing any cached value.
func (c *Cache) Refetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.metrics.CacheRefetchesTotal.Add(ctx, 1)
	return c.fetch(ctx, key, fetch, true)
}

func (c *Cache) fetch(ctx context.Context, key Key, fetch FetchFunc, revalidate bool) (any, error) {
	k := key.String()

	v, err, shared := c.group.Do(k, func() (any, error) {
		generation := c.begin(key)

		fetchCtx := ctx
		if revalidate {
			fetchCtx = context.WithValue(ctx, revalidateKey{}, true)
		}

		value, tags, err := fetch(fetchCtx)
		c.finish(key, generation, value, tags, err)
		if err != nil {
			return nil, err
		}
		return value, nil
	})

	log.Debug().
		Str("key", key.Digest()).
		Str("endpoint", key.Endpoint).
		Bool("shared", shared).
		Bool("revalidate", revalidate).
		Err(err).
		Msg("cache fetch")

	return v, err
}

// begin marks the entry pending and returns its invalidation generation.
func (c *Cache) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	e.status = StatusPending
	e.lastUsed = c.now()
	return e.invalidations
}

func (c *Cache) finish(key Key, generation uint64, value any, tags []Tag, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	if tags != nil {
		e.tags = tags
	}
	e.lastUsed = c.now()

	if err != nil {
		// Previous data stays readable through Peek.
		e.status = StatusRejected
		e.err = err
		e.notify(EventUpdated)
		return
	}

	e.value = value
	e.err = nil
	e.status = StatusFulfilled
	e.fetchedAt = c.now()
	// An invalidation that landed while the request was in flight may not be
	// reflected in this response.
	e.stale = e.invalidations != generation
	e.notify(EventUpdated)
}

func (c *Cache) entryLocked(key Key) *entry {
	k := key.String()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{key: key, subscribers: make(map[*Subscription]struct{}), lastUsed: c.now()}
		c.entries[k] = e
		c.metrics.CacheEntries.Add(context.Background(), 1)
	}
	return e
}

// Invalidate marks every entry providing a tag that matches one of tags as
// stale and notifies its subscribers. It returns the keys affected.
func (c *Cache) Invalidate(ctx context.Context, tags ...Tag) []Key {
	if len(tags) == 0 {
		return nil
	}

	c.mu.Lock()
	var affected []Key
	for _, e := range c.entries {
		if !Intersects(tags, e.tags) {
			continue
		}
		e.stale = true
		e.invalidations++
		e.notify(EventInvalidated)
		affected = append(affected, e.key)
	}
	c.mu.Unlock()

	c.metrics.CacheInvalidationsTotal.Add(ctx, int64(len(affected)))

	log.Debug().
		Strs("tags", Strings(tags)).
		Int("affected", len(affected)).
		Msg("cache invalidate")

	return affected
}

// Peek returns the entry for key without fetching.
func (c *Cache) Peek(key Key) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return e.snapshot(), nil
}

// Entries returns snapshots of every entry.
func (c *Cache) Entries() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Snapshot, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.snapshot())
	}
	return out
}

// Prune evicts entries that have no subscribers, are not being fetched, and
// were last used longer than the keep-unused window before now.
func (c *Cache) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for k, e := range c.entries {
		if len(e.subscribers) > 0 || e.status == StatusPending {
			continue
		}
		if now.Sub(e.lastUsed) <= c.keepUnusedFor {
			continue
		}
		delete(c.entries, k)
		evicted++
	}

	if evicted > 0 {
		c.metrics.CacheEvictionsTotal.Add(context.Background(), int64(evicted))
		c.metrics.CacheEntries.Add(context.Background(), int64(-evicted))
	}

	return evicted
}
