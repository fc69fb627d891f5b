// Package snapshot persists the last fetched todo list so a cold start can
// render without a network round trip.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"todomaster/internal/domain"
	"todomaster/internal/logging"
	"todomaster/internal/schema"
)

// DefaultKey is the storage key of the list blob
const DefaultKey = "cachedTodos"

const savedAtSuffix = ":savedAt"

// Cache reads and writes the list snapshot through a KVStore.
// The stored value is a plain JSON array of todos.
type Cache struct {
	store  KVStore
	key    string
	maxAge time.Duration
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Cache
type Option func(*Cache)

// WithKey overrides the storage key
func WithKey(key string) Option {
	return func(c *Cache) { c.key = key }
}

// WithMaxAge makes snapshots older than d count as absent. Zero disables the check.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) { c.maxAge = d }
}

// WithClock injects the time source
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a snapshot cache over store
func New(store KVStore, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		key:    DefaultKey,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the storage key
func (c *Cache) Key() string {
	return c.key
}

// Read returns the stored list. Anything unreadable counts as absent, and a
// corrupt blob is deleted.
func (c *Cache) Read(ctx context.Context) ([]domain.Todo, bool) {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("snapshot read failed", "key", c.key, "err", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	list, err := schema.DecodeTodoList(raw)
	if err != nil {
		c.logger.Warn("discarding corrupt snapshot", "key", c.key, "err", err)
		if err := c.Clear(ctx); err != nil {
			c.logger.Warn("snapshot purge failed", "key", c.key, "err", err)
		}
		return nil, false
	}

	if c.maxAge > 0 && !c.fresh(ctx) {
		c.logger.Debug("snapshot older than max age", "key", c.key, "max_age", c.maxAge)
		return nil, false
	}

	c.logger.Debug("snapshot hit", "key", c.key, "count", len(list))
	return list, true
}

func (c *Cache) fresh(ctx context.Context) bool {
	raw, found, err := c.store.Get(ctx, c.key+savedAtSuffix)
	if err != nil || !found {
		return false
	}
	savedAt, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return false
	}
	return c.now().Sub(savedAt) < c.maxAge
}

// Write stores the whole list, replacing any previous snapshot
func (c *Cache) Write(ctx context.Context, list []domain.Todo) error {
	if list == nil {
		list = []domain.Todo{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return err
	}
	return c.store.Set(ctx, c.key+savedAtSuffix, []byte(c.now().UTC().Format(time.RFC3339Nano)))
}

// Clear removes the snapshot
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return err
	}
	return c.store.Delete(ctx, c.key+savedAtSuffix)
}

// Exists reports whether a snapshot blob is stored, valid or not
func (c *Cache) Exists(ctx context.Context) bool {
	_, found, err := c.store.Get(ctx, c.key)
	return err == nil && found
}
