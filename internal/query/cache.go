// Package query is a small keyed cache of asynchronous query results with
// freshness windows, explicit invalidation and subscriber notification.
package query

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"todomaster/internal/logging"
)

// Status is the lifecycle state of a query entry
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a snapshot of one query entry
type State[T any] struct {
	Key         string
	Data        T
	HasData     bool
	Err         error
	Status      Status
	UpdatedAt   time.Time
	Invalidated bool
}

// Fresh reports whether the entry can be served without running the query
func (s State[T]) Fresh(now time.Time, staleTime time.Duration) bool {
	return s.Status == StatusSuccess && s.HasData && !s.Invalidated && now.Sub(s.UpdatedAt) < staleTime
}

// Listener receives every state transition
type Listener[T any] func(State[T])

// Options configures a Cache
type Options struct {
	Now    func() time.Time
	Logger *log.Logger
}

// Cache holds query entries of one data type. It is safe for concurrent use.
type Cache[T any] struct {
	mu        sync.Mutex
	entries   map[string]*State[T]
	listeners map[int]Listener[T]
	nextID    int
	group     singleflight.Group
	now       func() time.Time
	logger    *log.Logger
}

// New creates an empty cache
func New[T any](opts Options) *Cache[T] {
	c := &Cache[T]{
		entries:   make(map[string]*State[T]),
		listeners: make(map[int]Listener[T]),
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// Fetch returns the cached data for key while it is fresh, and otherwise runs
// fn. Concurrent fetches of the same key share one call of fn.
func (c *Cache[T]) Fetch(ctx context.Context, key string, staleTime time.Duration, fn func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if st, ok := c.entries[key]; ok && st.Fresh(c.now(), staleTime) {
		data := st.Data
		c.mu.Unlock()
		c.logger.Debug("query cache hit", "key", key)
		return data, nil
	}
	c.mu.Unlock()

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		c.update(key, func(st *State[T]) {
			st.Status = StatusLoading
		})

		data, err := fn(ctx)
		c.update(key, func(st *State[T]) {
			if err != nil {
				st.Status = StatusError
				st.Err = err
				return
			}
			st.Status = StatusSuccess
			st.Err = nil
			st.Data = data
			st.HasData = true
			st.Invalidated = false
			st.UpdatedAt = c.now()
		})
		return data, err
	})
	if shared {
		c.logger.Debug("query fetch coalesced", "key", key)
	}

	data, _ := v.(T)
	if err != nil {
		var zero T
		return zero, err
	}
	return data, nil
}

// Invalidate marks key stale so the next Fetch runs the query
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	_, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return
	}
	c.update(key, func(st *State[T]) {
		st.Invalidated = true
	})
	c.logger.Debug("query invalidated", "key", key)
}

// SetData replaces the cached data in place. updater receives the current
// data and whether there was any.
func (c *Cache[T]) SetData(key string, updater func(old T, ok bool) T) {
	c.update(key, func(st *State[T]) {
		st.Data = updater(st.Data, st.HasData)
		st.HasData = true
		st.Status = StatusSuccess
		st.Err = nil
		st.UpdatedAt = c.now()
	})
}

// Get returns a copy of the entry for key
func (c *Cache[T]) Get(key string) (State[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.entries[key]
	if !ok {
		return State[T]{Key: key, Status: StatusIdle}, false
	}
	return *st, true
}

// Has reports whether key has ever been fetched or set
func (c *Cache[T]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Remove drops the entry for key entirely
func (c *Cache[T]) Remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Subscribe registers a listener for every state transition. The returned
// function unregisters it.
func (c *Cache[T]) Subscribe(listener Listener[T]) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// update applies mutate to the entry for key, creating it if needed, and
// notifies listeners outside the lock.
func (c *Cache[T]) update(key string, mutate func(*State[T])) {
	c.mu.Lock()
	st, ok := c.entries[key]
	if !ok {
		st = &State[T]{Key: key, Status: StatusIdle}
		c.entries[key] = st
	}
	mutate(st)
	snapshot := *st
	listeners := make([]Listener[T], 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
