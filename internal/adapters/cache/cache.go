// Package cache is the client-side response cache shared by the endpoint
// adapters: it deduplicates identical in-flight requests, keeps the
// last-known-good body per (endpoint, params) key, and supports tag-based
// invalidation plus optimistic updates with exact rollback.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// Key identifies a cached response by endpoint identity and normalized
// request parameters. url.Values.Encode sorts by key, so two Keys built from
// the same logical request always collide.
type Key struct {
	Endpoint string
	Params   url.Values
}

func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Endpoint
	}
	return k.Endpoint + "?" + k.Params.Encode()
}

type load struct {
	done  chan struct{}
	value any
	err   error
}

type entry struct {
	value any
	tags  []string
	ready bool
	stale bool
	load  *load
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *Cache {
	return &Cache{entries: map[string]*entry{}}
}

// Fetch returns the cached value for key, unless the entry is absent or has
// been invalidated, in which case loader runs and its result is stored.
// Concurrent fetches for the same key while a load is in flight share the
// single pending result instead of issuing duplicate calls.
func (c *Cache) Fetch(ctx context.Context, key Key, tags []string, loader func(context.Context) (any, error)) (any, error) {
	k := key.String()

	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{}
		c.entries[k] = e
	}
	if e.ready && !e.stale {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	if e.load != nil {
		pending := e.load
		c.mu.Unlock()
		select {
		case <-pending.done:
			return pending.value, pending.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	pending := &load{done: make(chan struct{})}
	e.load = pending
	e.tags = tags
	c.mu.Unlock()

	value, err := loader(ctx)

	c.mu.Lock()
	e.load = nil
	if err == nil {
		e.value = value
		e.ready = true
		e.stale = false
	}
	c.mu.Unlock()

	pending.value = value
	pending.err = err
	close(pending.done)

	return value, err
}

// Invalidate marks every entry carrying tag as stale; the next Fetch for
// those keys reloads.
func (c *Cache) Invalidate(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		for _, t := range e.tags {
			if t == tag {
				e.stale = true
				break
			}
		}
	}
}

// InvalidateKey marks a single entry stale.
func (c *Cache) InvalidateKey(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key.String()]; ok {
		e.stale = true
	}
}

// Reset drops every entry. In-flight loads finish but their results land in
// fresh entries only if re-fetched.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = map[string]*entry{}
}

// Update applies fn to the cached value before server confirmation and
// returns an undo handle restoring the pre-mutation snapshot. The whole value
// is replaced under the lock, so readers never observe a partial mutation.
// Returns false when the key holds no settled value to mutate.
func (c *Cache) Update(key Key, fn func(any) any) (undo func(), ok bool) {
	k := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[k]
	if !found || !e.ready {
		return nil, false
	}

	snapshot := e.value
	e.value = fn(snapshot)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if current, still := c.entries[k]; still && current == e {
			e.value = snapshot
		}
	}, true
}

// FetchAs is the typed front of Cache.Fetch.
func FetchAs[T any](ctx context.Context, c *Cache, key Key, tags []string, loader func(context.Context) (T, error)) (T, error) {
	value, err := c.Fetch(ctx, key, tags, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %q holds %T, not %T", key.String(), value, zero)
	}

	return typed, nil
}

// UpdateAs is the typed front of Cache.Update.
func UpdateAs[T any](c *Cache, key Key, fn func(T) T) (undo func(), ok bool) {
	return c.Update(key, func(value any) any {
		typed, isT := value.(T)
		if !isT {
			return value
		}
		return fn(typed)
	})
}
