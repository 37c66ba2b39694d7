// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package cache implements a process-lifetime cache that fetches each key at most once at a time.
//
// An entry is absent, pending while a fetch for its key is in flight, or present. Present entries
// are never evicted, refreshed or invalidated. A failed fetch leaves the entry absent so the next
// Get starts a new fetch.
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces the value for a key on a cache miss.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Observer is notified about cache lookups and failed fetches.
type Observer interface {
	CacheHit(cache string)
	CacheMiss(cache string)
	FetchFailed(cache string)
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver registers an Observer with the cache.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// Cache holds values of type V per key. A key is either absent or present; a failed fetch leaves it
// absent.
type Cache[V any] struct {
	name     string
	observer Observer

	// entries maps a key to its present value. It is only written inside a flight.
	entries sync.Map
	flights singleflight.Group
}

// New returns an empty cache. The name identifies the cache towards the Observer.
func New[V any](name string, opts ...Option) *Cache[V] {
	o := new(options)
	for _, opt := range opts {
		opt(o)
	}
	return &Cache[V]{name: name, observer: o.observer}
}

// Get returns the value for key. On a miss, fetch is invoked unless a fetch for the same key is
// already in flight, in which case the caller waits for that fetch's outcome instead.
//
// The fetch runs on a context that is not cancelled together with ctx. If ctx is done before the
// fetch resolves, Get returns ctx.Err() while the fetch keeps going and populates the cache.
func (c *Cache[V]) Get(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	if val, ok := c.load(key); ok {
		c.notify(Observer.CacheHit)
		return val, nil
	}
	c.notify(Observer.CacheMiss)

	fetchCtx := context.WithoutCancel(ctx)
	resChan := c.flights.DoChan(key, func() (any, error) {
		// A flight for key may have stored its value between our lookup and this one.
		if val, ok := c.load(key); ok {
			return val, nil
		}
		val, err := fetch(fetchCtx)
		if err != nil {
			c.notify(Observer.FetchFailed)
			return nil, err
		}
		c.entries.Store(key, val)
		return val, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-resChan:
		if res.Err != nil {
			return zero, res.Err
		}
		val, ok := res.Val.(V)
		if !ok {
			return zero, fmt.Errorf("unexpected cache value type %T", res.Val)
		}
		return val, nil
	}
}

// Peek returns the value for key if it is present. It never fetches.
func (c *Cache[V]) Peek(key string) (V, bool) {
	return c.load(key)
}

// Len returns the number of present entries.
func (c *Cache[V]) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *Cache[V]) load(key string) (V, bool) {
	var zero V
	raw, ok := c.entries.Load(key)
	if !ok {
		return zero, false
	}
	val, ok := raw.(V)
	if !ok {
		return zero, false
	}
	return val, true
}

func (c *Cache[V]) notify(fn func(Observer, string)) {
	if c.observer == nil {
		return
	}
	fn(c.observer, c.name)
}
