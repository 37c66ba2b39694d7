// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"

	"github.com/wneessen/cityweather/internal/cache"
	"github.com/wneessen/cityweather/internal/location"
)

// CacheName identifies the snapshot cache towards a cache.Observer.
const CacheName = "weather"

// FetchFunc returns the raw report for a location.
type FetchFunc func(ctx context.Context) (string, error)

// Fetcher is implemented by each weather API backend.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, loc location.Location) (string, error)
}

// FetchFrom returns a FetchFunc that retrieves the report for loc from fetcher.
func FetchFrom(fetcher Fetcher, loc location.Location) FetchFunc {
	return func(ctx context.Context) (string, error) {
		return fetcher.Fetch(ctx, loc)
	}
}

// Cache holds one Snapshot per location for the lifetime of the process.
type Cache struct {
	snapshots *cache.Cache[*Snapshot]
}

// NewCache returns an empty snapshot cache.
func NewCache(opts ...cache.Option) *Cache {
	return &Cache{snapshots: cache.New[*Snapshot](CacheName, opts...)}
}

// Get returns the snapshot for loc. If none is present, fetch is called and its result parsed,
// unless a fetch for loc is already running, which the caller then waits for. Fetch and parse
// errors are returned unchanged and leave loc without a snapshot.
func (c *Cache) Get(ctx context.Context, loc location.Location, fetch FetchFunc) (*Snapshot, error) {
	return c.snapshots.Get(ctx, loc.Key(), func(ctx context.Context) (*Snapshot, error) {
		raw, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return Parse(raw)
	})
}

// Peek returns the snapshot for loc if one is present.
func (c *Cache) Peek(loc location.Location) (*Snapshot, bool) {
	return c.snapshots.Peek(loc.Key())
}

// Len returns the number of locations with a snapshot.
func (c *Cache) Len() int {
	return c.snapshots.Len()
}
