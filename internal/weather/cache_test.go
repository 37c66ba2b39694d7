// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/wneessen/cityweather/internal/location"
)

var (
	zocca  = location.New("Zocca", "IT")
	berlin = location.New("Berlin", "DE")
)

type mockFetcher struct {
	calls  atomic.Int32
	report string
	err    error
	gate   chan struct{}
}

func (m *mockFetcher) Name() string { return "mock" }

func (m *mockFetcher) Fetch(_ context.Context, _ location.Location) (string, error) {
	m.calls.Add(1)
	if m.gate != nil {
		<-m.gate
	}
	return m.report, m.err
}

func TestNewCache(t *testing.T) {
	c := NewCache()
	if c == nil {
		t.Fatal("expected cache to be non-nil")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestCache_Get(t *testing.T) {
	t.Run("a miss fetches and parses the report", func(t *testing.T) {
		c := NewCache()
		fetcher := &mockFetcher{report: testReport(t)}
		snap, err := c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca))
		if err != nil {
			t.Fatalf("failed to get snapshot: %s", err)
		}
		if snap.CityName != "Zocca" {
			t.Errorf("expected city name Zocca, got %q", snap.CityName)
		}
		peeked, ok := c.Peek(zocca)
		if !ok {
			t.Fatal("expected snapshot to be present")
		}
		if peeked != snap {
			t.Error("expected peek to return the cached snapshot")
		}
	})
	t.Run("a present location is never fetched again", func(t *testing.T) {
		c := NewCache()
		fetcher := &mockFetcher{report: testReport(t)}
		first, err := c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca))
		if err != nil {
			t.Fatalf("failed to get snapshot: %s", err)
		}
		for range 20 {
			snap, err := c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca))
			if err != nil {
				t.Fatalf("failed to get snapshot: %s", err)
			}
			if snap != first {
				t.Fatal("expected the same snapshot on every call")
			}
		}
		if calls := fetcher.calls.Load(); calls != 1 {
			t.Errorf("expected 1 fetch, got %d", calls)
		}
	})
	t.Run("fetch errors are returned unchanged and leave the location absent", func(t *testing.T) {
		c := NewCache()
		wantErr := errors.New("network problem")
		fetcher := &mockFetcher{err: wantErr}
		_, err := c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca))
		if err != wantErr {
			t.Fatalf("expected error to be %s, got %v", wantErr, err)
		}
		if _, ok := c.Peek(zocca); ok {
			t.Error("expected location to be absent after a failed fetch")
		}
	})
	t.Run("parse errors leave the location absent and can be retried", func(t *testing.T) {
		c := NewCache()
		fetcher := &mockFetcher{report: "<error/>"}
		_, err := c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca))
		if !errors.Is(err, ErrMalformedDocument) {
			t.Fatalf("expected error to be %s, got %v", ErrMalformedDocument, err)
		}
		if _, ok := c.Peek(zocca); ok {
			t.Fatal("expected location to be absent after a failed parse")
		}

		fetcher.report = testReport(t)
		if _, err = c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca)); err != nil {
			t.Fatalf("expected retry to succeed: %s", err)
		}
		if calls := fetcher.calls.Load(); calls != 2 {
			t.Errorf("expected 2 fetches, got %d", calls)
		}
	})
	t.Run("locations are cached independently", func(t *testing.T) {
		c := NewCache()
		fetcher := &mockFetcher{report: testReport(t)}
		if _, err := c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca)); err != nil {
			t.Fatalf("failed to get snapshot: %s", err)
		}
		if _, ok := c.Peek(berlin); ok {
			t.Fatal("expected Berlin to be absent")
		}
		if _, err := c.Get(t.Context(), berlin, FetchFrom(fetcher, berlin)); err != nil {
			t.Fatalf("failed to get snapshot: %s", err)
		}
		if c.Len() != 2 {
			t.Errorf("expected 2 entries, got %d", c.Len())
		}
	})
	t.Run("concurrent gets for a new location share one fetch", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			const callers = 16
			c := NewCache()
			fetcher := &mockFetcher{report: testReport(t), gate: make(chan struct{})}

			snaps := make([]*Snapshot, callers)
			errs := make([]error, callers)
			var wg sync.WaitGroup
			for i := range callers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					snaps[i], errs[i] = c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca))
				}()
			}
			synctest.Wait()
			close(fetcher.gate)
			wg.Wait()

			if calls := fetcher.calls.Load(); calls != 1 {
				t.Fatalf("expected exactly 1 fetch, got %d", calls)
			}
			for i := range callers {
				if errs[i] != nil {
					t.Fatalf("caller %d failed: %s", i, errs[i])
				}
				if snaps[i] != snaps[0] {
					t.Errorf("caller %d received a different snapshot", i)
				}
			}
		})
	})
	t.Run("concurrent gets observe the same parse error", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			const callers = 8
			c := NewCache()
			fetcher := &mockFetcher{report: testReport(t, `value="298.48" `, ""), gate: make(chan struct{})}

			errs := make([]error, callers)
			var wg sync.WaitGroup
			for i := range callers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, errs[i] = c.Get(t.Context(), zocca, FetchFrom(fetcher, zocca))
				}()
			}
			synctest.Wait()
			close(fetcher.gate)
			wg.Wait()

			if calls := fetcher.calls.Load(); calls != 1 {
				t.Fatalf("expected exactly 1 fetch, got %d", calls)
			}
			for i := range callers {
				if errs[i] != errs[0] {
					t.Errorf("caller %d received a different error: %v", i, errs[i])
				}
				var parseErr *ParseError
				if !errors.As(errs[i], &parseErr) || parseErr.Field != FieldTemperature {
					t.Errorf("caller %d: expected missing temperature, got %v", i, errs[i])
				}
			}
		})
	})
}
