// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/wneessen/cityweather/internal/location"
	"github.com/wneessen/cityweather/internal/logger"
	"github.com/wneessen/cityweather/internal/metrics"
	"github.com/wneessen/cityweather/internal/weather"
)

// observedFetcher records the outcome and duration of each request of the wrapped Fetcher.
type observedFetcher struct {
	weather.Fetcher
	metrics *metrics.Metrics
}

func (f observedFetcher) Fetch(ctx context.Context, loc location.Location) (string, error) {
	start := time.Now()
	raw, err := f.Fetcher.Fetch(ctx, loc)
	f.metrics.ObserveFetch(f.Name(), time.Since(start), err)
	return raw, err
}

// startFetch fetches the weather for loc on its own goroutine. It is a no-op once ctx is done.
func (s *Service) startFetch(ctx context.Context, loc location.Location) {
	s.fetchLock.Lock()
	defer s.fetchLock.Unlock()
	if ctx.Err() != nil {
		return
	}
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()
		s.fetchWeather(ctx, loc)
	}()
}

// waitForFetches blocks until all fetches started before ctx was done have returned.
func (s *Service) waitForFetches() {
	s.fetchLock.Lock()
	defer s.fetchLock.Unlock()
	s.fetches.Wait()
}

// fetchWeather makes sure a snapshot for loc is cached and refreshes the output if loc is the
// active location. A location that already has a snapshot is not fetched again.
func (s *Service) fetchWeather(ctx context.Context, loc location.Location) {
	s.logger.Debug("requesting weather data", slog.String("location", loc.String()))
	fetcher := observedFetcher{Fetcher: s.fetcher, metrics: s.metrics}
	snap, err := s.cache.Get(ctx, loc, weather.FetchFrom(fetcher, loc))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("failed to get weather data", logger.Err(err), slog.String("location", loc.String()))
		s.setLastError(loc, err)
		s.printIfCurrent(ctx, loc)
		return
	}
	s.setLastError(loc, nil)
	s.logger.Debug("weather data available", slog.String("location", loc.String()),
		slog.String("city", snap.CityName), slog.Float64("temperature", snap.Temperature))

	if s.assets != nil && snap.Icon != "" {
		if _, err = s.assets.Icon(ctx, snap.Icon); err != nil && ctx.Err() == nil {
			s.logger.Error("failed to get condition icon", logger.Err(err), slog.String("icon", snap.Icon))
		}
	}
	s.printIfCurrent(ctx, loc)
}

func (s *Service) printIfCurrent(ctx context.Context, loc location.Location) {
	if ctx.Err() != nil || s.rotator.Current() != loc {
		return
	}
	s.printWeather(ctx)
}
