// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"time"

	"github.com/wneessen/cityweather/internal/asset"
	"github.com/wneessen/cityweather/internal/cache"
	"github.com/wneessen/cityweather/internal/http"
	"github.com/wneessen/cityweather/internal/logger"
	"github.com/wneessen/cityweather/internal/weather"
	"github.com/wneessen/cityweather/internal/weather/provider/openweathermap"
)

const (
	metricsPath            = "/metrics"
	metricsShutdownTimeout = time.Second * 5
)

func (s *Service) selectWeatherProvider() (weather.Fetcher, error) {
	log := s.logger.WithComponent("openweathermap")
	provider, err := openweathermap.New(http.New(log), log, s.config.Weather.APIKey, s.config.Weather.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenWeatherMap weather provider: %w", err)
	}
	return provider, nil
}

func (s *Service) createAssetStore() (*asset.Store, error) {
	log := s.logger.WithComponent("asset")
	return asset.New(http.New(log), log, s.config.Weather.IconURL, s.config.Assets.Dir,
		cache.WithObserver(s.metrics))
}

// serveMetrics serves the Prometheus metrics on addr until ctx is done.
func (s *Service) serveMetrics(ctx context.Context, addr string) {
	mux := stdhttp.NewServeMux()
	mux.Handle(metricsPath, s.metrics.Handler())
	server := &stdhttp.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("failed to shut down metrics server", logger.Err(err))
		}
	}()

	s.logger.Info("serving metrics", slog.String("address", addr), slog.String("path", metricsPath))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		s.logger.Error("metrics server failed", logger.Err(err))
	}
}
