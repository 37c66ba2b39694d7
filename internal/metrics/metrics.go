// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus metrics of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cityweather"

// Fetch outcomes as used in the status label
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the collectors of the service on its own registry. It implements
// cache.Observer.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups  *prometheus.CounterVec
	cacheFailures *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	commands      *prometheus.CounterVec
	rotations     prometheus.Counter
}

// New returns Metrics with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total number of cache lookups by result",
		}, []string{"cache", "result"}),
		cacheFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_fetch_failures_total",
			Help:      "Total number of failed fetches on a cache miss",
		}, []string{"cache"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Total number of weather report requests",
		}, []string{"provider", "status"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_request_duration_seconds",
			Help:      "Duration of weather report requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of handled commands",
		}, []string{"command"}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_rotations_total",
			Help:      "Total number of switches of the active location",
		}),
	}
	m.registry.MustRegister(
		m.cacheLookups, m.cacheFailures, m.fetches, m.fetchDuration, m.commands, m.rotations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) CacheHit(cache string) {
	m.cacheLookups.WithLabelValues(cache, "hit").Inc()
}

func (m *Metrics) CacheMiss(cache string) {
	m.cacheLookups.WithLabelValues(cache, "miss").Inc()
}

func (m *Metrics) FetchFailed(cache string) {
	m.cacheFailures.WithLabelValues(cache).Inc()
}

// ObserveFetch records a weather report request of the given provider.
func (m *Metrics) ObserveFetch(provider string, duration time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.fetches.WithLabelValues(provider, status).Inc()
	m.fetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// Command counts a handled command.
func (m *Metrics) Command(name string) {
	m.commands.WithLabelValues(name).Inc()
}

// Rotated counts a switch of the active location.
func (m *Metrics) Rotated() {
	m.rotations.Inc()
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns a http.Handler serving the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
