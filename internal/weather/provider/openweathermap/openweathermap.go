// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package openweathermap fetches current-conditions reports in XML format from the
// OpenWeatherMap API.
package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/wneessen/cityweather/internal/http"
	"github.com/wneessen/cityweather/internal/location"
	"github.com/wneessen/cityweather/internal/logger"
)

const (
	name = "openweathermap"

	// DefaultEndpoint is the current weather endpoint of the OpenWeatherMap API
	DefaultEndpoint = "https://api.openweathermap.org/data/2.5/weather"

	apiTimeout = time.Second * 10
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("OpenWeatherMap API key is required")

// Client retrieves raw XML reports for a location.
type Client struct {
	apiKey   string
	endpoint string
	log      *logger.Logger
	http     *http.Client
}

// New returns a Client for the given endpoint. An empty endpoint selects DefaultEndpoint.
func New(http *http.Client, log *logger.Logger, apiKey, endpoint string) (*Client, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid OpenWeatherMap endpoint: %w", err)
	}

	return &Client{apiKey: apiKey, endpoint: endpoint, http: http, log: log}, nil
}

func (c *Client) Name() string {
	return name
}

// Fetch returns the current-conditions report for loc. Temperatures are requested in kelvin.
// Request failures are returned as *http.FetchError.
func (c *Client) Fetch(ctx context.Context, loc location.Location) (string, error) {
	query := url.Values{}
	query.Set("q", loc.Key())
	query.Set("mode", "xml")
	query.Set("appid", c.apiKey)

	c.log.Debug("fetching weather report", slog.String("provider", name), slog.String("location", loc.String()))
	body, err := c.http.FetchWithTimeout(ctx, c.endpoint, query, nil, apiTimeout)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve weather report for %s: %w", loc, err)
	}
	return string(body), nil
}
