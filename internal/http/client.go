// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/wneessen/cityweather/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	// MaxBodySize limits how much of a response body is read
	MaxBodySize = 8 << 20
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) cityweather/%s (+https://github.com/wneessen/cityweather/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)
)

// Client is a type wrapper for the Go stdlib http.Client and the Config
type Client struct {
	*http.Client
	logger *logger.Logger
}

// New returns a new HTTP client
func New(logger *logger.Logger) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: httpTransport,
	}
	return &Client{httpClient, logger}
}

// Fetch performs a HTTP GET request for the given URL and returns the response body.
func (h *Client) Fetch(ctx context.Context, endpoint string, query url.Values, headers map[string]string) ([]byte, error) {
	return h.FetchWithTimeout(ctx, endpoint, query, headers, DefaultTimeout)
}

// FetchWithTimeout performs a HTTP GET request for the given URL and timeout and returns the
// response body. Transport failures are returned as FetchError of kind ErrConnection, responses
// with a non-2xx status code as FetchError of kind ErrProtocol.
func (h *Client) FetchWithTimeout(ctx context.Context, endpoint string, query url.Values, headers map[string]string,
	timeout time.Duration,
) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Prepare URL and query parameters
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	// Execute HTTP request
	response, err := h.Do(request)
	if err != nil {
		return nil, newConnectionError(err)
	}
	if response == nil {
		return nil, newConnectionError(errors.New("nil response received"))
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			h.logger.Error("failed to close HTTP request body", logger.Err(err))
		}
	}(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, newProtocolError(response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, MaxBodySize))
	if err != nil {
		return nil, newConnectionError(fmt.Errorf("failed to read response body: %w", err))
	}

	return body, nil
}
