// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper holds shared helpers for the package tests.
package testhelper

import (
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
)

// TestOnlineAPIURL is a reachable endpoint used by tests that need a real network round trip.
const TestOnlineAPIURL = "https://api.openweathermap.org/data/2.5/weather"

// MockRoundTripper lets tests replace the transport of an http.Client with a function.
type MockRoundTripper struct {
	Fn func(*http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless PERFORM_INTEGRATION_TESTS is set to "true".
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if !strings.EqualFold(os.Getenv("PERFORM_INTEGRATION_TESTS"), "true") {
		t.Skip("skipping integration test, set PERFORM_INTEGRATION_TESTS=true to enable")
	}
}

// Response returns a http.Response with the given status code and body.
func Response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// ReadFile returns the content of the given file or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read test file %q: %s", path, err)
	}
	return string(data)
}
