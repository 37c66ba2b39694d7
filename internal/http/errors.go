// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection classifies requests that failed before a response was received.
	ErrConnection = errors.New("connection error")

	// ErrProtocol classifies requests that received a non-success status code.
	ErrProtocol = errors.New("protocol error")
)

// FetchError is returned by the client when a request fails. Kind is either ErrConnection or
// ErrProtocol and can be matched with errors.Is.
type FetchError struct {
	Kind       error
	StatusCode int
	Err        error
}

func newConnectionError(err error) *FetchError {
	return &FetchError{Kind: ErrConnection, Err: err}
}

func newProtocolError(code int) *FetchError {
	return &FetchError{Kind: ErrProtocol, StatusCode: code}
}

func (e *FetchError) Error() string {
	if errors.Is(e.Kind, ErrProtocol) {
		return fmt.Sprintf("response error: %d", e.StatusCode)
	}
	return fmt.Sprintf("network problem: %s", e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
