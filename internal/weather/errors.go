// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument is the kind of ParseError for reports without a readable root element.
	ErrMalformedDocument = errors.New("malformed weather report")

	// ErrMissingRequiredField is the kind of ParseError for reports lacking a required value.
	ErrMissingRequiredField = errors.New("missing required field")
)

// ParseError is returned by Parse. Kind is ErrMalformedDocument or ErrMissingRequiredField and can
// be matched with errors.Is. Field names the missing value.
type ParseError struct {
	Kind  error
	Field string
	Err   error
}

func malformed(err error) *ParseError {
	return &ParseError{Kind: ErrMalformedDocument, Err: err}
}

func missingField(field string, err error) *ParseError {
	return &ParseError{Kind: ErrMissingRequiredField, Field: field, Err: err}
}

func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("weather report is missing field %q", e.Field)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Is(target error) bool {
	return target == e.Kind
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
