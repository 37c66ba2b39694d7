// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger so that packages depend on a single logging type.
type Logger struct {
	*slog.Logger
}

// New returns a Logger that writes text records of at least level to stderr.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a Logger that writes text records of at least level to output.
func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Err returns the slog attribute used for logging errors.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}

// WithComponent returns a Logger that adds the component name to every record.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.With(slog.String("component", name))}
}
