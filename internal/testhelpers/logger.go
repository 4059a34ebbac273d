// Package testhelpers contains shared helpers for tests.
package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrberg/trainwise/internal/logging"
)

// NewLogger creates a debug-level logger writing to the given sink, typically
// a [Writer] so that output surfaces only for failing tests.
func NewLogger(logSink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}
