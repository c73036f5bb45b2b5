package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a slog logger that writes nowhere. Tests hand it
// to every component that wants a logger.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
