// Package logging provides the debug log and the console reports for a level search.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a text slog logger writing to path at debug level.
// An empty path discards everything. The returned close function is always non-nil.
func NewLogger(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	return newTextLogger(f), f.Close, nil
}

func newTextLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
