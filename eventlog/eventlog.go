// Package eventlog builds the logger recording the lifecycle of the controller.
package eventlog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"
)

// ParseLevel accepts debug, info, warn and error in any case. An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Open appends events to the file at path and mirrors them to stderr.
// An empty path logs to stderr only. The returned closer releases the file.
func Open(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return New(os.Stderr, level), nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(io.MultiWriter(f, os.Stderr), level), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
