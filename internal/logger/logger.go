// Package logger builds the application's slog logger from config.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"threadboard/internal/config"
)

const formatJSON = "json"

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New creates a logger writing to stdout.
func New(cfg config.Log) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a logger writing to w. Unknown levels fall back to info,
// unknown formats to text.
func NewWithWriter(cfg config.Log, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case formatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("app", "threadboard")
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) slog.Level {
	level, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
