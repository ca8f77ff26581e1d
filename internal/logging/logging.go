// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the structured logger shared by the estimator
// packages. Logs go to a rotating JSON file when a directory is configured
// and to stderr as text otherwise.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

const logFile = "trip-estimator.log"

// New returns a logger for cfg. The returned closer flushes and closes the
// log file; it is a no-op when logging to stderr.
func New(cfg types.LogConfig) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if cfg.Dir == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nopCloser{}, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %s: %w", cfg.Dir, err)
	}
	w := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, logFile),
		MaxSize:    16, // MB
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}
	if lvl == slog.LevelDebug {
		w.MaxSize = 128
	}
	return slog.New(slog.NewJSONHandler(w, opts)), w, nil
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
