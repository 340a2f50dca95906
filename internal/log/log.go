// Package log wires slog output for the CLI, optionally through a rotating
// file writer.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig sizes the rotating log file. Zero limits mean 10 MB per
// file and 5 retained backups.
type RotationConfig struct {
	File      string
	MaxSizeMB int
	MaxFiles  int
}

// NewRotatingWriter opens a size-rotated log file at cfg.File, creating
// parent directories on demand.
func NewRotatingWriter(cfg RotationConfig) (*lumberjack.Logger, error) {
	if cfg.File == "" {
		return nil, errors.New("log: rotation needs a file path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	maxSize, maxFiles := cfg.MaxSizeMB, cfg.MaxFiles
	if maxSize <= 0 {
		maxSize = 10
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: maxFiles,
	}, nil
}

// NewLogger builds a text slog.Logger writing to w at the named level.
// Unknown level names fall back to info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
