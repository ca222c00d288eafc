// Package logger builds the slog.Logger used for a run.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config defines logger initialization.
// Debug sends text logs to Stderr at debug level and takes precedence over
// File. File receives JSON logs at Level through a rotating writer.
type Config struct {
	Level  string
	File   string
	Debug  bool
	Stderr io.Writer
}

func levelFromString(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("invalid log level: " + level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger and the closer for its underlying writer.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	lvl, err := levelFromString(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Debug && cfg.Stderr != nil {
		handler := slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(handler), nopCloser{}, nil
	}

	if cfg.File == "" {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), writer, nil
}
