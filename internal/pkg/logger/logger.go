// Package logger builds the application slog.Logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// NewDefault returns a text-handler logger writing to stderr at the given
// level ("debug", "info", "warn", "error"; anything else means info).
func NewDefault(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
