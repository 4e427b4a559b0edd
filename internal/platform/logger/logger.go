package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New initializes a new slog.Logger with the given level and a "service"
// attribute on every record. Level can be debug, info, warn, error.
func New(level string, serviceName string) *slog.Logger {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	// JSON for structured logging; swap for a TextHandler in local dev.
	handler := slog.NewJSONHandler(os.Stdout, opts)

	return slog.New(handler).With("service", serviceName)
}
