package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init builds the process logger. Production environments log JSON at info
// level, everything else logs text at debug level.
func Init(env string) {
	InitWithOptions(env, "", "", os.Stdout)
}

// InitWithOptions is Init with an explicit level name, format ("json" or
// "text") and output writer. Empty level or format fall back to the
// environment defaults.
func InitWithOptions(env, level, format string, w io.Writer) {
	defaultLogger = New(env, level, format, w)
	slog.SetDefault(defaultLogger)
}

// New builds a logger without installing it as the default.
func New(env, level, format string, w io.Writer) *slog.Logger {
	production := env == "production"
	fallback := slog.LevelDebug
	if production {
		fallback = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: parseLevel(level, fallback)}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	case "text":
		return slog.New(slog.NewTextHandler(w, opts))
	}
	if production {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}

// Discard returns a logger that drops every record. Used by tests and CLI
// commands that print their own output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func parseLevel(name string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
