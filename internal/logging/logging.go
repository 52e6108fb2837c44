// Package logging configures structured logging for the retrieval service.
// Logs go to stderr: JSON when piped, human-readable text on a terminal.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// ForceJSON always uses the JSON handler, even on a terminal.
	ForceJSON bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// Setup builds a logger writing to w and installs it as the slog default.
func Setup(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if !cfg.ForceJSON && isTerminal(w) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// SetupDefault installs a stderr logger with the given level.
func SetupDefault(level string) *slog.Logger {
	cfg := DefaultConfig()
	if level != "" {
		cfg.Level = level
	}
	return Setup(cfg, os.Stderr)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
