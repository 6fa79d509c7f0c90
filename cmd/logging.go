package cmd

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// setupLogger creates a stderr logger at the given level. debug forces
// debug level regardless of configuration. Stdout is reserved for the
// BPM value itself.
func setupLogger(logLevel string, debug bool) zerolog.Logger {
	level := parseLevel(logLevel)
	if debug {
		level = zerolog.DebugLevel
	}

	fd := os.Stderr.Fd()
	noColor := !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: noColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// parseLevel maps a config level name to a zerolog level, defaulting to warn
func parseLevel(logLevel string) zerolog.Level {
	switch logLevel {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
