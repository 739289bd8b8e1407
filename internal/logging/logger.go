package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Supported output formats
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ParseLevel returns the zerolog level for name, or info when name is blank
// or unknown
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// New builds a logger writing to w. The level is set on the logger itself,
// not globally, so several loggers can coexist in tests.
func New(level, format string, w io.Writer) zerolog.Logger {
	if strings.EqualFold(strings.TrimSpace(format), FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", "tagsched").
		Logger()
}
