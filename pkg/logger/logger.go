// Package logger builds the zerolog loggers shared by the servers and the CLI.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SourceField tags every entry with the component that wrote it. The log
// stream groups and filters on it.
const SourceField = "source"

// New returns the server logger. Lines go to stdout (as a console view when
// pretty) and, as raw JSON, to every extra writer.
func New(level string, pretty bool, extra ...io.Writer) zerolog.Logger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
	}
	if len(extra) > 0 {
		out = zerolog.MultiLevelWriter(append([]io.Writer{out}, extra...)...)
	}

	lvl, _ := ParseLevel(level)
	return zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger()
}

// NewWithWriter creates a JSON logger writing to w. Tests and the CLI use it.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	lvl, _ := ParseLevel(level)
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// WithSource derives a sub-logger tagged with the given source.
func WithSource(log zerolog.Logger, source string) zerolog.Logger {
	return log.With().Str(SourceField, source).Logger()
}

// ParseLevel maps debug|info|warn|error (case-insensitive, "warning"
// accepted). Unknown names yield info and false.
func ParseLevel(level string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	}
	return zerolog.InfoLevel, false
}
