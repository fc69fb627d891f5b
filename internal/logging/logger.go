package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures the application logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used by the todo binary.
func DefaultOptions() Options {
	return Options{
		Level:           log.WarnLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "todo",
	}
}

// New creates a leveled logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// NewFromConfig builds a stderr logger for the configured level name. Verbose
// or TODO_DEBUG forces debug level.
func NewFromConfig(level string, verbose bool) *log.Logger {
	opts := DefaultOptions()
	opts.Level = ParseLevel(level)
	if verbose || DebugEnabled() {
		opts.Level = log.DebugLevel
	}
	return New(os.Stderr, opts)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a level name to a log level, defaulting to warn.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
