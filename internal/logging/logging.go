// Package logging configures the charmbracelet/log logger and tails its file output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for the logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:     log.WarnLevel,
		Formatter: log.TextFormatter,
		Prefix:    "taskman",
	}
}

// OptionsFromConfig builds Options from string configuration values.
// Unknown level or format names are reported as errors.
func OptionsFromConfig(level, format string, timestamps, caller bool) (Options, error) {
	opts := DefaultOptions()
	lvl, err := ParseLevel(level)
	if err != nil {
		return opts, err
	}
	f, err := ParseFormatter(format)
	if err != nil {
		return opts, err
	}
	opts.Level = lvl
	opts.Formatter = f
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return opts, nil
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
// An empty string selects the default level.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.WarnLevel, fmt.Errorf("unknown log level %q (use debug, info, warn or error)", level)
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("unknown log format %q (use text, json or logfmt)", format)
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// Open creates a logger that appends to path, or writes to fallback when
// path is empty. The returned close function is always non-nil.
func Open(path string, fallback io.Writer, opts Options) (*log.Logger, func() error, error) {
	if path == "" {
		return New(fallback, opts), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(file, opts), file.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, DefaultOptions())
}
