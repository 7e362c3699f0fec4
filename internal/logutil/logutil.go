// Package logutil builds the progress-transcript loggers used by the suite.
package logutil

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	// Level is the minimum level (debug, info, warn, error).
	Level  string
	Output io.Writer
	// Prefix is usually the journey name.
	Prefix          string
	ReportTimestamp bool
}

// ParseLevel converts a level name to log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New creates a logger with the given options.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		Level:           ParseLevel(opts.Level),
		Prefix:          opts.Prefix,
		TimeFormat:      time.TimeOnly,
		ReportTimestamp: opts.ReportTimestamp,
	})
}

// ForTest routes log output into t.Log so transcripts stay attached to the
// test that produced them.
func ForTest(tb testing.TB, level string) *log.Logger {
	return New(Options{Level: level, Output: testWriter{tb}})
}

type testWriter struct {
	tb testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// IsSensitive reports whether a key likely names a secret value.
func IsSensitive(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, "-", "")
	k = strings.ReplaceAll(k, "_", "")
	switch {
	case strings.Contains(k, "password"):
		return true
	case strings.Contains(k, "token"):
		return true
	case strings.Contains(k, "secret"):
		return true
	case strings.Contains(k, "code"):
		return true
	default:
		return false
	}
}

// Redact masks value when key looks sensitive. Empty values stay visible so
// an unset variable is still obvious in the output.
func Redact(key, value string) string {
	if value == "" || !IsSensitive(key) {
		return value
	}
	return "[REDACTED]"
}
