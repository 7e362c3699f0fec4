package logutil

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
	assert.Equal(t, log.InfoLevel, ParseLevel("chatty"))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "info", Output: &buf, Prefix: "add-guest"})

	logger.Debug("hidden")
	logger.Info("navigating", "url", "https://wedding.example.com")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "add-guest")
	assert.Contains(t, out, "navigating")
	assert.Contains(t, out, "https://wedding.example.com")
}

func TestRedact(t *testing.T) {
	testCases := []struct {
		key, value, want string
	}{
		{"TEST_PASSWORD", "hunter2", "[REDACTED]"},
		{"MAIN_TEST_USER_WEDDING_CODE", "WED-5405", "[REDACTED]"},
		{"api-token", "abc", "[REDACTED]"},
		{"TEST_EMAIL", "a@b.c", "a@b.c"},
		{"RENDER_RUN_URL", "https://x", "https://x"},
		{"TEST_PASSWORD", "", ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Redact(tc.key, tc.value), tc.key)
	}
}
