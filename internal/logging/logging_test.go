package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWritesPlainTextToBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("Alert message", "message", "이미 존재하는 이름입니다.")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Alert message")
	assert.Contains(t, out, "이미 존재하는 이름입니다.")
	assert.NotContains(t, out, "\x1b[", "no ANSI colors for non-terminal writers")
}
