package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewSlog_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlog(SlogConfig{Level: "info", Format: "json", Output: &buf})

	l.Debug("hidden")
	l.Info("user created", "user_id", "u1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "user created", rec["msg"])
	assert.Equal(t, "u1", rec["user_id"])
	assert.Equal(t, "exercisetracker", rec["service"])

	_, err := time.Parse(time.RFC3339, rec["time"].(string))
	assert.NoError(t, err)
}

func TestNewSlog_Text(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlog(SlogConfig{Level: "debug", Format: "text", Output: &buf})

	l.Debug("retrying", "attempt", 2)
	assert.Contains(t, buf.String(), "msg=retrying")
	assert.Contains(t, buf.String(), "attempt=2")
}
