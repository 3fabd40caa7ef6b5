package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json"}, &buf)
	l.Debug("hidden")
	l.Info("submitted", "application_id", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "submitted", line["msg"])
	assert.Equal(t, "abc", line["application_id"])
	assert.IsType(t, "", line["time"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Format: "text"}, &buf).Warn("careful")
	assert.Contains(t, buf.String(), "level=WARN")
}
