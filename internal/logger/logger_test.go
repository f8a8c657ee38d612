package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLogger_InfoWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New("wthr", "debug", &buf)

	l.Info("city added", map[string]any{"city_id": 703448})
	require.NoError(t, l.Stop())

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "city added", entries[0]["msg"])
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "wthr", entries[0]["app_name"])
	assert.EqualValues(t, 703448, entries[0]["city_id"])
	assert.Contains(t, entries[0]["caller_file"], "logger_test.go")
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	l := New("wthr", "info", &buf)

	l.Error(errors.New("disk full"), map[string]any{"path": "/tmp/x"})
	l.Error(nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "operation failed", entries[0]["msg"])
	assert.Equal(t, "disk full", entries[0]["error"])
	assert.Equal(t, 1, strings.Count(buf.String(), "disk full"))
	assert.Equal(t, "/tmp/x", entries[0]["path"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New("wthr", "warn", &buf)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warning("shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
	assert.Equal(t, "warn", entries[0]["level"])
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New("wthr", "loud", &buf)

	l.Debug("hidden")
	l.Info("shown")

	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.Error(errors.New("nothing"))
	assert.NoError(t, l.Stop())
}
