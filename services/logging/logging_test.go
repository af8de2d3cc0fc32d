package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiwake-go/services/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.Log{Level: "info", Format: "json"}, &buf)
	log.Info("our network", "ssid", "home", "rssi", -40)
	log.Debug("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "our network", entry["msg"])
	assert.Equal(t, "home", entry["ssid"])
	assert.EqualValues(t, -40, entry["rssi"])
}

func TestNewTextDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.Log{Level: "debug"}, &buf)
	log.Debug("settle")
	assert.Contains(t, buf.String(), "msg=settle")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestOpenFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cycle.log")
	log, closer, err := Open(config.Log{Output: p})
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, closer())

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "msg=hello")
}

func TestOpenBadPath(t *testing.T) {
	_, _, err := Open(config.Log{Output: filepath.Join(t.TempDir(), "no", "such", "dir.log")})
	assert.Error(t, err)
}

func TestOr(t *testing.T) {
	assert.NotNil(t, Or(nil))
	l := slog.Default()
	assert.Same(t, l, Or(l))
}
