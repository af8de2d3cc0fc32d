package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiwake-go/errcode"
)

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, "MYSSID", c.TargetSSID)
	assert.Equal(t, "MYPASSWORD", c.Credential)
	assert.Equal(t, 5, c.Capacity)
	assert.Equal(t, "feathers2", c.Board)
	assert.Equal(t, 100*time.Millisecond, c.Timing.Settle)
	assert.Equal(t, 60*time.Second, c.Timing.ScanTimeout)
	assert.Equal(t, time.Minute, c.Timing.WakeAfter)
	require.NoError(t, c.Validate())
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParseOverrides(t *testing.T) {
	raw := []byte(`
target_ssid: home
credential: s3cret
capacity: 2
board: linux
timing:
  scan_timeout: 5s
  wake_after: 30s
log:
  level: debug
  format: json
`)
	c, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "home", c.TargetSSID)
	assert.Equal(t, "s3cret", c.Credential)
	assert.Equal(t, 2, c.Capacity)
	assert.Equal(t, "linux", c.Board)
	assert.Equal(t, 5*time.Second, c.Timing.ScanTimeout)
	assert.Equal(t, 30*time.Second, c.Timing.WakeAfter)
	assert.Equal(t, DefaultSettle, c.Timing.Settle)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "stderr", c.Log.Output)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte("target_sid: typo\n"))
	require.Error(t, err)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty ssid":    func(c *Config) { c.TargetSSID = "" },
		"zero capacity": func(c *Config) { c.Capacity = 0 },
		"neg settle":    func(c *Config) { c.Timing.Settle = -1 },
		"zero timeout":  func(c *Config) { c.Timing.ScanTimeout = 0 },
		"zero wake":     func(c *Config) { c.Timing.WakeAfter = 0 },
	}
	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mut(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
		})
	}

	c := Default()
	c.Board = "esp8266"
	assert.Equal(t, errcode.UnknownBoard, errcode.Of(c.Validate()))
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cycle.yaml")
	require.NoError(t, os.WriteFile(p, []byte("target_ssid: office\n"), 0o600))
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "office", c.TargetSSID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestMarshalMasksCredential(t *testing.T) {
	out, err := Default().Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "MYPASSWORD")
	assert.Contains(t, string(out), "********")
	assert.Contains(t, string(out), "target_ssid: MYSSID")
}
