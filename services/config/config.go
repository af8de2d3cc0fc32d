package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"wifiwake-go/errcode"
	"wifiwake-go/services/board"
	"wifiwake-go/x/strx"
)

// -----------------------------------------------------------------------------
// Build-time values. Override with
//   -ldflags "-X wifiwake-go/services/config.TargetSSID=home -X ..."
// -----------------------------------------------------------------------------

var (
	TargetSSID = "MYSSID"
	Credential = "MYPASSWORD"
	Board      = "feathers2"
)

// MaxOurDevicesCount caps how many matching networks one scan retains.
const MaxOurDevicesCount = 5

const (
	DefaultSettle      = 100 * time.Millisecond
	DefaultScanTimeout = 60_000 * time.Millisecond
	DefaultWakeAfter   = time.Minute
)

type Timing struct {
	Settle      time.Duration `yaml:"settle"`
	ScanTimeout time.Duration `yaml:"scan_timeout"`
	WakeAfter   time.Duration `yaml:"wake_after"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
	Output string `yaml:"output"` // stdout|stderr|<path>
}

// Status configures the optional per-cycle MQTT summary (host runner only).
type Status struct {
	Broker   string        `yaml:"broker"` // e.g. tcp://10.0.0.2:1883; empty disables
	Topic    string        `yaml:"topic"`
	ClientID string        `yaml:"client_id"`
	Timeout  time.Duration `yaml:"timeout"`
}

type Config struct {
	TargetSSID     string `yaml:"target_ssid"`
	Credential     string `yaml:"credential"`
	Capacity       int    `yaml:"capacity"`
	Board          string `yaml:"board"`
	DisableDisplay bool   `yaml:"disable_display"`

	Timing Timing `yaml:"timing"`
	Log    Log    `yaml:"log"`
	Status Status `yaml:"status"`
}

// Default returns the build-time configuration.
func Default() Config {
	return Config{
		TargetSSID: strx.Coalesce(TargetSSID, "MYSSID"),
		Credential: Credential,
		Capacity:   MaxOurDevicesCount,
		Board:      strx.Coalesce(Board, "feathers2"),
		Timing: Timing{
			Settle:      DefaultSettle,
			ScanTimeout: DefaultScanTimeout,
			WakeAfter:   DefaultWakeAfter,
		},
		Log: Log{Level: "info", Format: "text", Output: "stderr"},
		Status: Status{
			Topic:   "wifiwake/cycle",
			Timeout: 2 * time.Second,
		},
	}
}

// Load reads a YAML file over Default(). Fields absent from the file keep
// their defaults; unknown fields are rejected.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errcode.Wrap(errcode.InvalidConfig, "config.load", err)
	}
	return Parse(raw)
}

// Parse decodes YAML over Default() and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errcode.Wrap(errcode.InvalidConfig, "config.parse", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the cycle depends on.
func (c Config) Validate() error {
	invalid := func(msg string) error {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.validate", Msg: msg}
	}
	switch {
	case c.TargetSSID == "":
		return invalid("target_ssid is empty")
	case c.Capacity < 1:
		return invalid("capacity must be at least 1")
	case c.Timing.Settle < 0:
		return invalid("timing.settle is negative")
	case c.Timing.ScanTimeout <= 0:
		return invalid("timing.scan_timeout must be positive")
	case c.Timing.WakeAfter <= 0:
		return invalid("timing.wake_after must be positive")
	}
	if _, err := board.ParseVariant(c.Board); err != nil {
		return err
	}
	return nil
}

// Marshal renders the configuration as YAML with the credential masked.
func (c Config) Marshal() ([]byte, error) {
	if c.Credential != "" {
		c.Credential = "********"
	}
	return yaml.Marshal(c)
}
