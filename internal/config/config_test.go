package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/blinkd/internal/display"
	"github.com/sweeney/blinkd/internal/gpio"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "blinkd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	require.Equal(t, time.Millisecond, cfg.PollInterval)
	require.Equal(t, []time.Duration{
		125 * time.Millisecond, 250 * time.Millisecond, 500 * time.Millisecond,
	}, cfg.BlinkIntervals)
	require.Equal(t, gpio.DefaultButtonLine, cfg.Input.Line)
	require.Equal(t, gpio.High, cfg.SafeLevel())
	require.Equal(t, display.PrimaryAddress, cfg.DisplayAddress())
	require.Equal(t, 400*physic.KiloHertz, cfg.DisplaySpeed())
	require.Empty(t, cfg.MQTT.Broker)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
log_level: debug
input:
  line: 5
  bias: pull-down
output:
  chip: gpiochip1
  safe_level: low
poll_interval: 2ms
blink_intervals: [100ms, 1s]
display:
  enabled: false
  primary_address: false
mqtt:
  broker: tcp://localhost:1883
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 5, cfg.Input.Line)
	require.Equal(t, gpio.DefaultChip, cfg.Input.Chip)
	require.Equal(t, gpio.BiasPullDown, cfg.Input.Bias)
	require.Equal(t, "gpiochip1", cfg.Output.Chip)
	require.Equal(t, gpio.Low, cfg.SafeLevel())
	require.Equal(t, 2*time.Millisecond, cfg.PollInterval)
	require.Equal(t, []time.Duration{100 * time.Millisecond, time.Second}, cfg.BlinkIntervals)
	require.False(t, cfg.Display.Enabled)
	require.Equal(t, display.SecondaryAddress, cfg.DisplayAddress())
	require.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	require.Equal(t, DefaultClientID, cfg.MQTT.ClientID)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, "poll_interval: [oops"))
	require.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Config){
		"log level":      func(c *Config) { c.LogLevel = "loud" },
		"bias":           func(c *Config) { c.Input.Bias = "floating" },
		"safe level":     func(c *Config) { c.Output.SafeLevel = "medium" },
		"poll zero":      func(c *Config) { c.PollInterval = 0 },
		"poll negative":  func(c *Config) { c.PollInterval = -time.Millisecond },
		"empty table":    func(c *Config) { c.BlinkIntervals = nil },
		"zero interval":  func(c *Config) { c.BlinkIntervals = []time.Duration{time.Second, 0} },
		"negative line":  func(c *Config) { c.Output.Line = -1 },
		"negative speed": func(c *Config) { c.Display.SpeedHz = -1 },
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			mutate(cfg)
			require.Error(t, Validate(cfg))
		})
	}

	require.Error(t, Validate(nil))
}

func TestValidateFillsNames(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Input.Chip = ""
	cfg.Input.Bias = ""
	cfg.Output.SafeLevel = ""
	cfg.MQTT.ClientID = ""

	require.NoError(t, Validate(cfg))
	require.Equal(t, gpio.DefaultChip, cfg.Input.Chip)
	require.Equal(t, gpio.BiasPullUp, cfg.Input.Bias)
	require.Equal(t, "HIGH", cfg.Output.SafeLevel)
	require.Equal(t, DefaultClientID, cfg.MQTT.ClientID)
}
