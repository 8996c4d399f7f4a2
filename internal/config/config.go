// Package config loads the daemon settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/blinkd/internal/display"
	"github.com/sweeney/blinkd/internal/gpio"
	"github.com/sweeney/blinkd/internal/logger"
	"github.com/sweeney/blinkd/internal/logic"
)

// Config holds everything the daemon reads at startup.
type Config struct {
	// LogLevel is a zap level name.
	LogLevel string `yaml:"log_level"`
	// Input is the button line.
	Input InputConfig `yaml:"input"`
	// Output is the LED line.
	Output OutputConfig `yaml:"output"`
	// PollInterval is the button sampling period.
	PollInterval time.Duration `yaml:"poll_interval"`
	// BlinkIntervals is the cyclic table of LED half-periods.
	BlinkIntervals []time.Duration `yaml:"blink_intervals"`
	// Display configures the optional OLED panel.
	Display DisplayConfig `yaml:"display"`
	// MQTT configures optional telemetry. An empty broker disables it.
	MQTT MQTTConfig `yaml:"mqtt"`
}

// InputConfig selects the button line.
type InputConfig struct {
	Chip string    `yaml:"chip"`
	Line int       `yaml:"line"`
	Bias gpio.Bias `yaml:"bias"`
}

// OutputConfig selects the LED line and the level that turns it off.
type OutputConfig struct {
	Chip      string `yaml:"chip"`
	Line      int    `yaml:"line"`
	SafeLevel string `yaml:"safe_level"`
}

// DisplayConfig selects the I2C bus and panel address.
type DisplayConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Bus            string `yaml:"bus"`
	PrimaryAddress bool   `yaml:"primary_address"`
	SpeedHz        int64  `yaml:"speed_hz"`
}

// MQTTConfig holds the broker connection.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

const (
	// DefaultPollInterval is the button sampling period.
	DefaultPollInterval = time.Millisecond
	// DefaultClientID is the MQTT client identifier.
	DefaultClientID = "blinkd"
)

var (
	errConfigIsNotSet = errors.New("configuration is not set")
	errPollInterval   = errors.New("poll_interval must be positive")
	errNoIntervals    = errors.New("blink_intervals must not be empty")
	errNegativeLine   = errors.New("line offset must not be negative")
	errSpeed          = errors.New("display speed_hz must not be negative")
)

// Default returns the reference board configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Input: InputConfig{
			Chip: gpio.DefaultChip,
			Line: gpio.DefaultButtonLine,
			Bias: gpio.BiasPullUp,
		},
		Output: OutputConfig{
			Chip:      gpio.DefaultChip,
			Line:      gpio.DefaultLEDLine,
			SafeLevel: logic.LEDOff.String(),
		},
		PollInterval:   DefaultPollInterval,
		BlinkIntervals: append([]time.Duration(nil), logic.DefaultIntervals...),
		Display: DisplayConfig{
			Enabled:        true,
			PrimaryAddress: true,
			SpeedHz:        int64(display.DefaultSpeed / physic.Hertz),
		},
		MQTT: MQTTConfig{ClientID: DefaultClientID},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fills empty names with defaults and rejects values the daemon
// cannot run with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	if cfg.Input.Chip == "" {
		cfg.Input.Chip = gpio.DefaultChip
	}
	if cfg.Output.Chip == "" {
		cfg.Output.Chip = gpio.DefaultChip
	}
	if cfg.Input.Line < 0 || cfg.Output.Line < 0 {
		return errNegativeLine
	}

	switch cfg.Input.Bias {
	case "":
		cfg.Input.Bias = gpio.BiasPullUp
	case gpio.BiasPullUp, gpio.BiasPullDown, gpio.BiasDisabled:
	default:
		return fmt.Errorf("unknown input bias %q", cfg.Input.Bias)
	}

	if cfg.Output.SafeLevel == "" {
		cfg.Output.SafeLevel = logic.LEDOff.String()
	}
	if _, err := gpio.ParseLevel(cfg.Output.SafeLevel); err != nil {
		return fmt.Errorf("output safe_level: %w", err)
	}

	if cfg.PollInterval <= 0 {
		return errPollInterval
	}
	if len(cfg.BlinkIntervals) == 0 {
		return errNoIntervals
	}
	if _, err := logic.NewIntervalTable(cfg.BlinkIntervals...); err != nil {
		return fmt.Errorf("blink_intervals: %w", err)
	}

	if cfg.Display.SpeedHz < 0 {
		return errSpeed
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultClientID
	}

	return nil
}

// SafeLevel returns the parsed output safe level. Call after Validate.
func (c *Config) SafeLevel() gpio.Level {
	l, err := gpio.ParseLevel(c.Output.SafeLevel)
	if err != nil {
		return logic.LEDOff
	}
	return l
}

// DisplayAddress returns the panel I2C address.
func (c *Config) DisplayAddress() uint16 {
	if c.Display.PrimaryAddress {
		return display.PrimaryAddress
	}
	return display.SecondaryAddress
}

// DisplaySpeed returns the configured bus clock. Zero keeps the bus default.
func (c *Config) DisplaySpeed() physic.Frequency {
	return physic.Frequency(c.Display.SpeedHz) * physic.Hertz
}
