// Package gpio provides digital input and output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHardware is wrapped by every line open, read or write failure.
var ErrHardware = errors.New("gpio: hardware error")

// Level is the electrical level of a line.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

// Toggle returns the opposite level.
func (l Level) Toggle() Level {
	if l == Low {
		return High
	}
	return Low
}

func (l Level) String() string {
	if l == Low {
		return "LOW"
	}
	return "HIGH"
}

// ParseLevel converts "low"/"high" (any case) into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "0":
		return Low, nil
	case "high", "1":
		return High, nil
	}
	return Low, fmt.Errorf("unknown level %q", s)
}

// Bias is the input pull configuration.
type Bias string

const (
	BiasPullUp   Bias = "pull-up"
	BiasPullDown Bias = "pull-down"
	BiasDisabled Bias = "disabled"
)

// Input reads a single input line.
type Input interface {
	// Read returns the current electrical level.
	Read() (Level, error)

	// Close releases the line.
	Close() error
}

// Output drives a single output line.
type Output interface {
	// Write sets the electrical level.
	Write(level Level) error

	// Close releases the line. Callers set a safe level first.
	Close() error
}

// Line definitions for the reference board (MT3620 RDB).
const (
	DefaultChip       = "gpiochip0"
	DefaultButtonLine = 12 // Button A, active-low
	DefaultLEDLine    = 0  // LED, active-low
)
