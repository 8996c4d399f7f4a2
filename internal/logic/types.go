// Package logic contains the blink and button state machines.
// This package performs no I/O of its own: line levels come in as values and
// timer and output effects go out through small interfaces.
package logic

import (
	"time"

	"github.com/sweeney/blinkd/internal/gpio"
)

// PressedLevel is the input level that means "pressed" (active-low button).
const PressedLevel = gpio.Low

// ReleasedLevel is the input level of an idle button.
const ReleasedLevel = gpio.High

// LEDOff is the output level that turns the active-low LED off.
const LEDOff = gpio.High

// Rearmer changes the period of a running timer.
type Rearmer interface {
	Rearm(period time.Duration) error
}

// LevelWriter drives an output line.
type LevelWriter interface {
	Write(level gpio.Level) error
}

// PressEvent describes one logical button press and the blink period it selected.
type PressEvent struct {
	Timestamp time.Time
	Presses   int
	Index     int
	Period    time.Duration
}
