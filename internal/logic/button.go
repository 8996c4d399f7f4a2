package logic

import "github.com/sweeney/blinkd/internal/gpio"

// Button turns polled input levels into press events.
//
// A press is reported when the level changes to PressedLevel. This is a plain
// edge detector: the poll period is assumed short enough that a bouncing
// contact settles between two samples.
type Button struct {
	last    gpio.Level
	presses int
}

// NewButton creates a Button whose stored level starts at initial.
func NewButton(initial gpio.Level) *Button {
	return &Button{last: initial}
}

// Observe records level and reports whether it completes a press.
func (b *Button) Observe(level gpio.Level) bool {
	pressed := level != b.last && level == PressedLevel
	b.last = level
	if pressed {
		b.presses++
	}
	return pressed
}

// Level returns the last observed level.
func (b *Button) Level() gpio.Level {
	return b.last
}

// Presses returns the number of presses observed since creation.
func (b *Button) Presses() int {
	return b.presses
}
