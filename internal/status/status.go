// Package status provides a point-in-time view of the blink daemon for
// lifecycle reports.
package status

import (
	"time"

	"github.com/sweeney/blinkd/internal/gpio"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	IntervalsMs []int64
	Broker      string
	Display     bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and carries no references into the dispatcher.
type Snapshot struct {
	Index     int
	Period    time.Duration
	Presses   int
	Toggles   int
	Output    gpio.Level
	Button    gpio.Level
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// NewConfig converts durations into the millisecond form used in reports.
func NewConfig(poll time.Duration, intervals []time.Duration, broker string, display bool) Config {
	ms := make([]int64, len(intervals))
	for i, d := range intervals {
		ms[i] = d.Milliseconds()
	}
	return Config{
		PollMs:      poll.Milliseconds(),
		IntervalsMs: ms,
		Broker:      broker,
		Display:     display,
	}
}
