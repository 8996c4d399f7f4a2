package dispatch

import (
	"time"

	"github.com/sweeney/blinkd/internal/config"
	"github.com/sweeney/blinkd/internal/display"
	"github.com/sweeney/blinkd/internal/event"
	"github.com/sweeney/blinkd/internal/gpio"
)

// Hardware opens real epoll, timerfd, GPIO and I2C resources as described by
// the configuration.
type Hardware struct {
	cfg *config.Config
}

// NewHardware returns a Platform for cfg. cfg must be validated.
func NewHardware(cfg *config.Config) *Hardware {
	return &Hardware{cfg: cfg}
}

// NewMultiplexer creates an epoll multiplexer.
func (h *Hardware) NewMultiplexer() (Multiplexer, error) {
	m, err := event.NewMultiplexer()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewTimer creates a timerfd armed at period.
func (h *Hardware) NewTimer(period time.Duration) (Timer, error) {
	t, err := event.NewTimer(period)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// OpenInput requests the button line.
func (h *Hardware) OpenInput() (gpio.Input, error) {
	in, err := gpio.OpenInput(h.cfg.Input.Chip, h.cfg.Input.Line, h.cfg.Input.Bias)
	if err != nil {
		return nil, err
	}
	return in, nil
}

// OpenOutput requests the LED line driven at initial.
func (h *Hardware) OpenOutput(initial gpio.Level) (gpio.Output, error) {
	out, err := gpio.OpenOutput(h.cfg.Output.Chip, h.cfg.Output.Line, initial)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OpenDisplay opens the OLED panel, or a Discard display when disabled.
func (h *Hardware) OpenDisplay() (display.Display, error) {
	if !h.cfg.Display.Enabled {
		return display.Discard{}, nil
	}
	d, err := display.Open(h.cfg.Display.Bus, h.cfg.DisplaySpeed(), h.cfg.DisplayAddress())
	if err != nil {
		return nil, err
	}
	return d, nil
}
