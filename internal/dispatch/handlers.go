package dispatch

import (
	"fmt"

	"github.com/sweeney/blinkd/internal/display"
	"github.com/sweeney/blinkd/internal/logic"
)

// pollHandler samples the button on every poll timer expiration.
type pollHandler struct{ d *Dispatcher }

func (h pollHandler) HandleReadiness() error {
	d := h.d
	n, err := d.poll.Consume()
	if err != nil {
		return d.fail(fmt.Errorf("consume poll timer: %w", err))
	}
	if n == 0 {
		return nil
	}

	level, err := d.input.Read()
	if err != nil {
		return d.fail(fmt.Errorf("read button: %w", err))
	}
	if d.button.Observe(level) {
		return d.onPress()
	}
	return nil
}

// blinkHandler toggles the output once per blink timer readiness, however
// many expirations it carries.
type blinkHandler struct{ d *Dispatcher }

func (h blinkHandler) HandleReadiness() error {
	d := h.d
	n, err := d.blink.Consume()
	if err != nil {
		return d.fail(fmt.Errorf("consume blink timer: %w", err))
	}
	if n == 0 {
		return nil
	}

	if err := d.blinker.Tick(); err != nil {
		return d.fail(err)
	}
	d.log.Debugw("toggle", "level", d.blinker.Level(), "toggles", d.blinker.Toggles())
	return nil
}

func (d *Dispatcher) onPress() error {
	if err := d.blinker.Advance(); err != nil {
		return d.fail(err)
	}

	ev := logic.PressEvent{
		Timestamp: d.opts.Now(),
		Presses:   d.button.Presses(),
		Index:     d.blinker.Index(),
		Period:    d.blinker.Period(),
	}
	d.log.Infow("button pressed", "presses", ev.Presses, "index", ev.Index, "period", ev.Period)

	if err := display.ShowPress(d.display); err != nil {
		d.log.Warnw("display update failed", "error", err)
	}
	if d.opts.Publisher != nil {
		if err := d.opts.Publisher.Publish(ev); err != nil {
			d.log.Warnw("publish press failed", "error", err)
		}
	}
	return nil
}

// fail records err and requests termination. The loop exits once the
// current Wait returns.
func (d *Dispatcher) fail(err error) error {
	d.setFault(err)
	return err
}
