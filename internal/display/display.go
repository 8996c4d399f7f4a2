// Package display drives an SSD1308 128x64 OLED over I2C in page addressing
// mode with an 8x8 text grid (16 columns, 8 rows).
package display

import "time"

// Display is the subset of the controller the dispatcher talks to.
// Calls are fire-and-forget from the caller's point of view; errors are
// returned for logging only.
type Display interface {
	ClearDisplay() error
	SetTextPos(column, row uint8) error
	PutString(s string) error
	ClearPos(column, row uint8, length int) error
	SetVerticalScroll(dir VerticalScroll, startPage, endPage uint8, speed ScrollSpeed, offset uint8) error
	ActivateScroll() error
	DeactivateScroll() error
	SetInverse() error
	SetNormal() error
	Close() error
}

// Discard is a Display that does nothing. It stands in when no panel is fitted.
type Discard struct{}

// ClearDisplay does nothing.
func (Discard) ClearDisplay() error { return nil }

// SetTextPos does nothing.
func (Discard) SetTextPos(uint8, uint8) error { return nil }

// PutString does nothing.
func (Discard) PutString(string) error { return nil }

// ClearPos does nothing.
func (Discard) ClearPos(uint8, uint8, int) error { return nil }

// SetVerticalScroll does nothing.
func (Discard) SetVerticalScroll(VerticalScroll, uint8, uint8, ScrollSpeed, uint8) error {
	return nil
}

// ActivateScroll does nothing.
func (Discard) ActivateScroll() error { return nil }

// DeactivateScroll does nothing.
func (Discard) DeactivateScroll() error { return nil }

// SetInverse does nothing.
func (Discard) SetInverse() error { return nil }

// SetNormal does nothing.
func (Discard) SetNormal() error { return nil }

// Close does nothing.
func (Discard) Close() error { return nil }

// BannerFlash is how long the startup banner is shown inverted.
const BannerFlash = 250 * time.Millisecond

// ShowBanner writes the startup banner and flashes the panel inverted for
// BannerFlash. sleep is injectable for tests.
func ShowBanner(d Display, sleep func(time.Duration)) error {
	steps := []func() error{
		func() error { return d.SetTextPos(0, 3) },
		func() error { return d.PutString("Display checked!") },
		d.SetInverse,
	}
	if err := run(steps); err != nil {
		return err
	}
	sleep(BannerFlash)
	return d.SetNormal()
}

// ShowPress redraws the press screen: a diagonal of greetings, a cleared gap
// and a vertical scroll over pages 3 to 6.
func ShowPress(d Display) error {
	steps := []func() error{d.ClearDisplay}
	for i := uint8(1); i <= 4; i++ {
		row := i
		steps = append(steps,
			func() error { return d.SetTextPos(row, row) },
			func() error { return d.PutString("Hello World!") },
		)
	}
	steps = append(steps,
		func() error { return d.ClearPos(7, 3, 5) },
		func() error { return d.SetVerticalScroll(ScrollVerticalLeft, 3, 6, Scroll25Frames, 1) },
		d.ActivateScroll,
	)
	return run(steps)
}

func run(steps []func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
