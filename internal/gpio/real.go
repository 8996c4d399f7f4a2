//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "blinkd"

// RealInput reads an input line through the Linux GPIO character device.
type RealInput struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// OpenInput requests offset on chip as an input with the given bias.
func OpenInput(chip string, offset int, bias Bias) (*RealInput, error) {
	c, err := gpiocdev.NewChip(chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("%w: open chip %s: %w", ErrHardware, chip, err)
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	switch bias {
	case BiasPullUp:
		opts = append(opts, gpiocdev.WithPullUp)
	case BiasPullDown:
		opts = append(opts, gpiocdev.WithPullDown)
	case BiasDisabled:
		opts = append(opts, gpiocdev.WithBiasDisabled)
	}

	l, err := c.RequestLine(offset, opts...)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: request input line %d: %w", ErrHardware, offset, err)
	}

	return &RealInput{chip: c, line: l}, nil
}

// Read returns the raw electrical level of the line.
func (r *RealInput) Read() (Level, error) {
	v, err := r.line.Value()
	if err != nil {
		return Low, fmt.Errorf("%w: read line: %w", ErrHardware, err)
	}
	if v == 0 {
		return Low, nil
	}
	return High, nil
}

// Close releases the line and the chip.
func (r *RealInput) Close() error {
	return closeLine(r.line, r.chip)
}

// RealOutput drives an output line through the Linux GPIO character device.
type RealOutput struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// OpenOutput requests offset on chip as a push-pull output driven to initial.
func OpenOutput(chip string, offset int, initial Level) (*RealOutput, error) {
	c, err := gpiocdev.NewChip(chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("%w: open chip %s: %w", ErrHardware, chip, err)
	}

	l, err := c.RequestLine(offset, gpiocdev.AsOutput(int(initial)), gpiocdev.AsPushPull)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: request output line %d: %w", ErrHardware, offset, err)
	}

	return &RealOutput{chip: c, line: l}, nil
}

// Write sets the electrical level of the line.
func (o *RealOutput) Write(level Level) error {
	if err := o.line.SetValue(int(level)); err != nil {
		return fmt.Errorf("%w: write line: %w", ErrHardware, err)
	}
	return nil
}

// Close releases the line and the chip. The line keeps whatever level was last written.
func (o *RealOutput) Close() error {
	return closeLine(o.line, o.chip)
}

func closeLine(line *gpiocdev.Line, chip *gpiocdev.Chip) error {
	var errs []error
	if line != nil {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if chip != nil {
		if err := chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
