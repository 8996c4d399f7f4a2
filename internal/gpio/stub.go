//go:build !linux

package gpio

import "fmt"

// RealInput is not available on non-Linux platforms.
type RealInput struct{}

// OpenInput returns an error on non-Linux platforms.
func OpenInput(chip string, offset int, bias Bias) (*RealInput, error) {
	return nil, fmt.Errorf("%w: not supported on this platform (requires Linux)", ErrHardware)
}

// Read is not implemented on non-Linux platforms.
func (r *RealInput) Read() (Level, error) {
	return Low, fmt.Errorf("%w: not supported", ErrHardware)
}

// Close is not implemented on non-Linux platforms.
func (r *RealInput) Close() error {
	return nil
}

// RealOutput is not available on non-Linux platforms.
type RealOutput struct{}

// OpenOutput returns an error on non-Linux platforms.
func OpenOutput(chip string, offset int, initial Level) (*RealOutput, error) {
	return nil, fmt.Errorf("%w: not supported on this platform (requires Linux)", ErrHardware)
}

// Write is not implemented on non-Linux platforms.
func (o *RealOutput) Write(level Level) error {
	return fmt.Errorf("%w: not supported", ErrHardware)
}

// Close is not implemented on non-Linux platforms.
func (o *RealOutput) Close() error {
	return nil
}
