//go:build !linux

package event

import (
	"fmt"
	"time"
)

// Multiplexer is not available on non-Linux platforms.
type Multiplexer struct{}

// NewMultiplexer returns an error on non-Linux platforms.
func NewMultiplexer() (*Multiplexer, error) {
	return nil, fmt.Errorf("%w: not supported on this platform (requires Linux)", ErrResource)
}

// Register is not implemented on non-Linux platforms.
func (m *Multiplexer) Register(src Source, interest Interest, h Handler) error {
	return fmt.Errorf("%w: not supported", ErrRegistration)
}

// Deregister is not implemented on non-Linux platforms.
func (m *Multiplexer) Deregister(src Source) error {
	return fmt.Errorf("%w: not supported", ErrRegistration)
}

// Wait is not implemented on non-Linux platforms.
func (m *Multiplexer) Wait() error {
	return fmt.Errorf("%w: not supported", ErrWait)
}

// Wake is not implemented on non-Linux platforms.
func (m *Multiplexer) Wake() error {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (m *Multiplexer) Close() error {
	return nil
}

// Timer is not available on non-Linux platforms.
type Timer struct{}

// NewTimer returns an error on non-Linux platforms.
func NewTimer(period time.Duration) (*Timer, error) {
	return nil, fmt.Errorf("%w: not supported on this platform (requires Linux)", ErrTimer)
}

// Fd returns an invalid descriptor.
func (t *Timer) Fd() int { return -1 }

// Period returns zero.
func (t *Timer) Period() time.Duration { return 0 }

// Rearm is not implemented on non-Linux platforms.
func (t *Timer) Rearm(period time.Duration) error {
	return fmt.Errorf("%w: not supported", ErrTimer)
}

// Consume is not implemented on non-Linux platforms.
func (t *Timer) Consume() (uint64, error) {
	return 0, fmt.Errorf("%w: not supported", ErrTimer)
}

// Close is not implemented on non-Linux platforms.
func (t *Timer) Close() error {
	return nil
}
