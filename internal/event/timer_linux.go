//go:build linux

package event

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Timer is a periodic timerfd. The descriptor is non-blocking so a spurious
// readiness report consumes zero expirations instead of stalling the loop.
type Timer struct {
	fd     int
	period time.Duration
}

// NewTimer creates a timer firing every period, starting one period from now.
func NewTimer(period time.Duration) (*Timer, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: invalid period %v", ErrTimer, period)
	}

	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("%w: timerfd create: %w", ErrTimer, err)
	}

	t := &Timer{fd: fd}
	if err := t.Rearm(period); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return t, nil
}

// NewRegisteredTimer creates a timer and registers it with m for readability.
func NewRegisteredTimer(m *Multiplexer, period time.Duration, h Handler) (*Timer, error) {
	t, err := NewTimer(period)
	if err != nil {
		return nil, err
	}
	if err := m.Register(t, Readable, h); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// Fd returns the timer descriptor.
func (t *Timer) Fd() int {
	return t.fd
}

// Period returns the current firing period.
func (t *Timer) Period() time.Duration {
	return t.period
}

// Rearm changes the firing period. The next expiration is one new period from now.
func (t *Timer) Rearm(period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("%w: invalid period %v", ErrTimer, period)
	}

	ts := unix.NsecToTimespec(period.Nanoseconds())
	spec := unix.ItimerSpec{Interval: ts, Value: ts}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("%w: timerfd settime %v: %w", ErrTimer, period, err)
	}
	t.period = period
	return nil
}

// Consume acknowledges pending firings and returns how many expirations
// occurred since the last call. Zero means the readiness report was spurious.
func (t *Timer) Consume() (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(t.fd, buf[:])
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: timerfd read: %w", ErrTimer, err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("%w: short timerfd read (%d bytes)", ErrTimer, n)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

// Close releases the timer descriptor.
func (t *Timer) Close() error {
	if err := unix.Close(t.fd); err != nil {
		return fmt.Errorf("close timerfd: %w", err)
	}
	return nil
}
