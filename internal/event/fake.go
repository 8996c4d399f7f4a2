package event

import (
	"errors"
	"fmt"
	"time"

	"github.com/eapache/queue"
)

// ErrScriptExhausted is returned by FakeMultiplexer.Wait when nothing is
// scheduled and no OnIdle hook is set.
var ErrScriptExhausted = errors.New("event: fake readiness script exhausted")

// FakeMultiplexer is a test double that delivers scripted readiness in FIFO order.
// Each Wait call services exactly one scheduled source.
type FakeMultiplexer struct {
	handlers map[int]Handler
	ready    *queue.Queue

	// Registered records descriptors in registration order.
	Registered []int

	// Waits counts calls to Wait.
	Waits int

	// Wakes counts calls to Wake.
	Wakes int

	// Closes counts calls to Close.
	Closes int

	// WaitError, if set, is returned by Wait instead of dispatching.
	WaitError error

	// RegisterError, if set, is returned by Register.
	RegisterError error

	// CloseError, if set, is returned by Close.
	CloseError error

	// OnIdle, if set, is called by Wait when nothing is scheduled.
	OnIdle func()
}

// NewFakeMultiplexer creates an empty FakeMultiplexer.
func NewFakeMultiplexer() *FakeMultiplexer {
	return &FakeMultiplexer{
		handlers: make(map[int]Handler),
		ready:    queue.New(),
	}
}

// Register records h for src.
func (f *FakeMultiplexer) Register(src Source, interest Interest, h Handler) error {
	if f.RegisterError != nil {
		return f.RegisterError
	}
	if src == nil || h == nil || src.Fd() < 0 {
		return fmt.Errorf("%w: invalid source", ErrRegistration)
	}
	fd := src.Fd()
	if _, ok := f.handlers[fd]; ok {
		return fmt.Errorf("%w: descriptor %d already registered", ErrRegistration, fd)
	}
	f.handlers[fd] = h
	f.Registered = append(f.Registered, fd)
	return nil
}

// Schedule queues n readiness reports for src.
func (f *FakeMultiplexer) Schedule(src Source, n int) {
	for i := 0; i < n; i++ {
		f.ready.Add(src.Fd())
	}
}

// Pending returns the number of queued readiness reports.
func (f *FakeMultiplexer) Pending() int {
	return f.ready.Length()
}

// Wait delivers the next scheduled readiness report.
func (f *FakeMultiplexer) Wait() error {
	f.Waits++
	if f.WaitError != nil {
		return f.WaitError
	}

	if f.ready.Length() == 0 {
		if f.OnIdle != nil {
			f.OnIdle()
			return nil
		}
		return ErrScriptExhausted
	}

	fd := f.ready.Remove().(int)
	h, ok := f.handlers[fd]
	if !ok {
		return nil
	}
	return h.HandleReadiness()
}

// Wake records the wakeup.
func (f *FakeMultiplexer) Wake() error {
	f.Wakes++
	return nil
}

// Close records the close.
func (f *FakeMultiplexer) Close() error {
	f.Closes++
	return f.CloseError
}

// FakeTimer is a test double for a periodic timer.
type FakeTimer struct {
	fd int

	// Periods records the initial period followed by every successful Rearm.
	Periods []time.Duration

	// Consumes counts calls to Consume.
	Consumes int

	// Expirations is returned by Consume. Zero models a spurious wakeup.
	Expirations uint64

	// ConsumeError, if set, is returned by Consume.
	ConsumeError error

	// RearmError, if set, is returned by Rearm.
	RearmError error

	// Closes counts calls to Close.
	Closes int

	// CloseError, if set, is returned by Close.
	CloseError error
}

// NewFakeTimer creates a FakeTimer with descriptor fd armed at period.
func NewFakeTimer(fd int, period time.Duration) *FakeTimer {
	return &FakeTimer{
		fd:          fd,
		Periods:     []time.Duration{period},
		Expirations: 1,
	}
}

// Fd returns the fake descriptor.
func (f *FakeTimer) Fd() int {
	return f.fd
}

// Period returns the current period.
func (f *FakeTimer) Period() time.Duration {
	return f.Periods[len(f.Periods)-1]
}

// Rearm records period.
func (f *FakeTimer) Rearm(period time.Duration) error {
	if f.RearmError != nil {
		return f.RearmError
	}
	if period <= 0 {
		return fmt.Errorf("%w: invalid period %v", ErrTimer, period)
	}
	f.Periods = append(f.Periods, period)
	return nil
}

// Consume returns Expirations.
func (f *FakeTimer) Consume() (uint64, error) {
	f.Consumes++
	if f.ConsumeError != nil {
		return 0, f.ConsumeError
	}
	return f.Expirations, nil
}

// Close records the close.
func (f *FakeTimer) Close() error {
	f.Closes++
	return f.CloseError
}
