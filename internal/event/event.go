// Package event provides a single-threaded readiness multiplexer and the
// periodic timer sources it dispatches.
//
// On Linux the multiplexer is backed by epoll and timers by timerfd. Handlers
// run synchronously inside Wait, one per ready source, and must not block.
package event

import "errors"

var (
	// ErrResource is wrapped when the multiplexer context cannot be allocated or is closed.
	ErrResource = errors.New("event: resource error")
	// ErrRegistration is wrapped when a source is invalid or already registered.
	ErrRegistration = errors.New("event: registration error")
	// ErrTimer is wrapped when a timer cannot be armed, rearmed or consumed.
	ErrTimer = errors.New("event: timer error")
	// ErrWait is wrapped when the wait primitive fails for a reason other than interruption.
	ErrWait = errors.New("event: wait failed")
)

// Interest is a bitmask of readiness conditions a source is registered for.
type Interest uint32

const (
	Readable Interest = 1 << iota
	Writable
)

// Source is anything backed by a pollable descriptor.
type Source interface {
	Fd() int
}

// Handler consumes the readiness signal of the source it was registered with.
// A returned error is fatal to the caller.
type Handler interface {
	HandleReadiness() error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func() error

// HandleReadiness calls f.
func (f HandlerFunc) HandleReadiness() error {
	return f()
}
