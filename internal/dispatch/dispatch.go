// Package dispatch owns the daemon lifecycle: it opens the hardware, runs the
// single-threaded readiness loop that drives the button and blink state
// machines, and tears everything down in reverse order.
package dispatch

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/blinkd/internal/display"
	"github.com/sweeney/blinkd/internal/event"
	"github.com/sweeney/blinkd/internal/gpio"
	"github.com/sweeney/blinkd/internal/logic"
	"github.com/sweeney/blinkd/internal/status"
)

// Multiplexer is the readiness loop the dispatcher runs on.
type Multiplexer interface {
	Register(src event.Source, interest event.Interest, h event.Handler) error
	Wait() error
	// Wake must be safe to call from another goroutine.
	Wake() error
	Close() error
}

// Timer is a periodic, pollable timer.
type Timer interface {
	event.Source
	Consume() (uint64, error)
	Rearm(period time.Duration) error
	Close() error
}

// Platform creates the resources the dispatcher owns.
type Platform interface {
	NewMultiplexer() (Multiplexer, error)
	NewTimer(period time.Duration) (Timer, error)
	OpenInput() (gpio.Input, error)
	OpenOutput(initial gpio.Level) (gpio.Output, error)
	OpenDisplay() (display.Display, error)
}

// PressPublisher receives every press. It must not block.
type PressPublisher interface {
	Publish(event logic.PressEvent) error
}

// State is the dispatcher lifecycle state.
type State int32

const (
	Uninitialized State = iota
	Running
	Terminating
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// ReasonFault is the termination reason recorded when a resource fails.
const ReasonFault = "FAULT"

var errState = errors.New("dispatch: invalid state")

// Options configures a Dispatcher.
type Options struct {
	// PollInterval is the button sampling period.
	PollInterval time.Duration
	// Intervals is the blink period table. Index 0 is used at startup.
	// An empty table means logic.DefaultIntervals.
	Intervals logic.IntervalTable
	// SafeLevel turns the output off. The line is opened and left at it.
	SafeLevel gpio.Level
	// Publisher receives presses. Nil disables publishing.
	Publisher PressPublisher
	// Status is reported in snapshots.
	Status status.Config
	// Signals request termination. Nil means SIGINT and SIGTERM.
	Signals []os.Signal

	Logger *zap.SugaredLogger
	Now    func() time.Time
	Sleep  func(time.Duration)
}

type closer struct {
	name  string
	close func() error
}

// Dispatcher runs the poll and blink timers on one multiplexer.
// Run and Teardown must be called from the goroutine that called Initialize.
// RequestTermination is safe from any goroutine until Teardown starts.
type Dispatcher struct {
	platform Platform
	opts     Options
	log      *zap.SugaredLogger

	state     atomic.Int32
	terminate atomic.Bool
	reason    atomic.Pointer[string]
	wake      atomic.Pointer[func() error]

	sigCh   chan os.Signal
	sigDone chan struct{}
	sigWG   sync.WaitGroup

	mux     Multiplexer
	input   gpio.Input
	output  gpio.Output
	poll    Timer
	blink   Timer
	display display.Display

	button  *logic.Button
	blinker *logic.Blinker

	closers []closer
	fault   error
	started time.Time
}

// New creates a dispatcher. Nothing is opened until Initialize.
func New(platform Platform, opts Options) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Intervals.Len() == 0 {
		opts.Intervals, _ = logic.NewIntervalTable(logic.DefaultIntervals...)
	}
	if opts.Signals == nil {
		opts.Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	return &Dispatcher{
		platform: platform,
		opts:     opts,
		log:      opts.Logger,
		button:   logic.NewButton(logic.ReleasedLevel),
	}
}

// State returns the lifecycle state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Terminating reports whether termination was requested.
func (d *Dispatcher) Terminating() bool {
	return d.terminate.Load()
}

// Err returns the first fault that stopped the dispatcher, or nil.
func (d *Dispatcher) Err() error {
	return d.fault
}

// Reason returns why the dispatcher stopped: a signal name, ReasonFault, or
// a caller supplied reason. It is empty while running.
func (d *Dispatcher) Reason() string {
	if r := d.reason.Load(); r != nil {
		return *r
	}
	return ""
}

// RequestTermination sets the termination flag and wakes the loop. Only the
// first reason is kept. It performs no logging.
func (d *Dispatcher) RequestTermination(reason string) {
	d.reason.CompareAndSwap(nil, &reason)
	d.terminate.Store(true)
	if wake := d.wake.Load(); wake != nil {
		_ = (*wake)() //nolint:errcheck // the flag is already set; the loop sees it on the next wakeup.
	}
}

// Initialize opens every resource in order: signal relay, multiplexer, input
// line, poll timer, output line, blink timer, display. On failure it stops at
// the failing step, records the fault and requests termination. Teardown
// releases whatever was opened.
func (d *Dispatcher) Initialize() error {
	if !d.state.CompareAndSwap(int32(Uninitialized), int32(Running)) {
		return fmt.Errorf("%w: initialize in state %s", errState, d.State())
	}
	d.started = d.opts.Now()

	steps := []struct {
		name string
		run  func() error
	}{
		{"install signal relay", d.installSignals},
		{"create multiplexer", d.openMultiplexer},
		{"open input line", d.openInput},
		{"create poll timer", d.openPollTimer},
		{"open output line", d.openOutput},
		{"create blink timer", d.openBlinkTimer},
		{"open display", d.openDisplay},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			err = fmt.Errorf("%s: %w", step.name, err)
			d.setFault(err)
			d.state.Store(int32(Terminating))
			d.log.Errorw("initialization failed", "step", step.name, "error", err)
			return err
		}
		d.log.Debugw("initialized", "step", step.name)
	}

	d.log.Infow("dispatcher ready",
		"poll", d.opts.PollInterval,
		"period", d.blinker.Period(),
		"safe_level", d.opts.SafeLevel,
	)
	return nil
}

func (d *Dispatcher) push(name string, fn func() error) {
	d.closers = append(d.closers, closer{name: name, close: fn})
}

func (d *Dispatcher) installSignals() error {
	d.sigCh = make(chan os.Signal, 1)
	d.sigDone = make(chan struct{})
	signal.Notify(d.sigCh, d.opts.Signals...)

	d.sigWG.Add(1)
	go func() {
		defer d.sigWG.Done()
		select {
		case sig := <-d.sigCh:
			d.RequestTermination(signalName(sig))
		case <-d.sigDone:
		}
	}()
	return nil
}

func (d *Dispatcher) detachSignals() {
	if d.sigCh == nil {
		return
	}
	signal.Stop(d.sigCh)
	close(d.sigDone)
	d.sigWG.Wait()
	d.sigCh = nil
}

func (d *Dispatcher) openMultiplexer() error {
	mux, err := d.platform.NewMultiplexer()
	if err != nil {
		return err
	}
	d.mux = mux
	d.push("multiplexer", mux.Close)

	wake := mux.Wake
	d.wake.Store(&wake)
	return nil
}

func (d *Dispatcher) openInput() error {
	in, err := d.platform.OpenInput()
	if err != nil {
		return err
	}
	d.input = in
	d.push("input line", in.Close)
	return nil
}

func (d *Dispatcher) openPollTimer() error {
	t, err := d.platform.NewTimer(d.opts.PollInterval)
	if err != nil {
		return err
	}
	d.poll = t
	d.push("poll timer", t.Close)
	return d.mux.Register(t, event.Readable, pollHandler{d})
}

func (d *Dispatcher) openOutput() error {
	out, err := d.platform.OpenOutput(d.opts.SafeLevel)
	if err != nil {
		return err
	}
	d.output = out
	d.push("output line", out.Close)
	return nil
}

func (d *Dispatcher) openBlinkTimer() error {
	t, err := d.platform.NewTimer(d.opts.Intervals.At(0))
	if err != nil {
		return err
	}
	d.blink = t
	d.push("blink timer", t.Close)
	d.blinker = logic.NewBlinker(d.opts.Intervals, d.opts.SafeLevel, t, d.output)
	return d.mux.Register(t, event.Readable, blinkHandler{d})
}

func (d *Dispatcher) openDisplay() error {
	disp, err := d.platform.OpenDisplay()
	if err != nil {
		return err
	}
	d.display = disp
	d.push("display", disp.Close)

	if err := display.ShowBanner(disp, d.opts.Sleep); err != nil {
		d.log.Warnw("display banner failed", "error", err)
	}
	return nil
}

// Run services readiness until termination is requested or the multiplexer
// fails. It returns immediately if Initialize failed.
func (d *Dispatcher) Run() {
	if d.State() != Running {
		return
	}

	for !d.terminate.Load() {
		if err := d.mux.Wait(); err != nil {
			d.setFault(err)
			d.log.Errorw("dispatch stopped", "error", err)
		}
	}

	d.state.CompareAndSwap(int32(Running), int32(Terminating))
	d.log.Infow("dispatch loop exited", "reason", d.Reason())
}

// Teardown drives the output to its safe level and closes every opened
// resource in reverse order. Close failures are logged, not returned.
// Calling it again is a no-op.
func (d *Dispatcher) Teardown() {
	if d.State() == Closed {
		return
	}
	d.terminate.Store(true)
	d.detachSignals()
	d.wake.Store(nil)

	if d.output != nil {
		if err := d.output.Write(d.opts.SafeLevel); err != nil {
			d.log.Errorw("set output to safe level", "level", d.opts.SafeLevel, "error", err)
		}
	}

	for i := len(d.closers) - 1; i >= 0; i-- {
		c := d.closers[i]
		if err := c.close(); err != nil {
			d.log.Errorw("close failed", "resource", c.name, "error", err)
		}
	}
	d.closers = nil
	d.state.Store(int32(Closed))
	d.log.Debugw("teardown complete")
}

// setFault records err as the first fault and requests termination.
func (d *Dispatcher) setFault(err error) {
	if d.fault == nil {
		d.fault = err
	}
	d.RequestTermination(ReasonFault)
}

// Snapshot returns the current blink state for lifecycle reports.
func (d *Dispatcher) Snapshot() status.Snapshot {
	snap := status.Snapshot{
		Output:    d.opts.SafeLevel,
		Button:    d.button.Level(),
		Presses:   d.button.Presses(),
		Period:    d.opts.Intervals.At(0),
		StartTime: d.started,
		Now:       d.opts.Now(),
		Config:    d.opts.Status,
	}
	if d.blinker != nil {
		snap.Index = d.blinker.Index()
		snap.Period = d.blinker.Period()
		snap.Toggles = d.blinker.Toggles()
		snap.Output = d.blinker.Level()
	}
	if d.State() == Closed {
		snap.Output = d.opts.SafeLevel
	}
	return snap
}

func signalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return sig.String()
}
