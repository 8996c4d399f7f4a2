package dispatch

import (
	"errors"
	"time"

	"github.com/sweeney/blinkd/internal/display"
	"github.com/sweeney/blinkd/internal/event"
	"github.com/sweeney/blinkd/internal/gpio"
)

const (
	pollFd  = 10
	blinkFd = 11
)

var errBoom = errors.New("boom")

// testPlatform hands out fakes and records the order resources are closed in.
type testPlatform struct {
	mux     *event.FakeMultiplexer
	input   *gpio.FakeInput
	output  *gpio.FakeOutput
	timers  []*event.FakeTimer
	display *testDisplay

	muxErr, inputErr, outputErr, displayErr error
	timerErr                                 []error // per NewTimer call

	closed []string
}

func newTestPlatform(levels ...gpio.Level) *testPlatform {
	return &testPlatform{
		mux:     event.NewFakeMultiplexer(),
		input:   gpio.NewFakeInput(levels...),
		display: &testDisplay{},
	}
}

func (p *testPlatform) record(name string) { p.closed = append(p.closed, name) }

func (p *testPlatform) NewMultiplexer() (Multiplexer, error) {
	if p.muxErr != nil {
		return nil, p.muxErr
	}
	return orderedMux{p.mux, p}, nil
}

func (p *testPlatform) NewTimer(period time.Duration) (Timer, error) {
	i := len(p.timers)
	if i < len(p.timerErr) && p.timerErr[i] != nil {
		return nil, p.timerErr[i]
	}
	t := event.NewFakeTimer(pollFd+i, period)
	p.timers = append(p.timers, t)
	name := "poll timer"
	if i == 1 {
		name = "blink timer"
	}
	return orderedTimer{t, name, p}, nil
}

func (p *testPlatform) OpenInput() (gpio.Input, error) {
	if p.inputErr != nil {
		return nil, p.inputErr
	}
	return orderedInput{p.input, p}, nil
}

func (p *testPlatform) OpenOutput(initial gpio.Level) (gpio.Output, error) {
	if p.outputErr != nil {
		return nil, p.outputErr
	}
	p.output = gpio.NewFakeOutput(initial)
	return orderedOutput{p.output, p}, nil
}

func (p *testPlatform) OpenDisplay() (display.Display, error) {
	if p.displayErr != nil {
		return nil, p.displayErr
	}
	p.display.p = p
	return p.display, nil
}

func (p *testPlatform) pollTimer() *event.FakeTimer  { return p.timers[0] }
func (p *testPlatform) blinkTimer() *event.FakeTimer { return p.timers[1] }

type orderedMux struct {
	*event.FakeMultiplexer
	p *testPlatform
}

func (m orderedMux) Close() error {
	m.p.record("multiplexer")
	return m.FakeMultiplexer.Close()
}

type orderedTimer struct {
	*event.FakeTimer
	name string
	p    *testPlatform
}

func (t orderedTimer) Close() error {
	t.p.record(t.name)
	return t.FakeTimer.Close()
}

type orderedInput struct {
	*gpio.FakeInput
	p *testPlatform
}

func (i orderedInput) Close() error {
	i.p.record("input line")
	return i.FakeInput.Close()
}

type orderedOutput struct {
	*gpio.FakeOutput
	p *testPlatform
}

func (o orderedOutput) Close() error {
	o.p.record("output line")
	return o.FakeOutput.Close()
}

// testDisplay counts banners and press screens.
type testDisplay struct {
	display.Discard
	p *testPlatform

	banners, presses int
	err              error
}

func (d *testDisplay) SetInverse() error {
	d.banners++
	return d.err
}

func (d *testDisplay) ClearDisplay() error {
	d.presses++
	return d.err
}

func (d *testDisplay) Close() error {
	d.p.record("display")
	return nil
}
