//go:build linux

package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestMultiplexer(t *testing.T) *Multiplexer {
	t.Helper()
	m, err := NewMultiplexer()
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestTimerFiresThroughWait(t *testing.T) {
	m := newTestMultiplexer(t)

	var tm *Timer
	fired := 0
	tm, err := NewRegisteredTimer(m, 5*time.Millisecond, HandlerFunc(func() error {
		n, err := tm.Consume()
		if err != nil {
			return err
		}
		if n > 0 {
			fired++
		}
		return nil
	}))
	require.NoError(t, err)
	defer tm.Close()

	for fired < 3 {
		require.NoError(t, m.Wait())
	}
	require.Equal(t, 3, fired)
}

func TestTimerRearm(t *testing.T) {
	tm, err := NewTimer(time.Hour)
	require.NoError(t, err)
	defer tm.Close()

	require.Equal(t, time.Hour, tm.Period())

	n, err := tm.Consume()
	require.NoError(t, err)
	require.Zero(t, n, "no expiration should be pending yet")

	require.NoError(t, tm.Rearm(time.Millisecond))
	require.Equal(t, time.Millisecond, tm.Period())

	time.Sleep(20 * time.Millisecond)
	n, err = tm.Consume()
	require.NoError(t, err)
	require.NotZero(t, n)

	require.ErrorIs(t, tm.Rearm(0), ErrTimer)
	require.Equal(t, time.Millisecond, tm.Period())
}

func TestNewTimerRejectsInvalidPeriod(t *testing.T) {
	_, err := NewTimer(-time.Second)
	require.ErrorIs(t, err, ErrTimer)
}

func TestRegisterRejectsDuplicateAndInvalid(t *testing.T) {
	m := newTestMultiplexer(t)

	tm, err := NewTimer(time.Hour)
	require.NoError(t, err)
	defer tm.Close()

	h := HandlerFunc(func() error { return nil })
	require.NoError(t, m.Register(tm, Readable, h))
	require.ErrorIs(t, m.Register(tm, Readable, h), ErrRegistration)
	require.ErrorIs(t, m.Register(fdSource(-1), Readable, h), ErrRegistration)
	require.ErrorIs(t, m.Register(tm, 0, h), ErrRegistration)

	require.NoError(t, m.Deregister(tm))
	require.ErrorIs(t, m.Deregister(tm), ErrRegistration)
	require.NoError(t, m.Register(tm, Readable, h))
}

func TestWakeUnblocksWait(t *testing.T) {
	m := newTestMultiplexer(t)

	require.NoError(t, m.Wake())

	done := make(chan error, 1)
	go func() { done <- m.Wait() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Wake")
	}
}

func TestWaitStopsBatchOnHandlerError(t *testing.T) {
	m := newTestMultiplexer(t)

	calls := 0
	failing := func(tm **Timer) Handler {
		return HandlerFunc(func() error {
			calls++
			_, _ = (*tm).Consume()
			return ErrTimer
		})
	}

	var first, second *Timer
	first, err := NewRegisteredTimer(m, time.Millisecond, failing(&first))
	require.NoError(t, err)
	defer first.Close()
	second, err = NewRegisteredTimer(m, time.Millisecond, failing(&second))
	require.NoError(t, err)
	defer second.Close()

	// Both timers are ready before Wait runs.
	time.Sleep(20 * time.Millisecond)

	require.ErrorIs(t, m.Wait(), ErrTimer)
	require.Equal(t, 1, calls, "handlers after the failing one must not run")

	require.ErrorIs(t, m.Wait(), ErrTimer)
	require.Equal(t, 2, calls)
}

func TestCloseTwice(t *testing.T) {
	m, err := NewMultiplexer()
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Close(), ErrResource)
	require.ErrorIs(t, m.Wait(), ErrResource)
	require.ErrorIs(t, m.Register(fdSource(3), Readable, HandlerFunc(func() error { return nil })), ErrRegistration)
}
