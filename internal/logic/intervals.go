package logic

import (
	"errors"
	"fmt"
	"time"
)

// DefaultIntervals is the blink period table of the reference application.
var DefaultIntervals = []time.Duration{
	125 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
}

var errEmptyTable = errors.New("interval table is empty")

// IntervalTable is an immutable, ordered list of blink periods indexed cyclically.
type IntervalTable struct {
	intervals []time.Duration
}

// NewIntervalTable copies intervals into a table. It rejects an empty list and
// non-positive periods.
func NewIntervalTable(intervals ...time.Duration) (IntervalTable, error) {
	if len(intervals) == 0 {
		return IntervalTable{}, errEmptyTable
	}
	for i, d := range intervals {
		if d <= 0 {
			return IntervalTable{}, fmt.Errorf("interval %d: period must be positive, got %v", i, d)
		}
	}

	cp := make([]time.Duration, len(intervals))
	copy(cp, intervals)
	return IntervalTable{intervals: cp}, nil
}

// Len returns the number of periods.
func (t IntervalTable) Len() int {
	return len(t.intervals)
}

// At returns the period at index i, wrapped into range.
func (t IntervalTable) At(i int) time.Duration {
	return t.intervals[t.wrap(i)]
}

// Next returns the index following i, wrapping to zero after the last entry.
func (t IntervalTable) Next(i int) int {
	return t.wrap(i + 1)
}

// Intervals returns a copy of the periods.
func (t IntervalTable) Intervals() []time.Duration {
	cp := make([]time.Duration, len(t.intervals))
	copy(cp, t.intervals)
	return cp
}

func (t IntervalTable) wrap(i int) int {
	n := len(t.intervals)
	return ((i % n) + n) % n
}
