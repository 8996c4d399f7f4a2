package logic

import (
	"fmt"
	"time"

	"github.com/sweeney/blinkd/internal/gpio"
)

// Blinker owns the blink period index and the output level.
type Blinker struct {
	table   IntervalTable
	index   int
	level   gpio.Level
	toggles int

	timer Rearmer
	out   LevelWriter
}

// NewBlinker creates a Blinker at index 0. initial is the level the output
// line was opened with.
func NewBlinker(table IntervalTable, initial gpio.Level, timer Rearmer, out LevelWriter) *Blinker {
	return &Blinker{
		table: table,
		level: initial,
		timer: timer,
		out:   out,
	}
}

// Advance moves to the next period in the table and rearms the blink timer.
func (b *Blinker) Advance() error {
	b.index = b.table.Next(b.index)
	period := b.table.At(b.index)
	if err := b.timer.Rearm(period); err != nil {
		return fmt.Errorf("rearm blink timer to %v: %w", period, err)
	}
	return nil
}

// Tick toggles the output once. A write failure is returned without retry.
func (b *Blinker) Tick() error {
	b.level = b.level.Toggle()
	if err := b.out.Write(b.level); err != nil {
		return fmt.Errorf("set LED %v: %w", b.level, err)
	}
	b.toggles++
	return nil
}

// Index returns the current table index.
func (b *Blinker) Index() int {
	return b.index
}

// Period returns the period at the current index.
func (b *Blinker) Period() time.Duration {
	return b.table.At(b.index)
}

// Level returns the stored output level.
func (b *Blinker) Level() gpio.Level {
	return b.level
}

// Toggles returns the number of successful output writes.
func (b *Blinker) Toggles() int {
	return b.toggles
}
