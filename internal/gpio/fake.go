package gpio

import "fmt"

// FakeInput is a test double that returns scripted levels.
type FakeInput struct {
	// Levels contains scripted values to return.
	// Each call to Read() consumes the next level.
	Levels []Level

	// index tracks current position in Levels
	index int

	// Reads counts calls to Read
	Reads int

	// Closes counts calls to Close
	Closes int

	// ReadError, if set, will be returned by Read()
	ReadError error

	// FailAt, if > 0, makes the FailAt-th call to Read() fail with ErrHardware.
	FailAt int

	// CloseError, if set, will be returned by Close()
	CloseError error
}

// NewFakeInput creates a FakeInput with the given levels.
func NewFakeInput(levels ...Level) *FakeInput {
	return &FakeInput{Levels: levels}
}

// Read returns the next scripted level.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakeInput) Read() (Level, error) {
	f.Reads++
	if f.ReadError != nil {
		return Low, f.ReadError
	}
	if f.FailAt > 0 && f.Reads == f.FailAt {
		return Low, fmt.Errorf("%w: scripted read failure", ErrHardware)
	}

	if len(f.Levels) == 0 {
		return High, nil
	}

	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}

	return level, nil
}

// Close records the close.
func (f *FakeInput) Close() error {
	f.Closes++
	return f.CloseError
}

// FakeOutput records written levels.
type FakeOutput struct {
	// Initial is the level the line was opened with.
	Initial Level

	// Writes contains every level passed to Write, in order.
	Writes []Level

	// WriteError, if set, will be returned by Write().
	WriteError error

	// Closes counts calls to Close
	Closes int

	// CloseError, if set, will be returned by Close()
	CloseError error
}

// NewFakeOutput creates a FakeOutput opened at initial.
func NewFakeOutput(initial Level) *FakeOutput {
	return &FakeOutput{Initial: initial}
}

// Write records level.
func (f *FakeOutput) Write(level Level) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, level)
	return nil
}

// Level returns the last written level, or the initial level.
func (f *FakeOutput) Level() Level {
	if len(f.Writes) == 0 {
		return f.Initial
	}
	return f.Writes[len(f.Writes)-1]
}

// Close records the close.
func (f *FakeOutput) Close() error {
	f.Closes++
	return f.CloseError
}
