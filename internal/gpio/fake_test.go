package gpio

import (
	"errors"
	"testing"
)

func TestFakeInputRead(t *testing.T) {
	f := NewFakeInput(High, Low, High)

	want := []Level{High, Low, High, High} // last level repeats
	for i, w := range want {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: expected %v, got %v", i, w, got)
		}
	}
	if f.Reads != 4 {
		t.Errorf("expected 4 reads, got %d", f.Reads)
	}
}

func TestFakeInputNoLevels(t *testing.T) {
	f := NewFakeInput()

	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != High {
		t.Errorf("expected idle High, got %v", got)
	}
}

func TestFakeInputError(t *testing.T) {
	f := NewFakeInput(High)
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeInputFailAt(t *testing.T) {
	f := NewFakeInput(High)
	f.FailAt = 2

	if _, err := f.Read(); err != nil {
		t.Fatalf("read 1: unexpected error: %v", err)
	}
	_, err := f.Read()
	if !errors.Is(err, ErrHardware) {
		t.Fatalf("read 2: expected ErrHardware, got %v", err)
	}
	if _, err := f.Read(); err != nil {
		t.Fatalf("read 3: unexpected error: %v", err)
	}
}

func TestFakeOutputWrite(t *testing.T) {
	f := NewFakeOutput(High)

	if f.Level() != High {
		t.Errorf("expected initial High, got %v", f.Level())
	}

	f.Write(Low)
	f.Write(High)
	f.Write(Low)

	if len(f.Writes) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(f.Writes))
	}
	if f.Level() != Low {
		t.Errorf("expected Low, got %v", f.Level())
	}

	f.WriteError = errors.New("bus fault")
	if err := f.Write(High); err == nil {
		t.Error("expected write error")
	}
	if len(f.Writes) != 3 {
		t.Errorf("failed write must not be recorded, got %d writes", len(f.Writes))
	}
}

func TestFakeClose(t *testing.T) {
	in := NewFakeInput()
	out := NewFakeOutput(Low)

	if err := in.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if in.Closes != 1 || out.Closes != 1 {
		t.Errorf("expected one close each, got input=%d output=%d", in.Closes, out.Closes)
	}
}

func TestLevelToggle(t *testing.T) {
	if Low.Toggle() != High {
		t.Error("Low should toggle to High")
	}
	if High.Toggle() != Low {
		t.Error("High should toggle to Low")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"low", Low, true},
		{"HIGH", High, true},
		{" high ", High, true},
		{"1", High, true},
		{"0", Low, true},
		{"off", Low, false},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.ok && err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
