package mqtt

import "testing"

func msg(topic string) message {
	return message{topic: topic, payload: []byte(topic)}
}

func TestOutbox_FlushEmpty(t *testing.T) {
	o := newOutbox(3)
	if got := o.flush(); got != nil {
		t.Errorf("flush() = %v, want nil", got)
	}
}

func TestOutbox_KeepsOrder(t *testing.T) {
	o := newOutbox(3)
	o.add(msg("a"))
	o.add(msg("b"))

	got := o.flush()
	if len(got) != 2 || got[0].topic != "a" || got[1].topic != "b" {
		t.Fatalf("flush() = %v", got)
	}
	if o.len() != 0 {
		t.Errorf("len after flush = %d", o.len())
	}
}

func TestOutbox_OverwritesOldest(t *testing.T) {
	o := newOutbox(3)
	for _, topic := range []string{"a", "b", "c"} {
		if o.add(msg(topic)) {
			t.Fatalf("add(%s) dropped before full", topic)
		}
	}
	if !o.add(msg("d")) {
		t.Fatal("add on full outbox should report a drop")
	}
	if o.dropped != 1 {
		t.Errorf("dropped = %d, want 1", o.dropped)
	}

	got := o.flush()
	want := []string{"b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("flush() len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].topic != w {
			t.Errorf("flush()[%d] = %s, want %s", i, got[i].topic, w)
		}
	}
	if o.dropped != 0 {
		t.Errorf("dropped after flush = %d", o.dropped)
	}
}

func TestOutbox_ReusableAfterFlush(t *testing.T) {
	o := newOutbox(2)
	o.add(msg("a"))
	o.add(msg("b"))
	o.add(msg("c"))
	o.flush()

	o.add(msg("x"))
	got := o.flush()
	if len(got) != 1 || got[0].topic != "x" {
		t.Errorf("flush() = %v", got)
	}
}
