package mqtt

// message is a serialized publish kept for replay after reconnection.
type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox keeps the newest messages while the broker is unreachable.
// Not safe for concurrent use; RealPublisher guards it.
type outbox struct {
	slots   []message
	next    int // next write position
	count   int
	dropped int // messages overwritten since the last flush
}

func newOutbox(capacity int) *outbox {
	return &outbox{slots: make([]message, capacity)}
}

// add stores msg, overwriting the oldest entry when full. It reports whether
// an entry was dropped.
func (o *outbox) add(msg message) bool {
	full := o.count == len(o.slots)
	o.slots[o.next] = msg
	o.next = (o.next + 1) % len(o.slots)
	if full {
		o.dropped++
		return true
	}
	o.count++
	return false
}

// flush returns the stored messages oldest first and empties the outbox.
func (o *outbox) flush() []message {
	if o.count == 0 {
		return nil
	}

	out := make([]message, o.count)
	oldest := (o.next - o.count + len(o.slots)) % len(o.slots)
	for i := range out {
		out[i] = o.slots[(oldest+i)%len(o.slots)]
	}

	o.next, o.count, o.dropped = 0, 0, 0
	return out
}

func (o *outbox) len() int {
	return o.count
}
