package mqtt

import (
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stubClient is a paho client whose connection state is set by the test.
// Methods the publisher does not call are left to the nil embedded interface.
type stubClient struct {
	paho.Client

	mu        sync.Mutex
	open      bool
	published []string
}

func (c *stubClient) IsConnectionOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *stubClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, topic+" "+string(payload.([]byte)))
	return nil
}

func (c *stubClient) setOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = open
}

func newStubPublisher(t *testing.T, client *stubClient) *RealPublisher {
	t.Helper()

	return &RealPublisher{
		client: client,
		log:    zaptest.NewLogger(t).Sugar(),
		outbox: newOutbox(2),
	}
}

func TestRealPublisherBuffersWhileOffline(t *testing.T) {
	client := &stubClient{}
	p := newStubPublisher(t, client)
	now := time.Now()

	for i := 1; i <= 3; i++ {
		ev := pressAt(now)
		ev.Presses = i
		require.NoError(t, p.Publish(ev))
	}
	require.Empty(t, client.published)
	require.Equal(t, 2, p.outbox.len())
	require.Equal(t, 1, p.outbox.dropped)

	client.setOpen(true)
	p.replay()

	require.Len(t, client.published, 2)
	require.Contains(t, client.published[0], `"presses":2`)
	require.Contains(t, client.published[1], `"presses":3`)
	require.Zero(t, p.outbox.len())
	require.Zero(t, p.outbox.dropped)
}

func TestRealPublisherSendsWhenConnected(t *testing.T) {
	client := &stubClient{open: true}
	p := newStubPublisher(t, client)

	require.NoError(t, p.Publish(pressAt(time.Now())))
	require.Len(t, client.published, 1)
	require.Zero(t, p.outbox.len())
}

func TestRealPublisherNoPressLostAcrossReconnect(t *testing.T) {
	client := &stubClient{}
	p := newStubPublisher(t, client)
	p.outbox = newOutbox(outboxCapacity)

	const presses = 50
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < presses; i++ {
			_ = p.Publish(pressAt(time.Now()))
		}
	}()

	client.setOpen(true)
	p.replay()
	wg.Wait()

	// Presses buffered before the connection opened go out with the next flush.
	p.replay()
	require.Len(t, client.published, presses)
}
