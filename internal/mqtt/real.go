package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/sweeney/blinkd/internal/logic"
)

// outboxCapacity bounds how many presses are kept while disconnected.
const outboxCapacity = 64

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
	log    *zap.SugaredLogger

	mu     sync.Mutex
	outbox *outbox
}

// NewRealPublisher creates a publisher connected to the given broker.
// The broker keeps a retained OFFLINE message as last will.
func NewRealPublisher(broker, clientID string, log *zap.SugaredLogger) (*RealPublisher, error) {
	p := &RealPublisher{
		log:    log,
		outbox: newOutbox(outboxCapacity),
	}

	will, err := FormatSystemPayload(SystemEvent{Event: "OFFLINE"})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) { p.replay() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warnw("mqtt connection lost", "error", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish queues a press event. It never waits for the broker: while
// disconnected the payload goes to the outbox and is replayed on reconnect.
func (p *RealPublisher) Publish(event logic.PressEvent) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	msg := message{topic: Topic, payload: payload}

	// The check and the add share the lock with replay, so a press is either
	// sent directly or buffered before the reconnect flush.
	p.mu.Lock()
	if !p.client.IsConnectionOpen() {
		dropped := p.outbox.add(msg)
		p.mu.Unlock()
		if dropped {
			p.log.Warnw("mqtt outbox full, dropping oldest", "capacity", outboxCapacity)
		}
		return nil
	}
	p.mu.Unlock()

	// QoS 0 (at-most-once), not retained
	p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	return nil
}

func (p *RealPublisher) replay() {
	p.mu.Lock()
	dropped := p.outbox.dropped
	msgs := p.outbox.flush()
	p.mu.Unlock()

	for _, m := range msgs {
		p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
	if len(msgs) > 0 {
		p.log.Infow("mqtt replayed buffered events", "count", len(msgs), "dropped", dropped)
	}
}

// PublishSystem sends a system lifecycle event and waits for delivery.
// It is only called outside the dispatch loop.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
