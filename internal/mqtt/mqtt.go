// Package mqtt publishes button presses and daemon lifecycle events, with an
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/blinkd/internal/logic"
)

// Topic is the MQTT topic for press events.
const Topic = "devices/blinkd/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "devices/blinkd/system"

// EventPress is the event name carried by press payloads.
const EventPress = "PRESS"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a press event. It must not block the caller on the network.
	Publish(event logic.PressEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// SystemEvent represents a system lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "OFFLINE"
	Reason     string // e.g., "SIGTERM", "FAULT"
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Payload represents the MQTT message payload for a press.
type Payload struct {
	Blink BlinkPayload `json:"blink"`
}

// BlinkPayload contains the press details.
type BlinkPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Presses   int    `json:"presses"`
	Index     int    `json:"index"`
	PeriodMs  int64  `json:"period_ms"`
}

// FormatPayload creates the JSON payload for a press event.
func FormatPayload(event logic.PressEvent) ([]byte, error) {
	return json.Marshal(Payload{
		Blink: BlinkPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     EventPress,
			Presses:   event.Presses,
			Index:     event.Index,
			PeriodMs:  event.Period.Milliseconds(),
		},
	})
}

// SystemPayload represents the payload for system events without a status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{
		Event:  event.Event,
		Reason: event.Reason,
	}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}

// Discard is a Publisher that drops everything. It is used when no broker is configured.
type Discard struct{}

// Publish drops event.
func (Discard) Publish(logic.PressEvent) error { return nil }

// PublishSystem drops event.
func (Discard) PublishSystem(SystemEvent) error { return nil }

// Close does nothing.
func (Discard) Close() error { return nil }
