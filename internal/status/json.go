package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Index         int        `json:"index"`
	PeriodMs      int64      `json:"period_ms"`
	Presses       int        `json:"presses"`
	Toggles       int        `json:"toggles"`
	LED           string     `json:"led"`
	Button        string     `json:"button"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Config        ConfigJSON `json:"config"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64   `json:"poll_ms"`
	IntervalsMs []int64 `json:"intervals_ms"`
	Broker      string  `json:"broker,omitempty"`
	Display     bool    `json:"display"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Index:         snap.Index,
		PeriodMs:      snap.Period.Milliseconds(),
		Presses:       snap.Presses,
		Toggles:       snap.Toggles,
		LED:           snap.Output.String(),
		Button:        snap.Button.String(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			IntervalsMs: snap.Config.IntervalsMs,
			Broker:      snap.Config.Broker,
			Display:     snap.Config.Display,
		},
	}
}

// FormatJSON returns the indented JSON status (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
