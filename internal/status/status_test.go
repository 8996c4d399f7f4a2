package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/blinkd/internal/gpio"
)

func testSnapshot() Snapshot {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return Snapshot{
		Index:     1,
		Period:    250 * time.Millisecond,
		Presses:   4,
		Toggles:   17,
		Output:    gpio.High,
		Button:    gpio.Low,
		StartTime: start,
		Now:       start.Add(90*time.Second + 400*time.Millisecond),
		Config: NewConfig(time.Millisecond,
			[]time.Duration{125 * time.Millisecond, 250 * time.Millisecond, 500 * time.Millisecond},
			"tcp://localhost:1883", true),
	}
}

func TestUptime(t *testing.T) {
	snap := testSnapshot()
	if got := snap.Uptime(); got != 90*time.Second+400*time.Millisecond {
		t.Errorf("Uptime: got %v", got)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(time.Millisecond, []time.Duration{125 * time.Millisecond, time.Second}, "", false)

	if cfg.PollMs != 1 {
		t.Errorf("PollMs: got %d, want 1", cfg.PollMs)
	}
	if len(cfg.IntervalsMs) != 2 || cfg.IntervalsMs[0] != 125 || cfg.IntervalsMs[1] != 1000 {
		t.Errorf("IntervalsMs: got %v", cfg.IntervalsMs)
	}
}

func TestFormatJSON(t *testing.T) {
	data := FormatJSON(testSnapshot())

	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := sj.Status
	if s.Event != "" || s.Reason != "" {
		t.Errorf("expected no event/reason, got %q/%q", s.Event, s.Reason)
	}
	if s.Index != 1 {
		t.Errorf("Index: got %d, want 1", s.Index)
	}
	if s.PeriodMs != 250 {
		t.Errorf("PeriodMs: got %d, want 250", s.PeriodMs)
	}
	if s.Presses != 4 || s.Toggles != 17 {
		t.Errorf("counts: got presses=%d toggles=%d", s.Presses, s.Toggles)
	}
	if s.LED != "HIGH" || s.Button != "LOW" {
		t.Errorf("levels: got led=%s button=%s", s.LED, s.Button)
	}
	if s.UptimeSeconds != 90 {
		t.Errorf("UptimeSeconds: got %d, want 90", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T12:00:00Z" {
		t.Errorf("StartTime: got %s", s.StartTime)
	}
	if !s.Config.Display || s.Config.PollMs != 1 || len(s.Config.IntervalsMs) != 3 {
		t.Errorf("Config: got %+v", s.Config)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	data := FormatStatusEvent(testSnapshot(), "SHUTDOWN", "SIGTERM")

	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q", sj.Status.Event)
	}
	if sj.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q", sj.Status.Reason)
	}
}

func TestFormatStatusEventOmitsEmptyReason(t *testing.T) {
	snap := testSnapshot()
	snap.Config.Broker = ""
	data := FormatStatusEvent(snap, "STARTUP", "")

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["status"]["reason"]; ok {
		t.Error("reason should be omitted when empty")
	}
	cfg := raw["status"]["config"].(map[string]any)
	if _, ok := cfg["broker"]; ok {
		t.Error("broker should be omitted when empty")
	}
}
