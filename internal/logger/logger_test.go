package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("log line %q is not JSON: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelInfo, &buf)
	log.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool
	}{
		{"info message", LevelInfo, "fetched page", Fields{"page": 1}, nil, true},
		{"debug below threshold", LevelDebug, "debug message", nil, nil, false},
		{"error with err", LevelError, "page failed", nil, errors.New("connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			log.log(tt.level, tt.message, tt.fields, tt.err)

			if logged := buf.Len() > 0; logged != tt.want {
				t.Fatalf("logged = %v, want %v", logged, tt.want)
			}
			if !tt.want {
				return
			}

			entries := decodeLines(t, &buf)
			if len(entries) != 1 {
				t.Fatalf("got %d lines, want 1", len(entries))
			}
			e := entries[0]
			if e.Message != tt.message || e.Level != tt.level.String() {
				t.Errorf("entry = %+v, want message %q level %s", e, tt.message, tt.level)
			}
			if e.Timestamp != "2025-03-01T12:00:00Z" {
				t.Errorf("Timestamp = %q", e.Timestamp)
			}
			if tt.err != nil && e.Error != tt.err.Error() {
				t.Errorf("Error = %q, want %q", e.Error, tt.err.Error())
			}
		})
	}
}

func TestLogger_Enabled(t *testing.T) {
	tests := []struct {
		name string
		min  Level
		at   Level
		want bool
	}{
		{"debug at debug", LevelDebug, LevelDebug, true},
		{"info at debug", LevelDebug, LevelInfo, true},
		{"debug at info", LevelInfo, LevelDebug, false},
		{"info at warn", LevelWarn, LevelInfo, false},
		{"error at warn", LevelWarn, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.min, io.Discard).Enabled(tt.at); got != tt.want {
				t.Errorf("Enabled(%s) with min %s = %v, want %v", tt.at, tt.min, got, tt.want)
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelDebug, &buf)

	api := root.With("api", Fields{"base_url": "http://x", "page": 0})
	api.Debug("fetched", Fields{"page": 2})
	root.Info("plain", nil)

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d lines, want 2", len(entries))
	}

	e := entries[0]
	if e.Component != "api" {
		t.Errorf("Component = %q, want api", e.Component)
	}
	if e.Fields["base_url"] != "http://x" {
		t.Errorf("base field missing: %v", e.Fields)
	}
	// JSON numbers decode as float64.
	if e.Fields["page"] != float64(2) {
		t.Errorf("page = %v, per-call field should win", e.Fields["page"])
	}

	if entries[1].Component != "" || len(entries[1].Fields) != 0 {
		t.Errorf("parent logger picked up child state: %+v", entries[1])
	}
}

func TestLogger_WithKeepsComponent(t *testing.T) {
	var buf bytes.Buffer
	child := New(LevelDebug, &buf).With("bookmarks", nil).With("", Fields{"id": "7"})
	child.Warn("corrupt", nil)

	e := decodeLines(t, &buf)[0]
	if e.Component != "bookmarks" || e.Fields["id"] != "7" {
		t.Errorf("entry = %+v", e)
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" {
		t.Errorf("LevelWarn = %q", LevelWarn.String())
	}
	if got := Level(9).String(); got != "LEVEL(9)" {
		t.Errorf("Level(9) = %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelWarn, true},
		{"", LevelWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(LevelDebug, &buf))

	Info("bookmark toggled", Fields{"id": "42"})
	With("tui", nil).Debug("key", nil)

	entries := decodeLines(t, &buf)
	if len(entries) != 2 || entries[0].Message != "bookmark toggled" || entries[1].Component != "tui" {
		t.Errorf("default logger output = %q", buf.String())
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)
	SetDefault(New(LevelDebug, io.Discard))

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("api.pages_fetched")
	m.IncrCounter("api.pages_fetched")
	m.AddCounter("api.pages_fetched", 3)

	if got := m.Snapshot().Counters["api.pages_fetched"]; got != 5 {
		t.Errorf("Counter = %v, want 5", got)
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("api.records", 100)
	m.SetGauge("api.records", 250)

	if got := m.Snapshot().Gauges["api.records"]; got != 250 {
		t.Errorf("Gauge = %v, want 250", got)
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	for _, d := range []time.Duration{200, 100, 150} {
		m.RecordTiming("api.page", d*time.Millisecond)
	}

	stats := m.Snapshot().Timings["api.page"]
	want := TimingStats{
		Count:   3,
		Total:   450 * time.Millisecond,
		Average: 150 * time.Millisecond,
		Min:     100 * time.Millisecond,
		Max:     200 * time.Millisecond,
	}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestMetrics_StartTimer(t *testing.T) {
	m := NewMetrics()

	stop := m.StartTimer("api.fetch_all")
	stop()

	if got := m.Snapshot().Timings["api.fetch_all"].Count; got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	m := NewMetrics()
	m.RecordTiming("t", time.Second)
	snap := m.Snapshot()

	m.RecordTiming("t", time.Second)
	m.IncrCounter("c")

	if snap.Timings["t"].Count != 1 || len(snap.Counters) != 0 {
		t.Errorf("snapshot changed after later writes: %+v", snap)
	}
	if got := strings.Join(m.Snapshot().Names(), ","); got != "c,t" {
		t.Errorf("Names() = %q, want c,t", got)
	}
}

func TestDefaultMetrics(t *testing.T) {
	IncrCounter("test.counter")
	AddCounter("test.counter", 2)
	SetGauge("test.gauge", 42)
	RecordTiming("test.timing", time.Second)
	StartTimer("test.timing")()

	snap := MetricsSnapshot()
	if snap.Counters["test.counter"] < 3 || snap.Gauges["test.gauge"] != 42 || snap.Timings["test.timing"].Count < 2 {
		t.Errorf("MetricsSnapshot() = %+v", snap)
	}
}

func TestSnapshot_NamesDedupes(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("api.page")
	m.RecordTiming("api.page", time.Millisecond)
	m.SetGauge("api.records", 3)

	if got := strings.Join(m.Snapshot().Names(), ","); got != "api.page,api.records" {
		t.Errorf("Names() = %q, want api.page,api.records", got)
	}
}
