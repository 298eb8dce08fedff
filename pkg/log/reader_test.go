package log

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeEvents writes a fixed set of events to a fresh log file and
// returns the path.
func writeEvents(t *testing.T, events []Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "validate.vlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()

	var events []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		events = append(events, e)
	}
}

func sampleEvents() []Event {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Event{
		{Timestamp: base, Severity: SeverityInfo, Rule: "summary", Message: "start"},
		{Timestamp: base.Add(time.Second), Severity: SeverityWarning, Rule: "description-missing", Path: "Vehicle.Cabin", Message: "no description"},
		{Timestamp: base.Add(2 * time.Second), Severity: SeverityError, Rule: "datatype", Path: "Vehicle.Cabin.Door.IsOpen", Message: "bad datatype"},
		{Timestamp: base.Add(3 * time.Second), Severity: SeverityError, Rule: "unit", Path: "Vehicle.Speed", Message: "bad unit"},
	}
}

func TestReaderAllEvents(t *testing.T) {
	path := writeEvents(t, sampleEvents())

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Rule != "summary" || events[3].Rule != "unit" {
		t.Errorf("events out of order: %v, %v", events[0].Rule, events[3].Rule)
	}
}

func TestReaderFilterSeverity(t *testing.T) {
	path := writeEvents(t, sampleEvents())

	min := SeverityError
	reader, err := NewFilteredReader(path, Filter{MinSeverity: &min})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	for _, e := range events {
		if e.Severity != SeverityError {
			t.Errorf("unexpected severity %v", e.Severity)
		}
	}
}

func TestReaderFilterRule(t *testing.T) {
	path := writeEvents(t, sampleEvents())

	reader, err := NewFilteredReader(path, Filter{Rule: "unit"})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Path != "Vehicle.Speed" {
		t.Errorf("Path: got %q, want Vehicle.Speed", events[0].Path)
	}
}

func TestReaderFilterPathPrefix(t *testing.T) {
	path := writeEvents(t, sampleEvents())

	reader, err := NewFilteredReader(path, Filter{PathPrefix: "Vehicle.Cabin"})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestReaderFilterPrefixIsComponentWise(t *testing.T) {
	path := writeEvents(t, []Event{
		{Timestamp: time.Now(), Severity: SeverityError, Rule: "r", Path: "Vehicle.Cabinet", Message: "m"},
	})

	reader, err := NewFilteredReader(path, Filter{PathPrefix: "Vehicle.Cabin"})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	if events := readAll(t, reader); len(events) != 0 {
		t.Errorf("prefix matched across a path component: %v", events)
	}
}

func TestReaderFilterTimeRange(t *testing.T) {
	events := sampleEvents()
	path := writeEvents(t, events)

	start := events[1].Timestamp
	end := events[3].Timestamp
	reader, err := NewFilteredReader(path, Filter{TimeStart: &start, TimeEnd: &end})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	got := readAll(t, reader)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Rule != "description-missing" || got[1].Rule != "datatype" {
		t.Errorf("wrong events in range: %v, %v", got[0].Rule, got[1].Rule)
	}
}

func TestMultiLoggerFansOut(t *testing.T) {
	var a, b captureLogger
	multi := NewMultiLogger(&a, &b)

	multi.Log(Event{Severity: SeverityWarning, Rule: "r", Message: "m"})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("got %d/%d events, want 1/1", len(a.events), len(b.events))
	}
}

func TestSlogAdapterLevels(t *testing.T) {
	var buf strings.Builder
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	adapter.Log(Event{Severity: SeverityError, Rule: "datatype", Path: "Vehicle.Speed", Message: "bad datatype"})

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("output %q missing level=ERROR", out)
	}
	if !strings.Contains(out, "rule=datatype") {
		t.Errorf("output %q missing rule attribute", out)
	}
	if !strings.Contains(out, "path=Vehicle.Speed") {
		t.Errorf("output %q missing path attribute", out)
	}
}

// captureLogger records events for test assertions.
type captureLogger struct {
	events []Event
}

func (c *captureLogger) Log(event Event) {
	c.events = append(c.events, event)
}
