package log

import (
	"strings"
	"testing"
	"time"
)

func TestSeverityString(t *testing.T) {
	cases := []struct {
		severity Severity
		want     string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.severity.String(); got != c.want {
			t.Errorf("Severity(%d).String(): got %q, want %q", c.severity, got, c.want)
		}
	}
}

func TestEventString(t *testing.T) {
	e := Event{
		Severity: SeverityError,
		Rule:     "datatype",
		Path:     "Vehicle.Speed",
		Message:  "unknown datatype \"float128\"",
		File:     "vehicle.vspec",
		Line:     14,
	}

	s := e.String()
	for _, want := range []string{"error:", "Vehicle.Speed:", "[datatype]", "(vehicle.vspec:14)"} {
		if !strings.Contains(s, want) {
			t.Errorf("Event.String() = %q, missing %q", s, want)
		}
	}
}

func TestEventStringNoPath(t *testing.T) {
	e := Event{
		Severity: SeverityInfo,
		Rule:     "summary",
		Message:  "validated 25 signals",
	}

	s := e.String()
	if strings.Contains(s, "::") {
		t.Errorf("Event.String() = %q, has empty path segment", s)
	}
	if !strings.HasPrefix(s, "info: validated") {
		t.Errorf("Event.String() = %q", s)
	}
}

func TestEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Severity:  SeverityWarning,
		Rule:      "description-missing",
		Path:      "Vehicle.Cabin.Door",
		Message:   "branch has no description",
		File:      "cabin.vspec",
		Line:      3,
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.Severity != original.Severity {
		t.Errorf("Severity: got %v, want %v", decoded.Severity, original.Severity)
	}
	if decoded.Rule != original.Rule {
		t.Errorf("Rule: got %q, want %q", decoded.Rule, original.Rule)
	}
	if decoded.Path != original.Path {
		t.Errorf("Path: got %q, want %q", decoded.Path, original.Path)
	}
	if decoded.Message != original.Message {
		t.Errorf("Message: got %q, want %q", decoded.Message, original.Message)
	}
	if decoded.File != original.File || decoded.Line != original.Line {
		t.Errorf("location: got %s:%d, want %s:%d", decoded.File, decoded.Line, original.File, original.Line)
	}
}

func TestEventCBORDeterministic(t *testing.T) {
	e := Event{
		Timestamp: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
		Severity:  SeverityError,
		Rule:      "uuid-duplicate",
		Path:      "Vehicle.Speed",
		Message:   "uuid already used by Vehicle.OBD.Speed",
	}

	a, err := EncodeEvent(e)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	b, err := EncodeEvent(e)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	if string(a) != string(b) {
		t.Error("identical events encoded differently")
	}
}
