package log

import (
	"fmt"
	"time"
)

// Severity classifies a validation finding.
type Severity uint8

const (
	// SeverityInfo is an observation that needs no action.
	SeverityInfo Severity = 0

	// SeverityWarning is a finding that should be fixed but does not make
	// the tree unusable.
	SeverityWarning Severity = 1

	// SeverityError is a finding that makes part of the tree malformed.
	SeverityError Severity = 2
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one validation finding.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the finding was recorded.
	Timestamp time.Time `cbor:"1,keyasint"`

	// Severity of the finding.
	Severity Severity `cbor:"2,keyasint"`

	// Rule identifies the check that produced the finding, e.g.
	// "datatype" or "uuid-duplicate".
	Rule string `cbor:"3,keyasint"`

	// Path is the dotted path of the node the finding concerns.
	Path string `cbor:"4,keyasint,omitempty"`

	// Message is the human-readable description.
	Message string `cbor:"5,keyasint"`

	// File and Line locate the owning definition in its .vspec source,
	// when the tree was compiled from one.
	File string `cbor:"6,keyasint,omitempty"`
	Line int    `cbor:"7,keyasint,omitempty"`
}

// String formats the event the way the CLI tools print findings.
func (e Event) String() string {
	s := e.Severity.String() + ": "
	if e.Path != "" {
		s += e.Path + ": "
	}
	s += e.Message + " [" + e.Rule + "]"
	if e.File != "" {
		s += fmt.Sprintf(" (%s:%d)", e.File, e.Line)
	}
	return s
}
