package signal

import (
	"fmt"
	"math"
	"strings"
)

// Datatype represents the value type of a VSS signal.
type Datatype uint8

const (
	DatatypeUnknown Datatype = iota
	DatatypeDouble
	DatatypeFloat
	DatatypeInt8
	DatatypeInt16
	DatatypeInt32
	DatatypeInt64
	DatatypeUint8
	DatatypeUint16
	DatatypeUint32
	DatatypeUint64
	DatatypeBoolean
	DatatypeString
)

var datatypeNames = map[Datatype]string{
	DatatypeDouble:  "double",
	DatatypeFloat:   "float",
	DatatypeInt8:    "int8",
	DatatypeInt16:   "int16",
	DatatypeInt32:   "int32",
	DatatypeInt64:   "int64",
	DatatypeUint8:   "uint8",
	DatatypeUint16:  "uint16",
	DatatypeUint32:  "uint32",
	DatatypeUint64:  "uint64",
	DatatypeBoolean: "boolean",
	DatatypeString:  "string",
}

// String returns the canonical lower-case datatype name.
func (d Datatype) String() string {
	if name, ok := datatypeNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseDatatype parses a VSS datatype name. Matching is case-insensitive
// because VSS sources mix Pascal-cased and lower-case spellings.
func ParseDatatype(s string) (Datatype, error) {
	lower := strings.ToLower(s)
	for d, name := range datatypeNames {
		if name == lower {
			return d, nil
		}
	}
	return DatatypeUnknown, fmt.Errorf("%w: %q", ErrBadDatatype, s)
}

// Numeric returns true for integer and floating-point datatypes.
func (d Datatype) Numeric() bool {
	switch d {
	case DatatypeBoolean, DatatypeString, DatatypeUnknown:
		return false
	default:
		return true
	}
}

// Integer returns true for the fixed-width integer datatypes.
func (d Datatype) Integer() bool {
	switch d {
	case DatatypeInt8, DatatypeInt16, DatatypeInt32, DatatypeInt64,
		DatatypeUint8, DatatypeUint16, DatatypeUint32, DatatypeUint64:
		return true
	default:
		return false
	}
}

// Bounds returns the representable value range of a numeric datatype.
// ok is false for boolean, string, and unknown datatypes.
func (d Datatype) Bounds() (low, high float64, ok bool) {
	switch d {
	case DatatypeUint8:
		return 0, 1<<8 - 1, true
	case DatatypeInt8:
		return -(1 << 7), 1<<7 - 1, true
	case DatatypeUint16:
		return 0, 1<<16 - 1, true
	case DatatypeInt16:
		return -(1 << 15), 1<<15 - 1, true
	case DatatypeUint32:
		return 0, 1<<32 - 1, true
	case DatatypeInt32:
		return -(1 << 31), 1<<31 - 1, true
	case DatatypeUint64:
		return 0, math.MaxUint64, true
	case DatatypeInt64:
		return math.MinInt64, math.MaxInt64, true
	case DatatypeFloat:
		return -math.MaxFloat32, math.MaxFloat32, true
	case DatatypeDouble:
		return -math.MaxFloat64, math.MaxFloat64, true
	default:
		return 0, 0, false
	}
}

// EntryType classifies a signal entry.
type EntryType uint8

const (
	EntryUnknown EntryType = iota

	// EntrySensor is a signal the vehicle reports.
	EntrySensor

	// EntryActuator is a signal that can be both read and set.
	EntryActuator

	// EntryAttribute is a static property of the vehicle.
	EntryAttribute
)

// String returns the entry type name.
func (e EntryType) String() string {
	switch e {
	case EntrySensor:
		return "sensor"
	case EntryActuator:
		return "actuator"
	case EntryAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// ParseEntryType parses a signal entry type. "branch" is not a signal
// entry type and is rejected here; the tree package handles branches.
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(s) {
	case "sensor":
		return EntrySensor, nil
	case "actuator":
		return EntryActuator, nil
	case "attribute":
		return EntryAttribute, nil
	default:
		return EntryUnknown, fmt.Errorf("%w: %q", ErrBadEntryType, s)
	}
}
