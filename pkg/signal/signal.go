// Package signal provides the type-safe VSS signal model: datatype
// normalization, numeric bound tightening, default and allowed-value
// validation, unit resolution, and runtime value checking.
package signal

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/vss-tools/vss-go/pkg/unit"
)

// Signal validation errors.
var (
	ErrBadDatatype      = errors.New("unrecognized datatype")
	ErrBadEntryType     = errors.New("unrecognized entry type")
	ErrAllowedNonString = errors.New("allowed values on non-string datatype")
	ErrBadDefault       = errors.New("illegal default value")
	ErrBadUnit          = errors.New("illegal unit")
	ErrUnitNonNumeric   = errors.New("unit not allowed for datatype")
	ErrEmptyPath        = errors.New("path must contain at least one non-empty key")
	ErrBadUUID          = errors.New("invalid signal uuid")
	ErrNotNumeric       = errors.New("datatype is not numeric")
	ErrValueType        = errors.New("invalid value type for signal")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrValueNotAllowed  = errors.New("value not in allowed set")
)

// Definition carries the raw fields of a signal entry as they appear in a
// VSS tree. New validates them into a Signal.
type Definition struct {
	// Path is the signal namespace, e.g. ["Vehicle", "Speed"].
	Path []string

	// Type is the entry type: sensor, actuator, or attribute.
	Type string

	// Datatype is the VSS datatype name (any casing).
	Datatype string

	Description string
	Comment     string

	// UUID is the optional RFC 4122 identifier assigned by vss-tools.
	UUID string

	// Unit is the unit expression; empty means dimensionless.
	Unit string

	// Min and Max are optional declared bounds; nil means unset.
	Min *float64
	Max *float64

	// Default is the optional default value (bool, string, or number).
	Default any

	// Allowed restricts string signals to an enumerated value set.
	Allowed []string
}

// Signal is a validated VSS signal. Signals are immutable once constructed.
type Signal struct {
	path        []string
	datatype    Datatype
	entry       EntryType
	description string
	comment     string
	uuid        string
	unitName    string
	unit        unit.Unit
	reg         *unit.Registry

	// min and max are always tightened against the datatype bounds.
	// They are meaningful only for numeric datatypes.
	min float64
	max float64

	def      any
	allowed  []string
	allowSet map[string]struct{}
}

// New validates a definition against a unit registry and returns the
// resulting signal. A nil registry means unit.Default().
func New(def Definition, reg *unit.Registry) (*Signal, error) {
	if reg == nil {
		reg = unit.Default()
	}

	if len(def.Path) == 0 {
		return nil, ErrEmptyPath
	}
	for _, key := range def.Path {
		if key == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyPath, strings.Join(def.Path, "."))
		}
	}

	dt, err := ParseDatatype(def.Datatype)
	if err != nil {
		return nil, err
	}
	et, err := ParseEntryType(def.Type)
	if err != nil {
		return nil, err
	}

	s := &Signal{
		path:        append([]string(nil), def.Path...),
		datatype:    dt,
		entry:       et,
		description: def.Description,
		comment:     def.Comment,
		uuid:        def.UUID,
		unitName:    def.Unit,
		reg:         reg,
	}
	if s.unitName == "" {
		s.unitName = "dimensionless"
	}

	// Allowed values are only meaningful for string signals.
	if len(def.Allowed) > 0 {
		if dt != DatatypeString {
			return nil, fmt.Errorf("%w: %s", ErrAllowedNonString, dt)
		}
		s.allowed = append([]string(nil), def.Allowed...)
		s.allowSet = make(map[string]struct{}, len(s.allowed))
		for _, v := range s.allowed {
			s.allowSet[v] = struct{}{}
		}
	}

	// Tighten declared bounds to the datatype's representable range.
	if low, high, ok := dt.Bounds(); ok {
		s.min, s.max = low, high
		if def.Min != nil && *def.Min > low {
			s.min = *def.Min
		}
		if def.Max != nil && *def.Max < high {
			s.max = *def.Max
		}
	}

	// The unit must parse, and non-numeric signals must stay dimensionless.
	u, err := reg.Parse(s.unitName)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadUnit, s.unitName, err)
	}
	s.unit = u
	if !dt.Numeric() && !u.Dimensionless() {
		return nil, fmt.Errorf("%w: %s with unit %q", ErrUnitNonNumeric, dt, s.unitName)
	}

	if def.Default != nil {
		if err := s.Check(def.Default); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDefault, err)
		}
		s.def = def.Default
	}

	if s.uuid != "" {
		if _, err := uuid.Parse(s.uuid); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadUUID, s.uuid)
		}
	}

	return s, nil
}

// Name returns the dot-delimited signal name.
func (s *Signal) Name() string { return strings.Join(s.path, ".") }

// Path returns a copy of the signal namespace.
func (s *Signal) Path() []string { return append([]string(nil), s.path...) }

// Datatype returns the signal datatype.
func (s *Signal) Datatype() Datatype { return s.datatype }

// Type returns the entry type (sensor, actuator, attribute).
func (s *Signal) Type() EntryType { return s.entry }

// Description returns the signal description.
func (s *Signal) Description() string { return s.description }

// Comment returns the optional comment.
func (s *Signal) Comment() string { return s.comment }

// UUID returns the signal UUID, or "" if none was assigned.
func (s *Signal) UUID() string { return s.uuid }

// Unit returns the resolved unit.
func (s *Signal) Unit() unit.Unit { return s.unit }

// UnitName returns the unit expression as declared in the tree.
func (s *Signal) UnitName() string { return s.unitName }

// Bounds returns the effective min and max for numeric signals.
// ok is false for string and boolean signals.
func (s *Signal) Bounds() (min, max float64, ok bool) {
	if !s.datatype.Numeric() {
		return 0, 0, false
	}
	return s.min, s.max, true
}

// Default returns the default value, or nil if none is declared.
func (s *Signal) Default() any { return s.def }

// Allowed returns the enumerated value set for string signals, in
// declaration order. Nil when the signal is unrestricted.
func (s *Signal) Allowed() []string { return append([]string(nil), s.allowed...) }

// String returns the dotted signal name.
func (s *Signal) String() string { return s.Name() }

// Clamp clamps a numeric value into the signal's effective bounds.
// Integer datatypes truncate toward zero. Returns ErrNotNumeric for
// string and boolean signals.
func (s *Signal) Clamp(v float64) (float64, error) {
	if !s.datatype.Numeric() {
		return 0, fmt.Errorf("%w: cannot clamp %s", ErrNotNumeric, s.datatype)
	}
	v = math.Max(math.Min(v, s.max), s.min)
	if s.datatype.Integer() {
		v = math.Trunc(v)
	}
	return v, nil
}

// Check validates a runtime value against the signal's datatype, bounds,
// and allowed set.
func (s *Signal) Check(value any) error {
	switch s.datatype {
	case DatatypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %s expects bool, got %T", ErrValueType, s.Name(), value)
		}
		return nil

	case DatatypeString:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects string, got %T", ErrValueType, s.Name(), value)
		}
		if s.allowSet != nil {
			if _, ok := s.allowSet[str]; !ok {
				return fmt.Errorf("%w: %q not in %v", ErrValueNotAllowed, str, s.allowed)
			}
		}
		return nil
	}

	f, ok := toFloat64(value)
	if !ok {
		return fmt.Errorf("%w: %s expects %s, got %T", ErrValueType, s.Name(), s.datatype, value)
	}
	if s.datatype.Integer() && f != math.Trunc(f) {
		return fmt.Errorf("%w: %s expects %s, got fractional %v", ErrValueType, s.Name(), s.datatype, value)
	}
	if f < s.min || f > s.max {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrValueOutOfRange, f, s.min, s.max)
	}
	return nil
}

// ConvertTo converts a numeric reading from the signal's unit into the
// target unit expression.
func (s *Signal) ConvertTo(value float64, target string) (float64, error) {
	if !s.datatype.Numeric() {
		return 0, fmt.Errorf("%w: cannot convert %s", ErrNotNumeric, s.datatype)
	}
	to, err := s.reg.Parse(target)
	if err != nil {
		return 0, err
	}
	return s.unit.Convert(value, to)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
