package unit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dim indexes one of the seven SI base dimensions.
type Dim int

const (
	DimLength Dim = iota
	DimMass
	DimTime
	DimCurrent
	DimTemperature
	DimAmount
	DimLuminosity

	numDims
)

// dimNames are the human-readable dimension names used in error messages.
var dimNames = [numDims]string{
	"length", "mass", "time", "current", "temperature", "amount", "luminosity",
}

// Dims is the exponent vector over the seven SI base dimensions.
// The zero value is dimensionless.
type Dims [numDims]int8

// IsZero returns true if all exponents are zero (dimensionless).
func (d Dims) IsZero() bool {
	return d == Dims{}
}

// String returns the dimensions in "length/time^2" form, or "dimensionless".
func (d Dims) String() string {
	var num, den []string
	for i, exp := range d {
		switch {
		case exp == 1:
			num = append(num, dimNames[i])
		case exp > 1:
			num = append(num, dimNames[i]+"^"+strconv.Itoa(int(exp)))
		case exp == -1:
			den = append(den, dimNames[i])
		case exp < -1:
			den = append(den, dimNames[i]+"^"+strconv.Itoa(int(-exp)))
		}
	}
	if len(num) == 0 && len(den) == 0 {
		return "dimensionless"
	}
	s := strings.Join(num, "*")
	if s == "" {
		s = "1"
	}
	if len(den) > 0 {
		s += "/" + strings.Join(den, "/")
	}
	return s
}

func (d Dims) add(o Dims) Dims {
	var r Dims
	for i := range d {
		r[i] = d[i] + o[i]
	}
	return r
}

func (d Dims) scale(n int) Dims {
	var r Dims
	for i := range d {
		r[i] = d[i] * int8(n)
	}
	return r
}

// Unit errors.
var (
	// ErrUnknownUnit indicates a unit name not present in the registry.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrMalformedExpr indicates a unit expression that cannot be parsed.
	ErrMalformedExpr = errors.New("malformed unit expression")

	// ErrIncompatible indicates a conversion between different dimensions.
	ErrIncompatible = errors.New("incompatible dimensions")

	// ErrOffsetCompound indicates an offset unit (celsius, fahrenheit) used
	// inside a compound expression, where the offset has no meaning.
	ErrOffsetCompound = errors.New("offset unit in compound expression")

	// ErrDuplicateUnit indicates a Define for a name already registered.
	ErrDuplicateUnit = errors.New("unit already defined")
)

// Unit is a resolved measurement unit. A value v expressed in the unit maps
// to base (SI) magnitude v*factor + offset. Units are immutable values and
// safe to copy and share.
type Unit struct {
	expr   string
	factor float64
	offset float64
	dims   Dims
}

// Dimensionless returns true if the unit carries no physical dimension.
// Percent, ratio, and angle units are dimensionless.
func (u Unit) Dimensionless() bool {
	return u.dims.IsZero()
}

// Dims returns the dimension exponent vector.
func (u Unit) Dims() Dims {
	return u.dims
}

// Compatible returns true if values can be converted between u and o.
func (u Unit) Compatible(o Unit) bool {
	return u.dims == o.dims
}

// Convert converts a value expressed in u into the target unit.
// Returns ErrIncompatible if the dimensions differ.
func (u Unit) Convert(value float64, to Unit) (float64, error) {
	if !u.Compatible(to) {
		return 0, fmt.Errorf("%w: cannot convert %s (%s) to %s (%s)",
			ErrIncompatible, u, u.dims, to, to.dims)
	}
	base := value*u.factor + u.offset
	return (base - to.offset) / to.factor, nil
}

// String returns the expression the unit was parsed or defined from.
func (u Unit) String() string {
	if u.expr == "" {
		return "dimensionless"
	}
	return u.expr
}
