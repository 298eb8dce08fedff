// Package unit provides parsing, validation, and conversion of physical
// units as used by the Vehicle Signal Specification.
//
// Units are resolved against a Registry. The registry that Default returns
// knows the VSS unit vocabulary, including the VSS-specific spellings:
// "percent" (and "%"), "ratio", and "h" meaning hour.
//
// # Basic Usage
//
//	kmh, err := unit.Default().Parse("km/h")
//	ms, _ := unit.Default().Parse("m/s")
//	v, err := kmh.Convert(90, ms) // 25 m/s
//
// Compound expressions support multiplication ('*', '.', or adjacency),
// division ('/'), numeric scale factors, and integer exponents:
//
//	unit.Default().Parse("m/s^2")
//	unit.Default().Parse("l/100km")
//
// Units with a conversion offset (celsius, fahrenheit) are only valid as a
// bare unit, never inside a compound expression.
package unit
