package unit

import (
	"fmt"
	"math"
	"sync"
)

// Registry resolves unit names and expressions.
// All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	units map[string]Unit
}

// NewRegistry returns a registry with no units defined.
// Most callers want Default instead.
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]Unit)}
}

// DefineBase registers a new base unit for the given dimension.
func (r *Registry) DefineBase(name string, d Dim, aliases ...string) error {
	var dims Dims
	dims[d] = 1
	return r.put(name, Unit{expr: name, factor: 1, dims: dims}, aliases)
}

// DefineDimensionless registers a dimensionless unit with the given scale
// factor relative to unity (e.g. percent has factor 0.01).
func (r *Registry) DefineDimensionless(name string, factor float64, aliases ...string) error {
	return r.put(name, Unit{expr: name, factor: factor}, aliases)
}

// Define registers name as factor times the given unit expression.
func (r *Registry) Define(name string, factor float64, expr string, aliases ...string) error {
	base, err := r.Parse(expr)
	if err != nil {
		return fmt.Errorf("defining %s: %w", name, err)
	}
	if base.offset != 0 {
		return fmt.Errorf("defining %s: %w", name, ErrOffsetCompound)
	}
	return r.put(name, Unit{expr: name, factor: factor * base.factor, dims: base.dims}, aliases)
}

// DefineOffset registers a unit with a conversion offset, such as celsius:
// base = value*factor + offset, in terms of the given unit expression.
func (r *Registry) DefineOffset(name string, factor, offset float64, expr string, aliases ...string) error {
	base, err := r.Parse(expr)
	if err != nil {
		return fmt.Errorf("defining %s: %w", name, err)
	}
	if base.offset != 0 {
		return fmt.Errorf("defining %s: %w", name, ErrOffsetCompound)
	}
	u := Unit{expr: name, factor: factor * base.factor, offset: offset, dims: base.dims}
	return r.put(name, u, aliases)
}

// Alias registers an additional spelling for an existing unit.
func (r *Registry) Alias(alias, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, name)
	}
	if _, exists := r.units[alias]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateUnit, alias)
	}
	r.units[alias] = u
	return nil
}

// Lookup returns the unit registered under the exact name.
func (r *Registry) Lookup(name string) (Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[name]
	return u, ok
}

// Convert parses both unit expressions and converts value between them.
func (r *Registry) Convert(value float64, from, to string) (float64, error) {
	fu, err := r.Parse(from)
	if err != nil {
		return 0, err
	}
	tu, err := r.Parse(to)
	if err != nil {
		return 0, err
	}
	return fu.Convert(value, tu)
}

func (r *Registry) put(name string, u Unit, aliases []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range append([]string{name}, aliases...) {
		if _, exists := r.units[n]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateUnit, n)
		}
	}
	r.units[name] = u
	for _, a := range aliases {
		r.units[a] = u
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared registry preloaded with the VSS unit
// vocabulary. The registry is built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = newDefault()
	})
	return defaultReg
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("building default unit registry: %v", err))
	}
}

// newDefault builds the VSS unit vocabulary. Notable VSS quirks:
// "h" is hour (never the Planck constant), "%" and "percent" are
// dimensionless with factor 0.01, and "ratio" is plain dimensionless.
func newDefault() *Registry {
	r := NewRegistry()

	// SI base units.
	must(r.DefineBase("meter", DimLength, "m", "metre"))
	must(r.DefineBase("kilogram", DimMass, "kg"))
	must(r.DefineBase("second", DimTime, "s", "sec"))
	must(r.DefineBase("ampere", DimCurrent, "A"))
	must(r.DefineBase("kelvin", DimTemperature, "K"))
	must(r.DefineBase("mole", DimAmount, "mol"))
	must(r.DefineBase("candela", DimLuminosity, "cd"))

	// Dimensionless.
	must(r.DefineDimensionless("dimensionless", 1))
	must(r.DefineDimensionless("ratio", 1))
	must(r.DefineDimensionless("percent", 0.01, "%"))
	must(r.DefineDimensionless("radian", 1, "rad"))
	must(r.Define("degree", math.Pi/180, "radian", "degrees", "deg"))
	// A revolution is a count, not an angle: 3000 rpm converts to 50 Hz.
	must(r.DefineDimensionless("revolution", 1, "rev", "cycle"))

	// Length.
	must(r.Define("kilometer", 1000, "m", "km", "kilometre"))
	must(r.Define("centimeter", 0.01, "m", "cm"))
	must(r.Define("millimeter", 0.001, "m", "mm"))
	must(r.Define("inch", 0.0254, "m"))
	must(r.Define("mile", 1609.344, "m", "mi"))

	// Mass.
	must(r.Define("gram", 0.001, "kg", "g"))
	must(r.Define("tonne", 1000, "kg", "t"))
	must(r.Define("pound", 0.45359237, "kg", "lbs"))

	// Time. VSS uses h for hour.
	must(r.Define("minute", 60, "s", "min"))
	must(r.Define("hour", 3600, "s", "h", "hr"))
	must(r.Define("millisecond", 0.001, "s", "ms"))
	must(r.Define("day", 86400, "s", "days"))
	must(r.Define("week", 604800, "s", "weeks"))
	must(r.Define("year", 31557600, "s", "years"))

	// Frequency and rotation.
	must(r.Define("hertz", 1, "1/s", "Hz"))
	must(r.Define("kilohertz", 1000, "Hz", "kHz"))
	must(r.Define("rpm", 1, "revolution/min"))

	// Area and volume.
	must(r.Define("liter", 0.001, "m^3", "l", "L", "litre"))
	must(r.Define("milliliter", 1e-6, "m^3", "ml"))
	must(r.Define("cm3", 1e-6, "m^3", "cc"))

	// Force, pressure, energy, power.
	must(r.Define("newton", 1, "kg*m/s^2", "N"))
	must(r.Define("pascal", 1, "N/m^2", "Pa"))
	must(r.Define("kilopascal", 1000, "Pa", "kPa"))
	must(r.Define("bar", 100000, "Pa"))
	must(r.Define("millibar", 100, "Pa", "mbar"))
	must(r.Define("psi", 6894.757293168, "Pa"))
	must(r.Define("newtonmeter", 1, "N*m", "Nm"))
	must(r.Define("joule", 1, "N*m", "J"))
	must(r.Define("kilojoule", 1000, "J", "kJ"))
	must(r.Define("watt", 1, "J/s", "W"))
	must(r.Define("kilowatt", 1000, "W", "kW"))
	must(r.Define("watthour", 3600, "J", "Wh"))
	must(r.Define("kilowatthour", 3.6e6, "J", "kWh"))

	// Electrical.
	must(r.Define("milliampere", 0.001, "A", "mA"))
	must(r.Define("volt", 1, "W/A", "V"))
	must(r.Define("millivolt", 0.001, "V", "mV"))
	must(r.Define("amperehour", 3600, "A*s", "Ah"))

	// Temperature. Offset units, only valid standalone.
	must(r.DefineOffset("celsius", 1, 273.15, "K", "degC"))
	must(r.DefineOffset("fahrenheit", 5.0/9.0, 255.372222222222, "K", "degF"))

	return r
}
