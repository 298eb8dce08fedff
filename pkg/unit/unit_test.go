package unit

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) < 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestParseVSSVocabulary(t *testing.T) {
	// Every unit string that appears in VSS release trees must parse.
	exprs := []string{
		"km/h", "celsius", "percent", "%", "ratio", "degrees", "degrees/s",
		"m/s^2", "m/s", "mm", "cm", "m", "km", "inch", "cm3", "l", "ml",
		"l/h", "l/100km", "g/s", "g/km", "kg", "pa", "kPa", "mbar", "bar",
		"kW", "W", "kWh", "Wh", "V", "A", "mA", "Ah", "Nm", "N", "rpm",
		"Hz", "s", "min", "h", "ms", "rad/s", "mi", "degC", "degF",
	}
	for _, expr := range exprs {
		if expr == "pa" {
			// Unit names are case-sensitive; "pa" must not resolve.
			if _, err := Default().Parse(expr); err == nil {
				t.Errorf("Parse(%q) succeeded, want unknown unit", expr)
			}
			continue
		}
		if _, err := Default().Parse(expr); err != nil {
			t.Errorf("Parse(%q) failed: %v", expr, err)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{90, "km/h", "m/s", 25},
		{1, "h", "s", 3600}, // h is hour, not the Planck constant
		{1, "min", "s", 60},
		{0, "celsius", "degF", 32},
		{100, "celsius", "degF", 212},
		{-40, "degF", "celsius", -40},
		{25, "celsius", "K", 298.15},
		{50, "percent", "ratio", 0.5},
		{1, "kWh", "J", 3.6e6},
		{10, "l/100km", "l/km", 0.1},
		{3000, "rpm", "Hz", 50},
		{180, "degrees", "rad", math.Pi},
		{1, "bar", "kPa", 100},
		{2, "Nm", "J", 2},
	}
	for _, tt := range tests {
		got, err := Default().Convert(tt.value, tt.from, tt.to)
		if err != nil {
			t.Errorf("Convert(%v, %q, %q) failed: %v", tt.value, tt.from, tt.to, err)
			continue
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("Convert(%v, %q, %q) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvertIncompatible(t *testing.T) {
	_, err := Default().Convert(1, "km/h", "kg")
	if !errors.Is(err, ErrIncompatible) {
		t.Errorf("expected ErrIncompatible, got %v", err)
	}
}

func TestOffsetCompound(t *testing.T) {
	for _, expr := range []string{"celsius/s", "celsius*m", "2 celsius", "degF^2"} {
		_, err := Default().Parse(expr)
		if !errors.Is(err, ErrOffsetCompound) {
			t.Errorf("Parse(%q): expected ErrOffsetCompound, got %v", expr, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"furlong/fortnight", ErrUnknownUnit},
		{"m/", ErrMalformedExpr},
		{"m^x", ErrMalformedExpr},
		{"m^", ErrMalformedExpr},
		{"((", ErrMalformedExpr},
		{"0*m", ErrMalformedExpr},
	}
	for _, tt := range tests {
		_, err := Default().Parse(tt.expr)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q): expected %v, got %v", tt.expr, tt.want, err)
		}
	}
}

func TestParseEmptyIsDimensionless(t *testing.T) {
	u, err := Default().Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\") failed: %v", err)
	}
	if !u.Dimensionless() {
		t.Error("empty expression should be dimensionless")
	}
	if u.String() != "dimensionless" {
		t.Errorf("String() = %q, want dimensionless", u.String())
	}
}

func TestDimensionless(t *testing.T) {
	for _, expr := range []string{"percent", "%", "ratio", "degrees", "rad"} {
		u, err := Default().Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", expr, err)
		}
		if !u.Dimensionless() {
			t.Errorf("%q should be dimensionless", expr)
		}
	}
	u := Default().MustParse("km/h")
	if u.Dimensionless() {
		t.Error("km/h should not be dimensionless")
	}
}

func TestDimsString(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"m/s^2", "length/time^2"},
		{"kg", "mass"},
		{"Hz", "1/time"},
		{"ratio", "dimensionless"},
		{"W", "length^2*mass/time^3"},
	}
	for _, tt := range tests {
		u := Default().MustParse(tt.expr)
		if got := u.Dims().String(); got != tt.want {
			t.Errorf("Dims(%q).String() = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestCustomRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.DefineBase("meter", DimLength, "m"); err != nil {
		t.Fatal(err)
	}
	if err := r.Define("kilometer", 1000, "m", "km"); err != nil {
		t.Fatal(err)
	}

	t.Run("Alias", func(t *testing.T) {
		if err := r.Alias("klick", "kilometer"); err != nil {
			t.Fatal(err)
		}
		got, err := r.Convert(1, "klick", "m")
		if err != nil || got != 1000 {
			t.Errorf("Convert(1, klick, m) = %v, %v; want 1000", got, err)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		err := r.DefineBase("meter", DimLength)
		if !errors.Is(err, ErrDuplicateUnit) {
			t.Errorf("expected ErrDuplicateUnit, got %v", err)
		}
	})

	t.Run("AliasUnknown", func(t *testing.T) {
		err := r.Alias("x", "nope")
		if !errors.Is(err, ErrUnknownUnit) {
			t.Errorf("expected ErrUnknownUnit, got %v", err)
		}
	})
}
