package model

import (
	"fmt"
	"strings"
)

// Unit is a user-facing length unit. The engine itself only sees meters;
// units are applied when reading input and when rendering output.
type Unit string

const (
	UnitMeters      Unit = "m"
	UnitCentimeters Unit = "cm"
	UnitInches      Unit = "in"
	UnitFeetInches  Unit = "ft-in" // feet as the major value, inches as the minor value
)

// Exact length of one foot in meters (0.3048).
var metersPerFoot = NewLength(3048, 10000)

// AllUnits lists the supported units in display order.
func AllUnits() []Unit {
	return []Unit{UnitFeetInches, UnitInches, UnitCentimeters, UnitMeters}
}

// ParseUnit accepts the unit symbols and a few common spellings.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "meter", "meters":
		return UnitMeters, nil
	case "cm", "centimeter", "centimeters":
		return UnitCentimeters, nil
	case "in", "inch", "inches", "\"":
		return UnitInches, nil
	case "ft", "ft-in", "feet", "feet-inches", "'":
		return UnitFeetInches, nil
	default:
		return "", fmt.Errorf("unknown unit %q (want one of %v)", s, AllUnits())
	}
}

// HasMinor reports whether the unit splits lengths into two values.
func (u Unit) HasMinor() bool {
	return u == UnitFeetInches
}

// Name returns a human readable name of the major value.
func (u Unit) Name() string {
	switch u {
	case UnitFeetInches:
		return "Feet"
	case UnitInches:
		return "Inches"
	case UnitCentimeters:
		return "Centimeters"
	default:
		return "Meters"
	}
}

// Symbol returns the symbol of the major value.
func (u Unit) Symbol() string {
	switch u {
	case UnitFeetInches:
		return "ft"
	case UnitInches:
		return "in"
	case UnitCentimeters:
		return "cm"
	default:
		return "m"
	}
}

// ToMeters converts a (major, minor) pair expressed in u into meters.
// minor is only meaningful for ft-in, where it holds inches.
func (u Unit) ToMeters(major, minor Length) Length {
	twelve := LengthFromInt(12)
	switch u {
	case UnitFeetInches:
		return major.Add(minor.Quo(twelve)).Scale(metersPerFoot)
	case UnitInches:
		return major.Quo(twelve).Scale(metersPerFoot)
	case UnitCentimeters:
		return major.Quo(LengthFromInt(100))
	default:
		return major
	}
}

// FromMeters converts meters into a (major, minor) pair in u.
func (u Unit) FromMeters(meters Length) (major, minor Length) {
	twelve := LengthFromInt(12)
	switch u {
	case UnitFeetInches:
		feet := meters.Quo(metersPerFoot)
		whole := feet.Trunc()
		return whole, feet.Sub(whole).Scale(twelve)
	case UnitInches:
		return meters.Quo(metersPerFoot).Scale(twelve), Length{}
	case UnitCentimeters:
		return meters.Scale(LengthFromInt(100)), Length{}
	default:
		return meters, Length{}
	}
}

// ParseLengthIn parses a length typed in unit u and returns meters.
// For ft-in the input may be "8", "8 6" (feet then inches) or
// "8' 6 1/2\"".
func (u Unit) ParseLengthIn(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if u != UnitFeetInches {
		s = strings.TrimSuffix(strings.TrimSuffix(s, u.Symbol()), "\"")
		l, err := ParseLength(s)
		if err != nil {
			return Length{}, err
		}
		return u.ToMeters(l, Length{}), nil
	}

	if i := strings.Index(s, "'"); i >= 0 {
		feet, err := ParseLength(s[:i])
		if err != nil {
			return Length{}, err
		}
		rest := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s[i+1:]), "\""))
		inches := Length{}
		if rest != "" {
			if inches, err = ParseLength(rest); err != nil {
				return Length{}, err
			}
		}
		return u.ToMeters(feet, inches), nil
	}

	fields := strings.Fields(strings.TrimSuffix(s, "\""))
	if len(fields) == 0 {
		return Length{}, fmt.Errorf("empty length")
	}
	feet, err := ParseLength(fields[0])
	if err != nil {
		return Length{}, err
	}
	inches := Length{}
	if len(fields) > 1 {
		if inches, err = ParseLength(strings.Join(fields[1:], " ")); err != nil {
			return Length{}, err
		}
	}
	return u.ToMeters(feet, inches), nil
}

// Format renders a meter length in u with the given decimal precision,
// e.g. "8 ft, 6 in" or "243.84 cm".
func (u Unit) Format(meters Length, precision int) string {
	major, minor := u.FromMeters(meters)
	out := major.FormatDecimal(precision) + " " + u.Symbol()
	if u.HasMinor() {
		out += ", " + minor.FormatDecimal(precision) + " in"
	}
	return out
}
