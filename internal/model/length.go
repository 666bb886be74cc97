package model

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Length is an exact rational length in the base unit (meters).
// The zero value is a length of 0. Lengths are immutable: every
// operation returns a new value.
type Length struct {
	r *big.Rat
}

// NewLength returns num/den meters. It panics if den is zero.
func NewLength(num, den int64) Length {
	return Length{r: big.NewRat(num, den)}
}

// LengthFromInt returns a whole number of meters.
func LengthFromInt(n int64) Length {
	return Length{r: new(big.Rat).SetInt64(n)}
}

// ParseLength parses a decimal ("1.5"), fraction ("3/8") or mixed
// number ("2 3/8", "-1 1/2") into an exact Length.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Length{}, fmt.Errorf("empty length")
	}

	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		r, ok := new(big.Rat).SetString(fields[0])
		if !ok {
			return Length{}, fmt.Errorf("invalid length %q", s)
		}
		return Length{r: r}, nil
	case 2:
		whole, ok := new(big.Rat).SetString(fields[0])
		if !ok || !whole.IsInt() {
			return Length{}, fmt.Errorf("invalid length %q", s)
		}
		if !strings.Contains(fields[1], "/") || strings.HasPrefix(fields[1], "-") {
			return Length{}, fmt.Errorf("invalid length %q", s)
		}
		frac, ok := new(big.Rat).SetString(fields[1])
		if !ok {
			return Length{}, fmt.Errorf("invalid length %q", s)
		}
		if whole.Sign() < 0 || strings.HasPrefix(fields[0], "-") {
			frac.Neg(frac)
		}
		return Length{r: whole.Add(whole, frac)}, nil
	default:
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
}

// MustParseLength is like ParseLength but panics on error.
// It is meant for constants and tests.
func MustParseLength(s string) Length {
	l, err := ParseLength(s)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Length) rat() *big.Rat {
	if l.r == nil {
		return new(big.Rat)
	}
	return l.r
}

// Rat returns a copy of the underlying rational.
func (l Length) Rat() *big.Rat {
	return new(big.Rat).Set(l.rat())
}

func (l Length) Add(o Length) Length {
	return Length{r: new(big.Rat).Add(l.rat(), o.rat())}
}

func (l Length) Sub(o Length) Length {
	return Length{r: new(big.Rat).Sub(l.rat(), o.rat())}
}

// Mul scales the length by an integer factor.
func (l Length) Mul(n int64) Length {
	return Length{r: new(big.Rat).Mul(l.rat(), new(big.Rat).SetInt64(n))}
}

// Quo divides the length by another length, e.g. to convert units.
// It panics if o is zero.
func (l Length) Quo(o Length) Length {
	return Length{r: new(big.Rat).Quo(l.rat(), o.rat())}
}

// Scale multiplies the length by another rational factor.
func (l Length) Scale(o Length) Length {
	return Length{r: new(big.Rat).Mul(l.rat(), o.rat())}
}

// Cmp returns -1, 0 or +1 depending on whether l < o, l == o or l > o.
func (l Length) Cmp(o Length) int {
	return l.rat().Cmp(o.rat())
}

func (l Length) Equal(o Length) bool { return l.Cmp(o) == 0 }

func (l Length) LessOrEqual(o Length) bool { return l.Cmp(o) <= 0 }

func (l Length) Sign() int { return l.rat().Sign() }

func (l Length) IsZero() bool { return l.Sign() == 0 }

// Trunc returns the integer part of the length, rounded toward zero.
func (l Length) Trunc() Length {
	r := l.rat()
	q := new(big.Int).Quo(r.Num(), r.Denom())
	return Length{r: new(big.Rat).SetInt(q)}
}

// Float64 returns the nearest float64 value. Only for display and drawing.
func (l Length) Float64() float64 {
	f, _ := l.rat().Float64()
	return f
}

// String returns the canonical exact form: an integer or "num/den".
func (l Length) String() string {
	return l.rat().RatString()
}

// FormatDecimal renders the length with at most precision decimals,
// trimming trailing zeros.
func (l Length) FormatDecimal(precision int) string {
	s := l.rat().FloatString(precision)
	if precision > 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatMixed renders the length as a mixed number, e.g. "2 3/8".
func (l Length) FormatMixed() string {
	if l.IsZero() {
		return "0"
	}
	whole := l.Trunc()
	rem := l.Sub(whole)
	switch {
	case whole.IsZero():
		return rem.String()
	case rem.IsZero():
		return whole.String()
	default:
		if rem.Sign() < 0 {
			rem = LengthFromInt(0).Sub(rem)
		}
		return whole.String() + " " + rem.String()
	}
}

// MarshalText encodes the length in its exact string form.
func (l Length) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts every form understood by ParseLength.
func (l *Length) UnmarshalText(text []byte) error {
	parsed, err := ParseLength(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalJSON always emits a JSON string so no precision is lost.
func (l Length) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(l.String())), nil
}

// UnmarshalJSON accepts a JSON string or a bare JSON number.
func (l *Length) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*l = Length{}
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return l.UnmarshalText([]byte(s))
}
