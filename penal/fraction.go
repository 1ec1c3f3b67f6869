package penal

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FRACTION - Exact rational multiplier with a display label
// =============================================================================

// Fraction is a rational multiplier applied to a day count.
// Label is shown verbatim in reports and is never derived from Num/Den.
type Fraction struct {
	Label string
	Num   int64
	Den   int64
}

// FractionRef names a fraction as a client writes it: a catalog label, or an
// explicit value ("1/6", "16%", "0.5") with a free label.
type FractionRef struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

// maxDecimalPlaces bounds the denominator of fractions parsed from decimals.
const maxDecimalPlaces = 12

// NewFraction builds a fraction in lowest terms.
func NewFraction(label string, num, den int64) (Fraction, error) {
	if den <= 0 {
		return Fraction{}, &InvalidFractionError{Label: label, Value: strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10), Reason: "denominator must be positive"}
	}
	if num < 0 {
		return Fraction{}, &InvalidFractionError{Label: label, Value: strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10), Reason: "fraction must not be negative"}
	}
	g := gcd(num, den)
	return Fraction{Label: label, Num: num / g, Den: den / g}, nil
}

// MustFraction is NewFraction for static tables.
func MustFraction(label string, num, den int64) Fraction {
	f, err := NewFraction(label, num, den)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseFraction reads a multiplier written as "a/b", "N%" or a decimal ("0.16", "2").
func ParseFraction(label, value string) (Fraction, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return Fraction{}, &InvalidFractionError{Label: label, Value: value, Reason: "empty value"}
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return Fraction{}, &InvalidFractionError{Label: label, Value: value, Reason: "invalid numerator"}
		}
		d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err != nil {
			return Fraction{}, &InvalidFractionError{Label: label, Value: value, Reason: "invalid denominator"}
		}
		return NewFraction(label, n, d)
	}

	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	dec, err := decimal.NewFromString(s)
	if err != nil {
		return Fraction{}, &InvalidFractionError{Label: label, Value: value, Reason: "not a number"}
	}
	if percent {
		dec = dec.Shift(-2)
	}
	return FractionFromDecimal(label, dec)
}

// FractionFromDecimal converts a terminating decimal into an exact fraction.
func FractionFromDecimal(label string, dec decimal.Decimal) (Fraction, error) {
	places := int32(0)
	if exp := dec.Exponent(); exp < 0 {
		places = -exp
	}
	if places > maxDecimalPlaces {
		return Fraction{}, &InvalidFractionError{Label: label, Value: dec.String(), Reason: "too many decimal places"}
	}
	num := dec.Shift(places)
	if !num.IsInteger() {
		return Fraction{}, &InvalidFractionError{Label: label, Value: dec.String(), Reason: "not representable"}
	}
	if !num.BigInt().IsInt64() {
		return Fraction{}, &InvalidFractionError{Label: label, Value: dec.String(), Reason: "out of range"}
	}
	return NewFraction(label, num.IntPart(), decimal.New(1, places).IntPart())
}

// Value returns the multiplier as a decimal (16 digits of precision for
// non-terminating fractions such as 1/3).
func (f Fraction) Value() decimal.Decimal {
	if f.Den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(f.Num).Div(decimal.NewFromInt(f.Den))
}

// Apply returns floor(days x f). The product is computed exactly; results
// beyond the int range saturate.
func (f Fraction) Apply(days int) int {
	if f.Den == 0 {
		return 0
	}
	product := decimal.NewFromInt(int64(days)).Mul(decimal.NewFromInt(f.Num))
	q, r := product.QuoRem(decimal.NewFromInt(f.Den), 0)
	if r.IsNegative() {
		q = q.Sub(decimal.NewFromInt(1))
	}

	switch {
	case q.GreaterThan(decimal.NewFromInt(math.MaxInt)):
		return math.MaxInt
	case q.LessThan(decimal.NewFromInt(math.MinInt)):
		return math.MinInt
	}
	return int(q.IntPart())
}

// Compare returns -1, 0 or +1 comparing the numeric values of f and o.
func (f Fraction) Compare(o Fraction) int {
	l := decimal.NewFromInt(f.Num).Mul(decimal.NewFromInt(o.Den))
	r := decimal.NewFromInt(o.Num).Mul(decimal.NewFromInt(f.Den))
	return l.Cmp(r)
}

func (f Fraction) String() string {
	if f.Label != "" {
		return f.Label
	}
	return strconv.FormatInt(f.Num, 10) + "/" + strconv.FormatInt(f.Den, 10)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
