/*
Package penal provides the penal time model used by every calculation.

PURPOSE:
  Sentences are not measured on a calendar. The legal convention fixes a year
  at 360 days and a month at 30 days, so a sentence is a structured
  (years, months, days) triple that converts losslessly to a scalar day count.
  All arithmetic happens on day counts; the structured form is only for input
  and display.

KEY CONCEPTS IN THIS FILE (types.go):
  - Duration: years/months/days value type
  - ToDays / FromDays: the codec between structured and scalar forms

DECOMPOSITION ORDER:
  FromDays divides by 360 first, then divides the remainder by 30. Months are
  never capped explicitly; the [0,11] range falls out of 360 = 12 x 30.

    FromDays(389) = {1 year, 0 months, 29 days}

SEE ALSO:
  - fraction.go: Exact rational multipliers with display labels
  - execution.go: Proportional adjustment, add, subtract
  - errors.go: Boundary validation errors
*/
package penal

// =============================================================================
// PENAL RADIX
// =============================================================================

const (
	PenalYear  = 360 // days in a penal year
	PenalMonth = 30  // days in a penal month
)

// =============================================================================
// DURATION - Structured sentence length
// =============================================================================

// Duration is a sentence length in the penal radix.
// Values produced by FromDays are normalized; values built by callers may not be.
type Duration struct {
	Years  int `json:"years" yaml:"years"`
	Months int `json:"months" yaml:"months"`
	Days   int `json:"days" yaml:"days"`
}

// Years is a convenience constructor for whole-year durations.
func Years(n int) Duration { return Duration{Years: n} }

func (d Duration) IsZero() bool { return d.Years == 0 && d.Months == 0 && d.Days == 0 }

// Normalize re-expresses d through the day count.
func (d Duration) Normalize() Duration { return FromDays(ToDays(d)) }

// Validate reports negative components. The calculation functions never call
// it; it exists for the layers that coerce raw user input.
func (d Duration) Validate() error {
	switch {
	case d.Years < 0:
		return &InvalidDurationError{Field: "years", Value: d.Years}
	case d.Months < 0:
		return &InvalidDurationError{Field: "months", Value: d.Months}
	case d.Days < 0:
		return &InvalidDurationError{Field: "days", Value: d.Days}
	}
	return nil
}

// =============================================================================
// CODEC
// =============================================================================

// ToDays returns the scalar day count of d. Negative components propagate.
func ToDays(d Duration) int {
	return d.Years*PenalYear + d.Months*PenalMonth + d.Days
}

// FromDays decomposes a day count into years, months and days.
// Negative totals clamp to zero.
func FromDays(total int) Duration {
	remainder := max(0, total)

	years := remainder / PenalYear
	remainder %= PenalYear

	months := remainder / PenalMonth
	days := remainder % PenalMonth

	return Duration{Years: years, Months: months, Days: days}
}
