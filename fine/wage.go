/*
Package fine computes criminal fines (pena de multa).

PURPOSE:
  A fine is a number of day-fines times the value of one day-fine. The
  day-fine value is a fraction (1/30 up to 5x) of the minimum wage in force
  on the date of the offence. Minimum wages come from a static, ordered
  table of date ranges.

KEY CONCEPTS (wage.go):
  - MinimumWage: one row of the historical table
  - Table: ordered rows; first match wins

LOOKUP RULE:
  A row matches when Start <= date and (End is open or End >= date).
  Rows are checked in table order, newest first in the default catalog.

SEE ALSO:
  - fine.go: Calculate and Compute
  - catalog/catalog.yaml: The default wage history
*/
package fine

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO date format used for table rows and lookups.
const DateLayout = "2006-01-02"

var (
	// ErrWageNotFound is returned when no table row covers the date.
	ErrWageNotFound = errors.New("minimum wage not found for date")

	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
)

// =============================================================================
// MINIMUM WAGE TABLE
// =============================================================================

// MinimumWage is the national minimum wage for a date range.
// End is nil for the range currently in force.
type MinimumWage struct {
	Start time.Time
	End   *time.Time
	Value decimal.Decimal
	Law   string
}

// Covers reports whether date falls in [Start, End].
func (w MinimumWage) Covers(date time.Time) bool {
	d := truncateDay(date)
	if d.Before(w.Start) {
		return false
	}
	return w.End == nil || !d.After(*w.End)
}

type Table []MinimumWage

// Lookup returns the first row covering date.
func (t Table) Lookup(date time.Time) (MinimumWage, bool) {
	for _, w := range t {
		if w.Covers(date) {
			return w, true
		}
	}
	return MinimumWage{}, false
}

// LookupISO parses a YYYY-MM-DD date and looks it up.
// An empty string is reported as not found, not as an error.
func (t Table) LookupISO(s string) (MinimumWage, bool, error) {
	if s == "" {
		return MinimumWage{}, false, nil
	}
	date, err := ParseDate(s)
	if err != nil {
		return MinimumWage{}, false, err
	}
	w, ok := t.Lookup(date)
	return w, ok, nil
}

// ParseDate parses an ISO date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: use YYYY-MM-DD", ErrInvalidDate, s)
	}
	return d, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
