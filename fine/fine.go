package fine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/dosimetry-engine/penal"
)

// =============================================================================
// FINE CALCULATION
// =============================================================================

// Calculate returns days x wage x fraction, rounded to cents at the end.
func Calculate(days int, wage decimal.Decimal, f penal.Fraction) decimal.Decimal {
	if f.Den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(days)).
		Mul(wage).
		Mul(decimal.NewFromInt(f.Num)).
		Div(decimal.NewFromInt(f.Den)).
		Round(2)
}

// DayValue returns the value of a single day-fine.
func DayValue(wage decimal.Decimal, f penal.Fraction) decimal.Decimal {
	return Calculate(1, wage, f)
}

// Result is a fully resolved fine.
type Result struct {
	Date     time.Time
	Days     int
	Wage     MinimumWage
	Fraction penal.Fraction
	DayValue decimal.Decimal
	Total    decimal.Decimal
}

// Compute resolves the minimum wage for isoDate in table and prices the fine.
func Compute(table Table, isoDate string, days int, f penal.Fraction) (Result, error) {
	if days < 0 {
		return Result{}, fmt.Errorf("%w: day-fines must not be negative (got %d)", penal.ErrInvalidDuration, days)
	}
	date, err := ParseDate(isoDate)
	if err != nil {
		return Result{}, err
	}
	wage, ok := table.Lookup(date)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrWageNotFound, isoDate)
	}
	return Result{
		Date:     date,
		Days:     days,
		Wage:     wage,
		Fraction: f,
		DayValue: DayValue(wage.Value, f),
		Total:    Calculate(days, wage.Value, f),
	}, nil
}
