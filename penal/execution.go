package penal

// =============================================================================
// PROPORTIONAL ADJUSTMENT
// =============================================================================

// CalculateExecution applies f to base, truncating toward zero at the day level.
// Fractions above one are allowed.
func CalculateExecution(base Duration, f Fraction) Duration {
	return FromDays(f.Apply(ToDays(base)))
}

// SubtractDuration removes toRemove from total, clamping at zero.
func SubtractDuration(total, toRemove Duration) Duration {
	return FromDays(max(0, ToDays(total)-ToDays(toRemove)))
}

// AddDurations sums two durations through their day counts.
func AddDurations(d1, d2 Duration) Duration {
	return FromDays(ToDays(d1) + ToDays(d2))
}

// SumDays returns the total day count of ds.
func SumDays(ds ...Duration) int {
	total := 0
	for _, d := range ds {
		total += ToDays(d)
	}
	return total
}
