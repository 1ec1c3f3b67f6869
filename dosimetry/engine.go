package dosimetry

import (
	"errors"
	"math"

	"github.com/warp/dosimetry-engine/penal"
)

var (
	ErrInvalidOperationType   = errors.New("invalid operation type")
	ErrInvalidOperationTarget = errors.New("invalid operation target")
)

// =============================================================================
// ENGINE
// =============================================================================

// Calculate runs the three phases in order.
// Phase 2 starts from the base penalty; phase 3 starts from phase 2's result.
func Calculate(basePenalty penal.Duration, phase2, phase3 []OperationInput) State {
	p1 := basePenalty
	p2 := ApplyPhase(p1, phase2)
	p3 := ApplyPhase(p2.Result, phase3)

	return State{
		Phase1: p1,
		Phase2: p2,
		Phase3: p3,
	}
}

// ApplyPhase threads a running day count through ops in order.
//
// The phase base is frozen before the first operation. A decrease that would
// go below zero leaves the running total at zero; the excess is dropped and no
// error is reported. An empty ops list returns the base unchanged.
func ApplyPhase(base penal.Duration, ops []OperationInput) Phase {
	currentDays := penal.ToDays(base)
	phaseBaseDays := currentDays

	computed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		reference := currentDays
		if op.Target == TargetBase {
			reference = phaseBaseDays
		}

		amountDays := op.Fraction.Apply(reference)

		if op.Type == Increase {
			currentDays = addSaturating(currentDays, amountDays)
		} else {
			currentDays = max(0, currentDays-amountDays)
		}

		computed = append(computed, Operation{
			OperationInput: op,
			Result:         penal.FromDays(amountDays),
		})
	}

	return Phase{
		Base:       base,
		Operations: computed,
		Result:     penal.FromDays(currentDays),
	}
}

// addSaturating adds non-negative day counts, pinning at math.MaxInt.
func addSaturating(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}
