package dosimetry_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/dosimetry-engine/dosimetry"
	"github.com/warp/dosimetry-engine/penal"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func days(n int) penal.Duration { return penal.FromDays(n) }

func op(name string, num, den int64, typ dosimetry.OperationType, target dosimetry.OperationTarget) dosimetry.OperationInput {
	return dosimetry.OperationInput{
		ID:       name,
		Name:     name,
		Fraction: penal.MustFraction("", num, den),
		Type:     typ,
		Target:   target,
	}
}

func finalDays(base penal.Duration, phase2, phase3 []dosimetry.OperationInput) int {
	return penal.ToDays(dosimetry.Calculate(base, phase2, phase3).Final())
}

// =============================================================================
// THREE-PHASE TESTS
// =============================================================================

func TestCalculate_IncreaseOnBaseThenDecreaseOnCurrent(t *testing.T) {
	// GIVEN: 6 years (2160 days)
	// WHEN: phase 2 adds 1/6 of the base (+360 -> 2520)
	//       phase 3 removes 1/6 of the current total (-420 -> 2100)
	// THEN: final sentence is 5 years, 10 months
	reincidencia := op("Reincidência", 1, 6, dosimetry.Increase, dosimetry.TargetBase)
	tentativa := op("Tentativa", 1, 6, dosimetry.Decrease, dosimetry.TargetCurrent)

	state := dosimetry.Calculate(penal.Years(6),
		[]dosimetry.OperationInput{reincidencia},
		[]dosimetry.OperationInput{tentativa},
	)

	want := dosimetry.State{
		Phase1: penal.Duration{Years: 6},
		Phase2: dosimetry.Phase{
			Base:       penal.Duration{Years: 6},
			Operations: []dosimetry.Operation{{OperationInput: reincidencia, Result: penal.Duration{Years: 1}}},
			Result:     penal.Duration{Years: 7},
		},
		Phase3: dosimetry.Phase{
			Base:       penal.Duration{Years: 7},
			Operations: []dosimetry.Operation{{OperationInput: tentativa, Result: penal.Duration{Years: 1, Months: 2}}},
			Result:     penal.Duration{Years: 5, Months: 10},
		},
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2100, penal.ToDays(state.Final()))
}

func TestCalculate_PhaseOneIsIdentity(t *testing.T) {
	base := penal.Duration{Years: 2, Months: 14, Days: 3}
	state := dosimetry.Calculate(base, nil, nil)

	assert.Equal(t, base, state.Phase1, "phase 1 keeps the base as given")
	assert.Equal(t, base, state.Phase2.Base)
	assert.Empty(t, state.Phase2.Operations)
	assert.Empty(t, state.Phase3.Operations)
	assert.Equal(t, penal.ToDays(base), penal.ToDays(state.Final()))
}

func TestApplyPhase_EmptyOperationsReturnsBase(t *testing.T) {
	for _, n := range []int{0, 1, 29, 30, 359, 360, 2160, 10957} {
		phase := dosimetry.ApplyPhase(days(n), nil)
		assert.Equal(t, days(n), phase.Result)
		assert.Equal(t, days(n), phase.Base)
	}
}

func TestApplyPhase_BaseTargetIgnoresEarlierOperations(t *testing.T) {
	// GIVEN: 600 days, two increases of 1/2 on the base
	// THEN: each adds 300, total 1200
	ops := []dosimetry.OperationInput{
		op("a", 1, 2, dosimetry.Increase, dosimetry.TargetBase),
		op("b", 1, 2, dosimetry.Increase, dosimetry.TargetBase),
	}
	phase := dosimetry.ApplyPhase(days(600), ops)

	require.Len(t, phase.Operations, 2)
	assert.Equal(t, 300, penal.ToDays(phase.Operations[0].Result))
	assert.Equal(t, 300, penal.ToDays(phase.Operations[1].Result))
	assert.Equal(t, 1200, penal.ToDays(phase.Result))
}

func TestApplyPhase_CurrentTargetCompounds(t *testing.T) {
	// GIVEN: 600 days, two increases of 1/2 on the running total
	// THEN: +300 then +450, total 1350
	ops := []dosimetry.OperationInput{
		op("a", 1, 2, dosimetry.Increase, dosimetry.TargetCurrent),
		op("b", 1, 2, dosimetry.Increase, dosimetry.TargetCurrent),
	}
	phase := dosimetry.ApplyPhase(days(600), ops)

	assert.Equal(t, 300, penal.ToDays(phase.Operations[0].Result))
	assert.Equal(t, 450, penal.ToDays(phase.Operations[1].Result))
	assert.Equal(t, 1350, penal.ToDays(phase.Result))
}

func TestApplyPhase_OrderChangesResult(t *testing.T) {
	// GIVEN: 100 days, +1/3 and -1/2 both on the running total
	// A then B: 100 + 33 = 133, 133 - 66 = 67
	// B then A: 100 - 50 = 50,  50 + 16 = 66
	a := op("a", 1, 3, dosimetry.Increase, dosimetry.TargetCurrent)
	b := op("b", 1, 2, dosimetry.Decrease, dosimetry.TargetCurrent)

	ab := dosimetry.ApplyPhase(days(100), []dosimetry.OperationInput{a, b})
	ba := dosimetry.ApplyPhase(days(100), []dosimetry.OperationInput{b, a})

	assert.Equal(t, 67, penal.ToDays(ab.Result))
	assert.Equal(t, 66, penal.ToDays(ba.Result))
	assert.NotEqual(t, ab.Result, ba.Result)

	// Operation results follow input order
	assert.Equal(t, "b", ba.Operations[0].Name)
	assert.Equal(t, 50, penal.ToDays(ba.Operations[0].Result))
	assert.Equal(t, 16, penal.ToDays(ba.Operations[1].Result))
}

func TestApplyPhase_DecreaseBelowZeroClampsSilently(t *testing.T) {
	// The clamp is one-way: magnitude removed past zero is lost.
	// GIVEN: 360 days, decrease 2x the base (720), then increase 1/2 of current
	// THEN: running total goes to 0 and stays 0; the stored delta is still 720
	ops := []dosimetry.OperationInput{
		op("big", 2, 1, dosimetry.Decrease, dosimetry.TargetBase),
		op("after", 1, 2, dosimetry.Increase, dosimetry.TargetCurrent),
	}
	phase := dosimetry.ApplyPhase(days(360), ops)

	assert.Equal(t, 720, penal.ToDays(phase.Operations[0].Result))
	assert.Equal(t, 0, penal.ToDays(phase.Operations[1].Result))
	assert.True(t, phase.Result.IsZero())

	// A base-targeted increase after the clamp still sees the frozen base.
	ops[1] = op("after", 1, 2, dosimetry.Increase, dosimetry.TargetBase)
	phase = dosimetry.ApplyPhase(days(360), ops)
	assert.Equal(t, 180, penal.ToDays(phase.Result))
}

func TestApplyPhase_HugeIncreaseNeverShrinksTotal(t *testing.T) {
	// GIVEN: an increase whose delta saturates the day count
	ops := []dosimetry.OperationInput{
		op("huge", math.MaxInt64, 1, dosimetry.Increase, dosimetry.TargetBase),
	}

	// WHEN: applied to one year
	phase := dosimetry.ApplyPhase(days(360), ops)

	// THEN: the running total pins at the maximum instead of wrapping negative
	assert.Equal(t, penal.FromDays(math.MaxInt), phase.Result)
}

func TestApplyPhase_FloorsEachOperation(t *testing.T) {
	// 11 days: each 1/3 floors to 3, so +6 rather than floor(11 x 2/3) = 7
	ops := []dosimetry.OperationInput{
		op("a", 1, 3, dosimetry.Increase, dosimetry.TargetBase),
		op("b", 1, 3, dosimetry.Increase, dosimetry.TargetBase),
	}
	assert.Equal(t, 17, penal.ToDays(dosimetry.ApplyPhase(days(11), ops).Result))
}

func TestApplyPhase_DoesNotMutateInput(t *testing.T) {
	ops := []dosimetry.OperationInput{op("a", 1, 6, dosimetry.Increase, dosimetry.TargetBase)}
	before := ops[0]
	_ = dosimetry.ApplyPhase(days(2160), ops)
	assert.Equal(t, before, ops[0])
}

func TestCalculate_PhaseThreeBaseIsPhaseTwoResult(t *testing.T) {
	// phase 3 "base" targeting must use phase 2's result, not the original base
	p2 := []dosimetry.OperationInput{op("agravante", 1, 2, dosimetry.Increase, dosimetry.TargetBase)}
	p3 := []dosimetry.OperationInput{op("aumento", 1, 3, dosimetry.Increase, dosimetry.TargetBase)}

	// 360 -> 540 -> 540 + 180 = 720
	assert.Equal(t, 720, finalDays(days(360), p2, p3))
}

// =============================================================================
// ENUM PARSING
// =============================================================================

func TestParseOperationEnums(t *testing.T) {
	typ, err := dosimetry.ParseOperationType("decrease")
	require.NoError(t, err)
	assert.Equal(t, dosimetry.Decrease, typ)

	_, err = dosimetry.ParseOperationType("multiply")
	assert.ErrorIs(t, err, dosimetry.ErrInvalidOperationType)

	target, err := dosimetry.ParseOperationTarget("current")
	require.NoError(t, err)
	assert.Equal(t, dosimetry.TargetCurrent, target)

	_, err = dosimetry.ParseOperationTarget("total")
	assert.ErrorIs(t, err, dosimetry.ErrInvalidOperationTarget)
}
