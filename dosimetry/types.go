/*
Package dosimetry implements the three-phase method of fixing a sentence.

PURPOSE:
  A sentence is fixed in three strictly ordered phases:
    1. Pena base:    the judge sets the base penalty (identity here)
    2. Second phase: aggravating and mitigating circumstances
    3. Third phase:  causes of increase and decrease

  Each phase starts from a base duration and applies an ordered list of
  proportional operations. Every operation either increases or decreases a
  running total, and its fraction is computed against either the phase base
  or the running total at that point in the list.

KEY CONCEPTS IN THIS FILE (types.go):
  - OperationType:   increase | decrease
  - OperationTarget: base | current
  - OperationInput:  what the caller supplies (no result yet)
  - Operation:       an input plus its computed delta
  - Phase / State:   per-phase and whole-run results

ORDER MATTERS:
  Operations targeting "current" see every earlier operation of the same
  phase, so the list order is the evaluation order. Nothing is reordered.

SEE ALSO:
  - engine.go: Calculate and ApplyPhase
  - report/dosimetry.go: Memorial rendering of a State
*/
package dosimetry

import (
	"fmt"

	"github.com/warp/dosimetry-engine/penal"
)

// =============================================================================
// OPERATION ENUMS
// =============================================================================

type OperationType string

const (
	Increase OperationType = "increase"
	Decrease OperationType = "decrease"
)

func (t OperationType) Valid() bool { return t == Increase || t == Decrease }

// ParseOperationType is for boundary layers; the engine trusts its input.
func ParseOperationType(s string) (OperationType, error) {
	t := OperationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperationType, s)
	}
	return t, nil
}

type OperationTarget string

const (
	TargetBase    OperationTarget = "base"    // fraction of the phase's starting value
	TargetCurrent OperationTarget = "current" // fraction of the running total
)

func (t OperationTarget) Valid() bool { return t == TargetBase || t == TargetCurrent }

func ParseOperationTarget(s string) (OperationTarget, error) {
	t := OperationTarget(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperationTarget, s)
	}
	return t, nil
}

// =============================================================================
// OPERATIONS & PHASES
// =============================================================================

// OperationInput is one adjustment as supplied by the caller.
type OperationInput struct {
	ID       string
	Name     string
	Fraction penal.Fraction
	Type     OperationType
	Target   OperationTarget
}

// Operation is an OperationInput with its computed delta.
// Result is the amount added or removed, not the new running total.
type Operation struct {
	OperationInput
	Result penal.Duration
}

// Phase is the outcome of one dosimetry phase.
type Phase struct {
	Base       penal.Duration
	Operations []Operation
	Result     penal.Duration
}

// State is the outcome of a full three-phase run.
type State struct {
	Phase1 penal.Duration // pena base
	Phase2 Phase
	Phase3 Phase
}

// Final returns the definitive sentence.
func (s State) Final() penal.Duration { return s.Phase3.Result }
