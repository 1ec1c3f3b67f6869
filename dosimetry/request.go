package dosimetry

import (
	"fmt"

	"github.com/warp/dosimetry-engine/penal"
)

// FractionResolver turns a client fraction reference into a Fraction.
// *catalog.Catalog implements it.
type FractionResolver interface {
	Resolve(label, value string) (penal.Fraction, error)
}

// OperationRequest is an operation as received from a client, with enums
// still as strings.
type OperationRequest struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Fraction penal.FractionRef `json:"fraction"`
	Type     string            `json:"type"`   // increase | decrease
	Target   string            `json:"target"` // base | current
}

// Request is a full dosimetry run as received from a client.
type Request struct {
	BasePenalty penal.Duration     `json:"base_penalty"`
	Phase2      []OperationRequest `json:"phase2"`
	Phase3      []OperationRequest `json:"phase3"`
}

// Inputs validates the request and resolves both phases for Calculate.
// Errors name the offending operation, e.g. "phase3[1]: invalid operation type".
func (r Request) Inputs(fr FractionResolver) (phase2, phase3 []OperationInput, err error) {
	if err := r.BasePenalty.Validate(); err != nil {
		return nil, nil, err
	}
	if phase2, err = resolveOperations(fr, "phase2", r.Phase2); err != nil {
		return nil, nil, err
	}
	if phase3, err = resolveOperations(fr, "phase3", r.Phase3); err != nil {
		return nil, nil, err
	}
	return phase2, phase3, nil
}

func resolveOperations(fr FractionResolver, phase string, reqs []OperationRequest) ([]OperationInput, error) {
	ops := make([]OperationInput, len(reqs))
	for i, req := range reqs {
		typ, err := ParseOperationType(req.Type)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", phase, i, err)
		}
		target, err := ParseOperationTarget(req.Target)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", phase, i, err)
		}
		f, err := fr.Resolve(req.Fraction.Label, req.Fraction.Value)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", phase, i, err)
		}
		ops[i] = OperationInput{
			ID:       req.ID,
			Name:     req.Name,
			Fraction: f,
			Type:     typ,
			Target:   target,
		}
	}
	return ops, nil
}
