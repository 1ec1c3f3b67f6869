package dosimetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/dosimetry-engine/catalog"
	"github.com/warp/dosimetry-engine/dosimetry"
	"github.com/warp/dosimetry-engine/penal"
)

func TestRequest_Inputs(t *testing.T) {
	// GIVEN: a request naming one catalog fraction and one explicit value
	req := dosimetry.Request{
		BasePenalty: penal.Years(6),
		Phase2: []dosimetry.OperationRequest{
			{ID: "a", Name: "Reincidência", Fraction: penal.FractionRef{Label: "1/6"}, Type: "increase", Target: "base"},
		},
		Phase3: []dosimetry.OperationRequest{
			{Name: "Tentativa", Fraction: penal.FractionRef{Label: "Tentativa", Value: "1/6"}, Type: "decrease", Target: "current"},
		},
	}

	// WHEN: resolving against the embedded catalog
	phase2, phase3, err := req.Inputs(catalog.Default())

	// THEN: enums and fractions are resolved, and the run matches the hand result
	require.NoError(t, err)
	require.Len(t, phase2, 1)
	require.Len(t, phase3, 1)
	assert.Equal(t, dosimetry.Increase, phase2[0].Type)
	assert.Equal(t, dosimetry.TargetBase, phase2[0].Target)
	assert.Equal(t, "Tentativa", phase3[0].Fraction.Label)

	state := dosimetry.Calculate(req.BasePenalty, phase2, phase3)
	assert.Equal(t, penal.Duration{Years: 5, Months: 10}, state.Final())
}

func TestRequest_InputsErrors(t *testing.T) {
	cat := catalog.Default()
	valid := dosimetry.OperationRequest{Name: "x", Fraction: penal.FractionRef{Label: "1/6"}, Type: "increase", Target: "base"}

	tests := []struct {
		name     string
		req      dosimetry.Request
		sentinel error
		where    string
	}{
		{
			name:     "negative base",
			req:      dosimetry.Request{BasePenalty: penal.Duration{Months: -1}},
			sentinel: penal.ErrInvalidDuration,
		},
		{
			name: "bad type",
			req: dosimetry.Request{Phase3: []dosimetry.OperationRequest{
				valid, {Name: "y", Fraction: penal.FractionRef{Label: "1/6"}, Type: "double", Target: "base"},
			}},
			sentinel: dosimetry.ErrInvalidOperationType,
			where:    "phase3[1]",
		},
		{
			name: "bad target",
			req: dosimetry.Request{Phase2: []dosimetry.OperationRequest{
				{Name: "y", Fraction: penal.FractionRef{Label: "1/6"}, Type: "increase", Target: "total"},
			}},
			sentinel: dosimetry.ErrInvalidOperationTarget,
			where:    "phase2[0]",
		},
		{
			name: "unknown fraction",
			req: dosimetry.Request{Phase2: []dosimetry.OperationRequest{
				{Name: "y", Fraction: penal.FractionRef{Label: "7/9"}, Type: "increase", Target: "base"},
			}},
			sentinel: catalog.ErrUnknownFraction,
			where:    "phase2[0]",
		},
		{
			name: "overflowing value",
			req: dosimetry.Request{Phase2: []dosimetry.OperationRequest{
				{Name: "y", Fraction: penal.FractionRef{Label: "y", Value: "1e30"}, Type: "increase", Target: "base"},
			}},
			sentinel: penal.ErrInvalidFraction,
			where:    "phase2[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.req.Inputs(cat)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			if tt.where != "" {
				assert.Contains(t, err.Error(), tt.where)
			}
		})
	}
}
