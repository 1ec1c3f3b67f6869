/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calculation packages from the external API contract.

NAMING CONVENTION:
  - *DTO: Response fragments returned to clients
  - *Request: Request body types from clients
  - *Response: Top-level response wrappers

FRACTIONS:
  A FractionRef names a catalog entry by label, or carries an explicit value
  ("1/6", "16%", "0.5") with a free label:

    {"label": "1/6"}
    {"label": "Causa especial", "value": "2/3"}

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/dosimetry-engine/dosimetry"
	"github.com/warp/dosimetry-engine/fine"
	"github.com/warp/dosimetry-engine/history"
	"github.com/warp/dosimetry-engine/penal"
)

// =============================================================================
// SHARED FRAGMENTS
// =============================================================================

// FractionRef selects a fraction in a request.
type FractionRef = penal.FractionRef

// FractionDTO represents a fraction in responses.
type FractionDTO struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	Num   int64           `json:"num"`
	Den   int64           `json:"den"`
}

// DurationDTO is a duration plus its day count.
type DurationDTO struct {
	penal.Duration
	TotalDays int `json:"total_days"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// EXECUTION (single and batch)
// =============================================================================

type ExecutionRequest struct {
	Base     penal.Duration `json:"base"`
	Fraction FractionRef    `json:"fraction"`
	Mode     string         `json:"mode"`
}

type ExecutionResponse struct {
	ID        string       `json:"id"`
	Mode      string       `json:"mode"`
	Base      DurationDTO  `json:"base"`
	Fraction  FractionDTO  `json:"fraction"`
	Result    DurationDTO  `json:"result"`
	Remaining *DurationDTO `json:"remaining,omitempty"`
	Memorial  string       `json:"memorial"`
}

type BatchItemRequest struct {
	ID       string         `json:"id"`
	Base     penal.Duration `json:"base"`
	Fraction FractionRef    `json:"fraction"`
}

type BatchRequest struct {
	Mode  string             `json:"mode"`
	Items []BatchItemRequest `json:"items"`
}

type BatchItemDTO struct {
	ID       string      `json:"id"`
	Base     DurationDTO `json:"base"`
	Fraction FractionDTO `json:"fraction"`
	Result   DurationDTO `json:"result"`
}

type BatchResponse struct {
	ID          string         `json:"id"`
	Mode        string         `json:"mode"`
	Items       []BatchItemDTO `json:"items"`
	TotalBase   DurationDTO    `json:"total_base"`
	TotalResult DurationDTO    `json:"total_result"`
	Remaining   *DurationDTO   `json:"remaining,omitempty"`
	Memorial    string         `json:"memorial"`
}

// =============================================================================
// DOSIMETRY
// =============================================================================

type OperationRequest = dosimetry.OperationRequest

type DosimetryRequest = dosimetry.Request

type OperationDTO struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Fraction FractionDTO `json:"fraction"`
	Type     string      `json:"type"`
	Target   string      `json:"target"`
	Result   DurationDTO `json:"result"`
}

type PhaseDTO struct {
	Base       DurationDTO    `json:"base"`
	Operations []OperationDTO `json:"operations"`
	Result     DurationDTO    `json:"result"`
}

type DosimetryResponse struct {
	ID       string      `json:"id"`
	Phase1   DurationDTO `json:"phase1"`
	Phase2   PhaseDTO    `json:"phase2"`
	Phase3   PhaseDTO    `json:"phase3"`
	Final    DurationDTO `json:"final"`
	Memorial string      `json:"memorial"`
}

// =============================================================================
// FINES
// =============================================================================

type FineRequest struct {
	Date     string      `json:"date"` // YYYY-MM-DD, date of the offence
	Days     int         `json:"days"` // number of day-fines
	Fraction FractionRef `json:"fraction"`
}

type MinimumWageDTO struct {
	Start string          `json:"start"`
	End   *string         `json:"end,omitempty"`
	Value decimal.Decimal `json:"value"`
	Law   string          `json:"law"`
}

type FineResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Days        int             `json:"days"`
	MinimumWage MinimumWageDTO  `json:"minimum_wage"`
	Fraction    FractionDTO     `json:"fraction"`
	DayValue    decimal.Decimal `json:"day_value"`
	Total       decimal.Decimal `json:"total"`
	Memorial    string          `json:"memorial"`
}

// =============================================================================
// HISTORY
// =============================================================================

type RecordDTO struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Mode      string          `json:"mode,omitempty"`
	Input     json.RawMessage `json:"input"`
	Result    DurationDTO     `json:"result"`
	Report    string          `json:"report"`
	CreatedAt string          `json:"created_at"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDurationDTO(d penal.Duration) DurationDTO {
	return DurationDTO{Duration: d, TotalDays: penal.ToDays(d)}
}

func toDurationDTOPtr(d penal.Duration) *DurationDTO {
	dto := toDurationDTO(d)
	return &dto
}

func toFractionDTO(f penal.Fraction) FractionDTO {
	return FractionDTO{Label: f.String(), Value: f.Value(), Num: f.Num, Den: f.Den}
}

func toFractionDTOs(fs []penal.Fraction) []FractionDTO {
	dtos := make([]FractionDTO, len(fs))
	for i, f := range fs {
		dtos[i] = toFractionDTO(f)
	}
	return dtos
}

func toPhaseDTO(p dosimetry.Phase) PhaseDTO {
	ops := make([]OperationDTO, len(p.Operations))
	for i, op := range p.Operations {
		ops[i] = OperationDTO{
			ID:       op.ID,
			Name:     op.Name,
			Fraction: toFractionDTO(op.Fraction),
			Type:     string(op.Type),
			Target:   string(op.Target),
			Result:   toDurationDTO(op.Result),
		}
	}
	return PhaseDTO{
		Base:       toDurationDTO(p.Base),
		Operations: ops,
		Result:     toDurationDTO(p.Result),
	}
}

func toMinimumWageDTO(w fine.MinimumWage) MinimumWageDTO {
	dto := MinimumWageDTO{
		Start: w.Start.Format(fine.DateLayout),
		Value: w.Value,
		Law:   w.Law,
	}
	if w.End != nil {
		end := w.End.Format(fine.DateLayout)
		dto.End = &end
	}
	return dto
}

func toRecordDTO(r history.Record) RecordDTO {
	return RecordDTO{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Mode:      r.Mode,
		Input:     r.Input,
		Result:    toDurationDTO(r.Result),
		Report:    r.Report,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
