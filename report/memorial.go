package report

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warp/dosimetry-engine/penal"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects between accumulating time (soma) and removing it (subtracao).
type Mode string

const (
	ModeSum         Mode = "soma"
	ModeSubtraction Mode = "subtracao"
)

var ErrInvalidMode = errors.New("invalid mode")

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSum, ModeSubtraction:
		return m, nil
	}
	return "", fmt.Errorf("%w %q: use %q or %q", ErrInvalidMode, s, ModeSum, ModeSubtraction)
}

// Title is the memorial header suffix. Anything other than soma reads as a
// remission/detraction.
func (m Mode) Title() string {
	if m == ModeSum {
		return "SOMA/PROGRESSÃO"
	}
	return "REMIÇÃO/DETRAÇÃO"
}

// =============================================================================
// SINGLE CALCULATION
// =============================================================================

// GenerateMemoryString renders one calculation. In subtraction mode a
// "Tempo Restante" line shows base minus result.
func GenerateMemoryString(base penal.Duration, fractionLabel string, result penal.Duration, mode Mode) string {
	var out lines
	out.line("MEMÓRIA DE CÁLCULO - ", mode.Title())
	out.line(Separator)
	out.field("Pena Base", FormatDuration(base))
	out.field("Fração Aplicada", fractionLabel)
	out.line(Separator)
	out.field("Resultado", FormatDuration(result))
	if mode == ModeSubtraction {
		out.field("Tempo Restante", FormatDuration(penal.SubtractDuration(base, result)))
	}
	return out.String()
}

// =============================================================================
// BATCH CALCULATION
// =============================================================================

// CalculationItem is one line of a batch. ID is opaque to the generator.
type CalculationItem struct {
	ID            string
	Base          penal.Duration
	FractionValue decimal.Decimal
	FractionLabel string
	Result        penal.Duration
}

// NewCalculationItem computes the result of applying f to base.
func NewCalculationItem(id string, base penal.Duration, f penal.Fraction) CalculationItem {
	return CalculationItem{
		ID:            id,
		Base:          base,
		FractionValue: f.Value(),
		FractionLabel: f.String(),
		Result:        penal.CalculateExecution(base, f),
	}
}

// Totals are the aggregated day counts of a batch.
type Totals struct {
	BaseDays   int
	ResultDays int
}

func (t Totals) Base() penal.Duration   { return penal.FromDays(t.BaseDays) }
func (t Totals) Result() penal.Duration { return penal.FromDays(t.ResultDays) }

// Remaining is computed from the aggregates, not from per-item remainders.
func (t Totals) Remaining() penal.Duration {
	return penal.SubtractDuration(t.Base(), t.Result())
}

// Aggregate sums base and result day counts in input order.
func Aggregate(items []CalculationItem) Totals {
	var t Totals
	for _, item := range items {
		t.BaseDays += penal.ToDays(item.Base)
		t.ResultDays += penal.ToDays(item.Result)
	}
	return t
}

// GenerateReport renders a batch: one numbered block per item, blank lines
// between blocks, then the aggregate section. "Pena Total" appears only for
// more than one item; "Tempo Restante" only in subtraction mode.
func GenerateReport(items []CalculationItem, mode Mode) string {
	var out lines
	out.line("MEMÓRIA DE CÁLCULO - ", mode.Title())
	out.line(Separator)

	for i, item := range items {
		if i > 0 {
			out.line()
		}
		out.line("Cálculo ", strconv.Itoa(i+1), ":")
		out.field("Pena Base", FormatDuration(item.Base))
		out.field("Fração Aplicada", item.FractionLabel)
		out.field("Resultado Parcial", FormatDuration(item.Result))
	}

	totals := Aggregate(items)
	out.line(Separator)
	if len(items) > 1 {
		out.field("Pena Total", FormatDuration(totals.Base()))
	}
	out.field("Resultado Total", FormatDuration(totals.Result()))
	if mode == ModeSubtraction {
		out.field("Tempo Restante", FormatDuration(totals.Remaining()))
	}
	return out.String()
}
