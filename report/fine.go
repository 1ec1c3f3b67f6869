package report

import (
	"strconv"

	"github.com/warp/dosimetry-engine/fine"
)

// FineMemorial renders a priced fine.
func FineMemorial(r fine.Result) string {
	var out lines
	out.line("MEMÓRIA DE CÁLCULO - PENA DE MULTA")
	out.line(Separator)
	out.field("Dias-Multa", strconv.Itoa(r.Days))
	out.field("Data do Fato", r.Date.Format(fine.DateLayout))
	out.line("Salário Mínimo: ", FormatBRL(r.Wage.Value), " (", r.Wage.Law, ")")
	out.field("Fração Aplicada", r.Fraction.String())
	out.field("Valor do Dia-Multa", FormatBRL(r.DayValue))
	out.line(Separator)
	out.field("Valor Total", FormatBRL(r.Total))
	return out.String()
}
