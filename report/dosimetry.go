package report

import (
	"github.com/warp/dosimetry-engine/dosimetry"
)

// DosimetryMemorial renders a three-phase run, one section per phase, with
// each operation's delta and the reference it was computed against.
func DosimetryMemorial(state dosimetry.State) string {
	var out lines
	out.line("DOSIMETRIA DA PENA")
	out.line(Separator)
	out.field("1ª Fase - Pena Base", FormatDuration(state.Phase1))
	out.line(Separator)
	writePhase(&out, "2ª Fase - Agravantes e Atenuantes", state.Phase2)
	out.line(Separator)
	writePhase(&out, "3ª Fase - Causas de Aumento e Diminuição", state.Phase3)
	out.line(Separator)
	out.field("Pena Definitiva", FormatDuration(state.Final()))
	return out.String()
}

func writePhase(out *lines, title string, phase dosimetry.Phase) {
	out.line(title)
	out.field("Base", FormatDuration(phase.Base))
	if len(phase.Operations) == 0 {
		out.line("Nenhuma operação")
	}
	for _, op := range phase.Operations {
		sign := "(+) "
		if op.Type == dosimetry.Decrease {
			sign = "(-) "
		}
		reference := "sobre a pena atual"
		if op.Target == dosimetry.TargetBase {
			reference = "sobre a base"
		}
		out.line(sign, op.Name, " [", op.Fraction.String(), " ", reference, "]: ", FormatDuration(op.Result))
	}
	out.field("Resultado", FormatDuration(phase.Result))
}
