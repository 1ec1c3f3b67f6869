/*
Package report renders calculation memorials.

PURPOSE:
  A memorial is the fixed-format text explaining how a result was derived,
  printed and filed with the execution records. Layout, labels, casing and
  separators are part of the contract: downstream consumers compare reports
  byte for byte.

LAYOUT RULES:
  - Header line, then a 40-dash separator
  - One "Label: value" per line, every line ending in "\n"
  - Durations are rendered by FormatDuration

SEE ALSO:
  - memorial.go: Single and batch calculation memorials
  - dosimetry.go: Three-phase memorial
  - fine.go: Fine memorial
*/
package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/dosimetry-engine/penal"
)

// Separator is the fixed-width rule between memorial sections.
var Separator = strings.Repeat("-", 40)

// FormatDuration renders d as "1 ano, 4 meses, 2 dias", skipping zero
// components. The days clause is forced when nothing else was emitted, so the
// zero duration renders as "0 dia".
func FormatDuration(d penal.Duration) string {
	parts := make([]string, 0, 3)
	if d.Years > 0 {
		parts = append(parts, plural(d.Years, "ano", "anos"))
	}
	if d.Months > 0 {
		parts = append(parts, plural(d.Months, "mês", "meses"))
	}
	if d.Days > 0 || len(parts) == 0 {
		parts = append(parts, plural(d.Days, "dia", "dias"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	word := many
	if n == 1 {
		word = one
	}
	return strconv.Itoa(n) + " " + word
}

// FormatBRL renders an amount as Brazilian currency: "R$ 1.412,00".
func FormatBRL(v decimal.Decimal) string {
	fixed := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString("R$ ")
	if v.IsNegative() {
		b.WriteString("-")
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

type lines struct {
	strings.Builder
}

func (l *lines) line(parts ...string) {
	for _, p := range parts {
		l.WriteString(p)
	}
	l.WriteByte('\n')
}

func (l *lines) field(label, value string) {
	l.line(label, ": ", value)
}
