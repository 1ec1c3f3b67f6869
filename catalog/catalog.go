/*
Package catalog loads the fixed legal tables used by the calculators.

PURPOSE:
  Fractions and minimum wages are enumerated constants fixed by law, not
  logic. They live in catalog.yaml (embedded in the binary) and are turned
  into penal.Fraction and fine.MinimumWage values here. A deployment can
  point the server at its own file when a new minimum wage is published.

YAML SCHEMA:
  execution_fractions:
    - { label: "1/6", value: "1/6" }
  fine_fractions:
    - { label: "1/30 (Mínimo Legal)", value: "1/30" }
  minimum_wages:
    - { start: "2024-01-01", value: "1412.00", law: "Decreto 11.864/2023" }
    - { start: "2023-05-01", end: "2023-12-31", value: "1320.00", law: "..." }

  Fraction values accept "a/b", "N%" and decimal strings. Labels are kept
  verbatim for reports.

USAGE:
  cat := catalog.Default()
  f, ok := cat.Fraction("1/6")
  f, err := cat.Resolve("Causa especial", "2/3")

  // From a file
  cat, err := catalog.Load(file)

SEE ALSO:
  - penal/fraction.go: Fraction parsing
  - fine/wage.go: Wage table lookup
*/
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/dosimetry-engine/fine"
	"github.com/warp/dosimetry-engine/penal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

var (
	// ErrInvalidCatalog wraps every catalog parse failure.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrUnknownFraction is returned by Resolve for a label not in the table.
	ErrUnknownFraction = errors.New("unknown fraction")
)

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

type fileYAML struct {
	ExecutionFractions []fractionYAML `yaml:"execution_fractions"`
	FineFractions      []fractionYAML `yaml:"fine_fractions"`
	MinimumWages       []wageYAML     `yaml:"minimum_wages"`
}

type fractionYAML struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type wageYAML struct {
	Start string `yaml:"start"`
	End   string `yaml:"end,omitempty"`
	Value string `yaml:"value"`
	Law   string `yaml:"law"`
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog holds the parsed tables in file order.
type Catalog struct {
	ExecutionFractions []penal.Fraction
	FineFractions      []penal.Fraction
	MinimumWages       fine.Table
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// malformed, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(defaultYAML))
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load parses a catalog file.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw fileYAML
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	execution, err := parseFractions("execution_fractions", raw.ExecutionFractions)
	if err != nil {
		return nil, err
	}
	fines, err := parseFractions("fine_fractions", raw.FineFractions)
	if err != nil {
		return nil, err
	}
	wages, err := parseWages(raw.MinimumWages)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		ExecutionFractions: execution,
		FineFractions:      fines,
		MinimumWages:       wages,
	}, nil
}

// Fraction finds an execution fraction by label.
func (c *Catalog) Fraction(label string) (penal.Fraction, bool) {
	return findByLabel(c.ExecutionFractions, label)
}

// FineFraction finds a fine fraction by label.
func (c *Catalog) FineFraction(label string) (penal.Fraction, bool) {
	return findByLabel(c.FineFractions, label)
}

// Resolve returns the fraction a request names. An explicit value wins and
// keeps the given label; otherwise the label must be an execution fraction.
func (c *Catalog) Resolve(label, value string) (penal.Fraction, error) {
	return resolve(c.ExecutionFractions, label, value)
}

// ResolveFine is Resolve over the fine fractions.
func (c *Catalog) ResolveFine(label, value string) (penal.Fraction, error) {
	return resolve(c.FineFractions, label, value)
}

func resolve(fs []penal.Fraction, label, value string) (penal.Fraction, error) {
	if value != "" {
		return penal.ParseFraction(label, value)
	}
	f, ok := findByLabel(fs, label)
	if !ok {
		return penal.Fraction{}, fmt.Errorf("%w %q", ErrUnknownFraction, label)
	}
	return f, nil
}

func findByLabel(fs []penal.Fraction, label string) (penal.Fraction, bool) {
	for _, f := range fs {
		if f.Label == label {
			return f, true
		}
	}
	return penal.Fraction{}, false
}

func parseFractions(section string, raw []fractionYAML) ([]penal.Fraction, error) {
	out := make([]penal.Fraction, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, r := range raw {
		if r.Label == "" {
			return nil, fmt.Errorf("%w: %s[%d]: label is required", ErrInvalidCatalog, section, i)
		}
		if seen[r.Label] {
			return nil, fmt.Errorf("%w: %s[%d]: duplicate label %q", ErrInvalidCatalog, section, i, r.Label)
		}
		seen[r.Label] = true

		f, err := penal.ParseFraction(r.Label, r.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", ErrInvalidCatalog, section, i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func parseWages(raw []wageYAML) (fine.Table, error) {
	table := make(fine.Table, 0, len(raw))
	for i, r := range raw {
		start, err := fine.ParseDate(r.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: minimum_wages[%d]: %w", ErrInvalidCatalog, i, err)
		}

		w := fine.MinimumWage{Start: start, Law: r.Law}
		if r.End != "" {
			end, err := fine.ParseDate(r.End)
			if err != nil {
				return nil, fmt.Errorf("%w: minimum_wages[%d]: %w", ErrInvalidCatalog, i, err)
			}
			if end.Before(start) {
				return nil, fmt.Errorf("%w: minimum_wages[%d]: end before start", ErrInvalidCatalog, i)
			}
			w.End = &end
		}

		w.Value, err = decimal.NewFromString(r.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: minimum_wages[%d]: value %q: %v", ErrInvalidCatalog, i, r.Value, err)
		}
		table = append(table, w)
	}
	return table, nil
}
