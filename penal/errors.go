/*
errors.go - Boundary validation errors for the penal model

PURPOSE:
  The calculation functions are total over non-negative durations and
  fractions and never return errors. These types are for the layers that
  turn raw input (HTTP bodies, CLI flags, catalog files) into values.

USAGE:
  if err := d.Validate(); err != nil {
      if errors.Is(err, penal.ErrInvalidDuration) { ... }
  }
*/
package penal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDuration is returned for durations with negative components.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidFraction is returned for malformed or negative multipliers.
	ErrInvalidFraction = errors.New("invalid fraction")
)

// InvalidDurationError names the offending component.
type InvalidDurationError struct {
	Field string
	Value int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: %s must not be negative (got %d)", e.Field, e.Value)
}

func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// InvalidFractionError carries the raw value that failed to parse.
type InvalidFractionError struct {
	Label  string
	Value  string
	Reason string
}

func (e *InvalidFractionError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("invalid fraction %q (%s): %s", e.Label, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid fraction %s: %s", e.Value, e.Reason)
}

func (e *InvalidFractionError) Unwrap() error { return ErrInvalidFraction }

// IsClientError reports whether err was caused by bad caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDuration) || errors.Is(err, ErrInvalidFraction)
}
