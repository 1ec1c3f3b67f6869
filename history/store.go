/*
store.go - Persistence interface for calculation memorials

PURPOSE:
  Every calculation served by the API is filed as a Record: the input as
  received, the resulting duration and the memorial text. Records are the
  audit trail for a result handed to a court clerk; they are never edited.

KEY INTERFACES:
  Store: Save, Get, List

APPEND-ONLY CONTRACT:
  There is no Update or Delete. A corrected calculation is a new Record.

IMPLEMENTATIONS:
  - history/memory: In-memory for tests and dev
  - store/sqlite:   SQLite, schema auto-migrated

SEE ALSO:
  - api/handlers.go: Files a record per calculation
*/
package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/warp/dosimetry-engine/penal"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when saving a record whose ID already exists.
	ErrDuplicateID = errors.New("duplicate record id")
)

// =============================================================================
// RECORD
// =============================================================================

type Kind string

const (
	KindExecution Kind = "execution"
	KindBatch     Kind = "batch"
	KindDosimetry Kind = "dosimetry"
	KindFine      Kind = "fine"
)

// Record is one filed calculation.
type Record struct {
	ID        string
	Kind      Kind
	Mode      string // report mode, empty for dosimetry and fines
	Input     json.RawMessage
	Result    penal.Duration
	Report    string
	CreatedAt time.Time
}

// NewID returns a lexically sortable record ID.
func NewID() string {
	return ulid.Make().String()
}

// =============================================================================
// STORE
// =============================================================================

type Store interface {
	// Save persists a record. Fails with ErrDuplicateID if the ID exists.
	Save(ctx context.Context, r Record) error

	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest first.
	List(ctx context.Context, filter Filter) ([]Record, error)
}

// Filter narrows List. Zero values mean "no constraint".
type Filter struct {
	Kind  Kind
	Limit int
}

// Matches reports whether r passes the filter's predicates (Limit excluded).
func (f Filter) Matches(r Record) bool {
	return f.Kind == "" || r.Kind == f.Kind
}
