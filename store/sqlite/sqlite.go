/*
Package sqlite provides a SQLite-backed history.Store.

PURPOSE:
  Files calculation memorials in a single SQLite database. The same schema
  ports to PostgreSQL with minor dialect changes.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the calculations table
  - No DELETE statements on the calculations table
  - A corrected calculation is a new row

KEY TABLES:
  calculations: One row per filed calculation (input, result, memorial)

INDEXES:
  - idx_calculations_created_at: history listing (hot path)
  - idx_calculations_kind:       listing by kind

CONCURRENCY:
  Writes are serialized with a mutex. WAL mode lets readers proceed while a
  write is in progress.

USAGE:
  store, err := sqlite.New("./data/dosimetry.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - history/store.go: Interface definition
  - history/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/dosimetry-engine/history"
	"github.com/warp/dosimetry-engine/penal"
)

// timeLayout has fixed-width fractional seconds so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements history.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ history.Store = (*Store)(nil)

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection to :memory: would be a separate database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection; used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	-- Calculations (append-only)
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		mode TEXT,
		input_json TEXT NOT NULL,
		result_years INTEGER NOT NULL,
		result_months INTEGER NOT NULL,
		result_days INTEGER NOT NULL,
		result_total_days INTEGER NOT NULL,
		report TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_created_at
		ON calculations(created_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_calculations_kind
		ON calculations(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HISTORY STORE (history.Store interface)
// =============================================================================

// Save files a calculation.
func (s *Store) Save(ctx context.Context, r history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO calculations
		(id, kind, mode, input_json, result_years, result_months, result_days,
		 result_total_days, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		string(r.Kind),
		nullString(r.Mode),
		string(r.Input),
		r.Result.Years,
		r.Result.Months,
		r.Result.Days,
		penal.ToDays(r.Result),
		r.Report,
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return history.ErrDuplicateID
		}
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// Get returns a single calculation.
func (s *Store) Get(ctx context.Context, id string) (*history.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get calculation: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, history.ErrNotFound
	}
	return &records[0], nil
}

// List returns calculations newest first.
func (s *Store) List(ctx context.Context, filter history.Filter) ([]history.Record, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	return scanRecords(rows)
}

const selectColumns = `
	SELECT id, kind, mode, input_json, result_years, result_months, result_days,
	       report, created_at
	FROM calculations`

func scanRecords(rows *sql.Rows) ([]history.Record, error) {
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var (
			r         history.Record
			kind      string
			mode      sql.NullString
			input     string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &kind, &mode, &input,
			&r.Result.Years, &r.Result.Months, &r.Result.Days,
			&r.Report, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		r.Kind = history.Kind(kind)
		r.Mode = mode.String
		r.Input = []byte(input)

		t, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}
		r.CreatedAt = t
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
