// Package memory provides an in-memory history.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/dosimetry-engine/history"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records []history.Record
	byID    map[string]int
}

func New() *Memory {
	return &Memory{byID: make(map[string]int)}
}

// Save appends a record. Append-only.
func (m *Memory) Save(_ context.Context, r history.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[r.ID]; ok {
		return history.ErrDuplicateID
	}
	m.byID[r.ID] = len(m.records)
	m.records = append(m.records, r)
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*history.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, history.ErrNotFound
	}
	r := m.records[i]
	return &r, nil
}

func (m *Memory) List(_ context.Context, filter history.Filter) ([]history.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []history.Record
	for _, r := range m.records {
		if filter.Matches(r) {
			result = append(result, r)
		}
	}

	// Newest first; ULIDs break ties within the same timestamp
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

var _ history.Store = (*Memory)(nil)
