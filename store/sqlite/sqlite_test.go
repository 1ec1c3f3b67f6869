package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/dosimetry-engine/history"
	"github.com/warp/dosimetry-engine/penal"
	"github.com/warp/dosimetry-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndGet(t *testing.T) {
	// GIVEN: a filed execution calculation
	// WHEN: reading it back by ID
	// THEN: every field round-trips
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, time.May, 2, 14, 30, 0, 123000000, time.UTC)
	rec := history.Record{
		ID:        history.NewID(),
		Kind:      history.KindExecution,
		Mode:      "subtracao",
		Input:     json.RawMessage(`{"base":{"years":8}}`),
		Result:    penal.Duration{Years: 1, Months: 4},
		Report:    "MEMÓRIA DE CÁLCULO - REMIÇÃO/DETRAÇÃO\n",
		CreatedAt: created,
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Kind, got.Kind)
	assert.Equal(t, rec.Mode, got.Mode)
	assert.JSONEq(t, string(rec.Input), string(got.Input))
	assert.Equal(t, rec.Result, got.Result)
	assert.Equal(t, rec.Report, got.Report)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestStore_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := history.Record{ID: "calc-1", Kind: history.KindFine, Input: json.RawMessage(`{}`), Report: "x"}
	require.NoError(t, store.Save(ctx, rec))
	assert.ErrorIs(t, store.Save(ctx, rec), history.ErrDuplicateID)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := newTestStore(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestStore_ListNewestFirstWithFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i, kind := range []history.Kind{history.KindExecution, history.KindDosimetry, history.KindExecution, history.KindBatch} {
		require.NoError(t, store.Save(ctx, history.Record{
			ID:        string(rune('a' + i)),
			Kind:      kind,
			Input:     json.RawMessage(`{}`),
			Result:    penal.FromDays(i * 100),
			Report:    "r",
			CreatedAt: t0.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := store.List(ctx, history.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].ID)
	assert.Equal(t, "a", all[3].ID)
	assert.Empty(t, all[0].Mode)

	execs, err := store.List(ctx, history.Filter{Kind: history.KindExecution})
	require.NoError(t, err)
	require.Len(t, execs, 2)
	assert.Equal(t, "c", execs[0].ID)
	assert.Equal(t, penal.FromDays(200), execs[0].Result)

	limited, err := store.List(ctx, history.Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "d", limited[0].ID)
}
