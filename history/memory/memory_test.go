package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/dosimetry-engine/history"
	"github.com/warp/dosimetry-engine/history/memory"
	"github.com/warp/dosimetry-engine/penal"
)

func record(id string, kind history.Kind, at time.Time) history.Record {
	return history.Record{
		ID:        id,
		Kind:      kind,
		Input:     []byte(`{}`),
		Result:    penal.Years(1),
		Report:    "MEMÓRIA",
		CreatedAt: at,
	}
}

func TestMemory_SaveGetList(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	t0 := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, record("r1", history.KindExecution, t0)))
	require.NoError(t, store.Save(ctx, record("r2", history.KindDosimetry, t0.Add(time.Minute))))
	require.NoError(t, store.Save(ctx, record("r3", history.KindExecution, t0.Add(2*time.Minute))))

	got, err := store.Get(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, history.KindDosimetry, got.Kind)

	all, err := store.List(ctx, history.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r3", all[0].ID, "newest first")

	execs, err := store.List(ctx, history.Filter{Kind: history.KindExecution, Limit: 1})
	require.NoError(t, err)
	require.Len(t, execs, 1)
	assert.Equal(t, "r3", execs[0].ID)
}

func TestMemory_Errors(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, history.ErrNotFound)

	r := record("dup", history.KindFine, time.Now())
	require.NoError(t, store.Save(ctx, r))
	assert.ErrorIs(t, store.Save(ctx, r), history.ErrDuplicateID)
}

func TestNewID_Sortable(t *testing.T) {
	a := history.NewID()
	time.Sleep(2 * time.Millisecond)
	b := history.NewID()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}
