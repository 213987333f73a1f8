package oplog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_EmptyHasNoBatch(t *testing.T) {
	_, entries, ok, err := New().LastBatch()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, entries)
}

func TestLog_RecordAndLastBatch(t *testing.T) {
	log := New()

	w, err := log.Begin(false)
	require.NoError(t, err)
	require.NoError(t, w.Record("/r/Images/a.jpg", "/r/a.jpg", true, nil))
	require.NoError(t, w.Record("/r/Docs/b.txt", "/r/b.txt", false, errors.New("permission denied")))

	batch, entries, ok, err := log.LastBatch()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, w.Batch().ID, batch.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Seq)
	assert.Equal(t, 1, entries[1].Seq)
	assert.True(t, entries[0].Succeeded)
	assert.False(t, entries[1].Succeeded)
	assert.Equal(t, "permission denied", entries[1].Error)
}

func TestLog_BatchIDsIncrease(t *testing.T) {
	log := New()
	w1, err := log.Begin(false)
	require.NoError(t, err)
	w2, err := log.Begin(true)
	require.NoError(t, err)
	w3, err := log.Begin(false)
	require.NoError(t, err)

	assert.Less(t, w1.Batch().ID, w2.Batch().ID)
	assert.Less(t, w2.Batch().ID, w3.Batch().ID)
}

func TestLog_DryRunBatchIsNotUndoTarget(t *testing.T) {
	log := New()

	live, err := log.Begin(false)
	require.NoError(t, err)
	require.NoError(t, live.Record("/r/X/a", "/r/a", true, nil))

	dry, err := log.Begin(true)
	require.NoError(t, err)
	require.NoError(t, dry.Record("/r/X/b", "/r/b", false, errors.New("denied")))

	batch, entries, ok, err := log.LastBatch()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, live.Batch().ID, batch.ID)
	assert.Len(t, entries, 1)
}

func TestLog_CompleteIsSingleLevel(t *testing.T) {
	store := NewMemoryStore()
	log := NewWithStore(store)

	first, err := log.Begin(false)
	require.NoError(t, err)
	require.NoError(t, first.Record("/r/X/a", "/r/a", true, nil))

	second, err := log.Begin(false)
	require.NoError(t, err)
	require.NoError(t, second.Record("/r/X/b", "/r/b", true, nil))

	require.NoError(t, log.Complete(second.Batch().ID))
	assert.Equal(t, 1, store.Len())

	// 最近的批次已撤销，不会回退到更早的批次
	_, _, ok, err := log.LastBatch()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_UnknownBatch(t *testing.T) {
	store := NewMemoryStore()
	assert.Error(t, store.AppendEntry(Entry{BatchID: 42}))
	assert.Error(t, store.MarkUndone(42))
}
