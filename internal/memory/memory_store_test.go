package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(maxEntries int) *MemoryStore {
	return NewMemoryStore(zap.NewNop(), maxEntries)
}

func testEntry(format, intent string) *core.MemoryEntry {
	return &core.MemoryEntry{
		Source:          "some document text",
		Format:          format,
		Intent:          intent,
		ExtractedData:   map[string]any{"summary": "x"},
		ProcessingAgent: core.AgentBasic,
	}
}

func TestMemoryStore_StoreAssignsUniqueIDs(t *testing.T) {
	store := newTestStore(0)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := store.Store(ctx, testEntry("text", "general"))
		require.NoError(t, err)
		assert.False(t, seen[id], "id %s assigned twice", id)
		seen[id] = true
	}
}

func TestMemoryStore_GetAllOrderedByTimestamp(t *testing.T) {
	store := newTestStore(0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := store.Store(ctx, testEntry("text", "general"))
		require.NoError(t, err)
	}

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 10)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.Before(all[i-1].Timestamp),
			"entries not in timestamp order at index %d", i)
	}
}

func TestMemoryStore_FIFOEviction(t *testing.T) {
	store := newTestStore(3)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		id, err := store.Store(ctx, testEntry("text", "general"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Oldest entry is gone, the rest survive in order
	_, err = store.Get(ctx, ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, ids[1], all[0].ID)
	assert.Equal(t, ids[3], all[2].ID)
}

func TestMemoryStore_CapacityBoundAtFifty(t *testing.T) {
	store := newTestStore(0)
	ctx := context.Background()

	for i := 0; i < DefaultMaxEntries+1; i++ {
		_, err := store.Store(ctx, testEntry("text", "general"))
		require.NoError(t, err)
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxEntries, stats.Total)
}

func TestMemoryStore_Get(t *testing.T) {
	store := newTestStore(0)
	ctx := context.Background()

	id, err := store.Store(ctx, testEntry("email", "rfq"))
	require.NoError(t, err)

	entry, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "email", entry.Format)
	assert.Equal(t, "rfq", entry.Intent)
	assert.False(t, entry.Timestamp.IsZero())

	_, err = store.Get(ctx, "mem_does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetByConversationID(t *testing.T) {
	store := newTestStore(0)
	ctx := context.Background()

	entry := testEntry("email", "rfq")
	entry.ConversationID = "conv-1"
	_, err := store.Store(ctx, entry)
	require.NoError(t, err)

	other := testEntry("email", "complaint")
	other.ConversationID = "conv-2"
	_, err = store.Store(ctx, other)
	require.NoError(t, err)

	matched, err := store.GetByConversationID(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "rfq", matched[0].Intent)
}

func TestMemoryStore_ClearIsIdempotent(t *testing.T) {
	store := newTestStore(0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Store(ctx, testEntry("json", "webhook"))
		require.NoError(t, err)
	}

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestMemoryStore_StatsBreakdownsSumToTotal(t *testing.T) {
	store := newTestStore(0)
	ctx := context.Background()

	formats := []string{"email", "email", "json", "text"}
	intents := []string{"rfq", "complaint", "webhook", "general"}
	for i := range formats {
		_, err := store.Store(ctx, testEntry(formats[i], intents[i]))
		require.NoError(t, err)
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByFormat["email"])

	formatSum := 0
	for _, n := range stats.ByFormat {
		formatSum += n
	}
	intentSum := 0
	for _, n := range stats.ByIntent {
		intentSum += n
	}
	assert.Equal(t, stats.Total, formatSum)
	assert.Equal(t, stats.Total, intentSum)
}

func TestMemoryStore_ConcurrentStores(t *testing.T) {
	store := newTestStore(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := store.Store(ctx, testEntry("text", fmt.Sprintf("intent-%d", i)))
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxEntries, stats.Total)
}
