package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/llm-doc-router/internal/core"
	"go.uber.org/zap"
)

// DefaultMaxEntries bounds the history to the most recent results
const DefaultMaxEntries = 50

var (
	// ErrNotFound is returned when a history entry is not found
	ErrNotFound = errors.New("history entry not found")
)

// MemoryStore is an in-process implementation of the MemoryRepository
// interface. Entries are kept in insertion order and the oldest entry is
// evicted once the capacity bound is exceeded.
type MemoryStore struct {
	entries    []*core.MemoryEntry
	byID       map[string]*core.MemoryEntry
	maxEntries int
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewMemoryStore creates a new in-process history store. maxEntries <= 0
// falls back to DefaultMaxEntries.
func NewMemoryStore(logger *zap.Logger, maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make([]*core.MemoryEntry, 0, maxEntries),
		byID:       make(map[string]*core.MemoryEntry),
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Store inserts an entry, assigning a fresh id and timestamp
func (s *MemoryStore) Store(_ context.Context, entry *core.MemoryEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *entry
	stored.ID = fmt.Sprintf("mem_%s", uuid.NewString())
	stored.Timestamp = time.Now()

	s.entries = append(s.entries, &stored)
	s.byID[stored.ID] = &stored

	// FIFO capacity bound: drop the oldest entry, never refresh on access
	if len(s.entries) > s.maxEntries {
		evicted := s.entries[0]
		s.entries = s.entries[1:]
		delete(s.byID, evicted.ID)
		s.logger.Debug("Evicted oldest history entry",
			zap.String("id", evicted.ID),
			zap.Int("max_entries", s.maxEntries))
	}

	s.logger.Info("History entry stored",
		zap.String("id", stored.ID),
		zap.String("format", stored.Format),
		zap.String("intent", stored.Intent))

	return stored.ID, nil
}

// Get retrieves an entry by id
func (s *MemoryStore) Get(_ context.Context, id string) (*core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

// GetAll returns all entries ordered by timestamp ascending. Consumers
// rely on timestamp order, not container iteration order.
func (s *MemoryStore) GetAll(_ context.Context) ([]*core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*core.MemoryEntry, len(s.entries))
	copy(all, s.entries)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all, nil
}

// GetByConversationID returns entries with a matching conversation id
func (s *MemoryStore) GetByConversationID(_ context.Context, conversationID string) ([]*core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*core.MemoryEntry
	for _, entry := range s.entries {
		if entry.ConversationID == conversationID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// Clear empties the store
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
	s.byID = make(map[string]*core.MemoryEntry)
	s.logger.Info("History cleared")
	return nil
}

// Stats computes format and intent breakdowns over the current contents
func (s *MemoryStore) Stats(_ context.Context) (*core.MemoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &core.MemoryStats{
		Total:    len(s.entries),
		ByFormat: make(map[string]int),
		ByIntent: make(map[string]int),
	}
	for _, entry := range s.entries {
		stats.ByFormat[entry.Format]++
		stats.ByIntent[entry.Intent]++
	}
	return stats, nil
}
