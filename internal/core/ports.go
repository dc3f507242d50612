package core

import (
	"context"
)

// Oracle defines the interface to the external schema-constrained LLM
// capability. Each method corresponds to one extraction task; the exact
// prompt phrasing is an adapter implementation detail.
type Oracle interface {
	// Classify determines the format and business intent of a document.
	// typeHint is an optional caller-supplied format hint.
	Classify(ctx context.Context, input string, typeHint string) (*Classification, error)

	// ExtractEmail produces a structured reading of an email document
	ExtractEmail(ctx context.Context, emailText string) (*EmailExtraction, error)

	// ExtractRecord standardizes already-parsed JSON input into a
	// business record. document is the pretty-printed JSON.
	ExtractRecord(ctx context.Context, document string) (*RecordExtraction, error)

	// Summarize digests an arbitrary document of the given intent
	Summarize(ctx context.Context, input string, intent string) (*Summary, error)
}

// MemoryRepository defines the interface for the bounded processing history
type MemoryRepository interface {
	// Store inserts an entry, assigning a fresh id and timestamp, and
	// evicts the oldest entry when the capacity bound is exceeded.
	// Returns the assigned id.
	Store(ctx context.Context, entry *MemoryEntry) (string, error)

	// Get retrieves an entry by id
	Get(ctx context.Context, id string) (*MemoryEntry, error)

	// GetAll returns all entries ordered by timestamp ascending
	GetAll(ctx context.Context) ([]*MemoryEntry, error)

	// GetByConversationID returns entries with a matching conversation id
	GetByConversationID(ctx context.Context, conversationID string) ([]*MemoryEntry, error)

	// Clear empties the store; idempotent
	Clear(ctx context.Context) error

	// Stats computes format and intent breakdowns, fresh on each call
	Stats(ctx context.Context) (*MemoryStats, error)
}
