package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/llm-doc-router/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the MemoryRepository
// interface. History survives restarts but keeps the same capacity
// bound and FIFO eviction as the in-process store.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int
	logger     *zap.Logger
}

// NewSQLiteStore creates a new SQLite-backed history store
func NewSQLiteStore(dbPath string, logger *zap.Logger, maxEntries int) (*SQLiteStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history_entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			created_at TIMESTAMP NOT NULL,
			source TEXT,
			format TEXT,
			intent TEXT,
			extracted_data TEXT,
			conversation_id TEXT,
			anomalies TEXT,
			processing_agent TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_conversation_id ON history_entries(conversation_id)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteStore{
		db:         db,
		maxEntries: maxEntries,
		logger:     logger,
	}, nil
}

// Store inserts an entry and trims the table back to the capacity bound
func (s *SQLiteStore) Store(ctx context.Context, entry *core.MemoryEntry) (string, error) {
	id := fmt.Sprintf("mem_%s", uuid.NewString())
	now := time.Now()

	dataJSON, err := json.Marshal(entry.ExtractedData)
	if err != nil {
		return "", fmt.Errorf("failed to encode extracted data: %w", err)
	}
	anomaliesJSON, err := json.Marshal(entry.Anomalies)
	if err != nil {
		return "", fmt.Errorf("failed to encode anomalies: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history_entries
			(id, created_at, source, format, intent, extracted_data, conversation_id, anomalies, processing_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, now.Format(time.RFC3339Nano), entry.Source, entry.Format, entry.Intent,
		string(dataJSON), entry.ConversationID, string(anomaliesJSON), entry.ProcessingAgent)
	if err != nil {
		return "", fmt.Errorf("failed to insert history entry: %w", err)
	}

	// FIFO eviction by insertion sequence
	_, err = tx.ExecContext(ctx, `
		DELETE FROM history_entries
		WHERE seq NOT IN (
			SELECT seq FROM history_entries ORDER BY seq DESC LIMIT ?
		)
	`, s.maxEntries)
	if err != nil {
		return "", fmt.Errorf("failed to trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit history entry: %w", err)
	}

	s.logger.Info("History entry stored",
		zap.String("id", id),
		zap.String("format", entry.Format),
		zap.String("intent", entry.Intent))

	return id, nil
}

// Get retrieves an entry by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*core.MemoryEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source, format, intent, extracted_data, conversation_id, anomalies, processing_agent
		FROM history_entries
		WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history entry: %w", err)
	}
	return entry, nil
}

// GetAll returns all entries ordered by timestamp ascending
func (s *SQLiteStore) GetAll(ctx context.Context) ([]*core.MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source, format, intent, extracted_data, conversation_id, anomalies, processing_agent
		FROM history_entries
		ORDER BY created_at ASC, seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetByConversationID returns entries with a matching conversation id
func (s *SQLiteStore) GetByConversationID(ctx context.Context, conversationID string) ([]*core.MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source, format, intent, extracted_data, conversation_id, anomalies, processing_agent
		FROM history_entries
		WHERE conversation_id = ?
		ORDER BY seq ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history by conversation: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// Clear empties the store
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history_entries`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.logger.Info("History cleared")
	return nil
}

// Stats computes format and intent breakdowns over the current contents
func (s *SQLiteStore) Stats(ctx context.Context) (*core.MemoryStats, error) {
	stats := &core.MemoryStats{
		ByFormat: make(map[string]int),
		ByIntent: make(map[string]int),
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history_entries`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count history entries: %w", err)
	}

	if err := groupCount(ctx, s.db, `SELECT format, COUNT(*) FROM history_entries GROUP BY format`, stats.ByFormat); err != nil {
		return nil, err
	}
	if err := groupCount(ctx, s.db, `SELECT intent, COUNT(*) FROM history_entries GROUP BY intent`, stats.ByIntent); err != nil {
		return nil, err
	}

	return stats, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*core.MemoryEntry, error) {
	var entry core.MemoryEntry
	var createdAt, dataJSON, anomaliesJSON string

	err := row.Scan(&entry.ID, &createdAt, &entry.Source, &entry.Format, &entry.Intent,
		&dataJSON, &entry.ConversationID, &anomaliesJSON, &entry.ProcessingAgent)
	if err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	entry.Timestamp = ts

	if dataJSON != "" {
		var data any
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, fmt.Errorf("failed to decode extracted data: %w", err)
		}
		entry.ExtractedData = data
	}
	if anomaliesJSON != "" && anomaliesJSON != "null" {
		if err := json.Unmarshal([]byte(anomaliesJSON), &entry.Anomalies); err != nil {
			return nil, fmt.Errorf("failed to decode anomalies: %w", err)
		}
	}

	return &entry, nil
}

func collectEntries(rows *sql.Rows) ([]*core.MemoryEntry, error) {
	var entries []*core.MemoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history entries: %w", err)
	}
	return entries, nil
}

func groupCount(ctx context.Context, db *sql.DB, query string, into map[string]int) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query history breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan history breakdown: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}
