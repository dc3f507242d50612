package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/mikey/llm-doc-router/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the MemoryRepository interface
type MySQLStore struct {
	db         *sql.DB
	maxEntries int
	logger     *zap.Logger
}

// NewMySQLStore creates a new MySQL-backed history store
func NewMySQLStore(dsn string, logger *zap.Logger, maxEntries int) (*MySQLStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history_entries (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) UNIQUE NOT NULL,
			created_at VARCHAR(64) NOT NULL,
			source TEXT,
			format VARCHAR(32),
			intent VARCHAR(32),
			extracted_data JSON,
			conversation_id VARCHAR(255),
			anomalies JSON,
			processing_agent VARCHAR(64),
			INDEX idx_conversation_id (conversation_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:         db,
		maxEntries: maxEntries,
		logger:     logger,
	}, nil
}

// Store inserts an entry and trims the table back to the capacity bound
func (s *MySQLStore) Store(ctx context.Context, entry *core.MemoryEntry) (string, error) {
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

	// MySQL cannot delete from a table referenced in a subquery directly,
	// hence the derived-table wrapper
	_, err = tx.ExecContext(ctx, `
		DELETE FROM history_entries
		WHERE seq NOT IN (
			SELECT seq FROM (
				SELECT seq FROM history_entries ORDER BY seq DESC LIMIT ?
			) keep
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
func (s *MySQLStore) Get(ctx context.Context, id string) (*core.MemoryEntry, error) {
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
func (s *MySQLStore) GetAll(ctx context.Context) ([]*core.MemoryEntry, error) {
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
func (s *MySQLStore) GetByConversationID(ctx context.Context, conversationID string) ([]*core.MemoryEntry, error) {
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
func (s *MySQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history_entries`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.logger.Info("History cleared")
	return nil
}

// Stats computes format and intent breakdowns over the current contents
func (s *MySQLStore) Stats(ctx context.Context) (*core.MemoryStats, error) {
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
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
