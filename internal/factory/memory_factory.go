package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/llm-doc-router/internal/config"
	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/mikey/llm-doc-router/internal/memory"
	"go.uber.org/zap"
)

// MemoryFactory creates history stores based on configuration
type MemoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMemoryFactory creates a new memory factory
func NewMemoryFactory(cfg *config.Config, logger *zap.Logger) *MemoryFactory {
	return &MemoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMemoryRepository creates a history store based on the configuration
func (f *MemoryFactory) CreateMemoryRepository() (core.MemoryRepository, error) {
	memCfg := f.cfg.GetMemory()

	switch memCfg.Type {
	case "memory":
		return memory.NewMemoryStore(f.logger, memCfg.MaxEntries), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(memCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return memory.NewSQLiteStore(memCfg.SQLitePath, f.logger, memCfg.MaxEntries)
	case "mysql":
		return memory.NewMySQLStore(memCfg.MySQLDSN, f.logger, memCfg.MaxEntries)
	default:
		return nil, fmt.Errorf("unsupported memory type: %s", memCfg.Type)
	}
}
