package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-doc-router/internal/config"
	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/mikey/llm-doc-router/internal/factory"
	"github.com/mikey/llm-doc-router/internal/intake"
	"github.com/mikey/llm-doc-router/internal/logging"
	"github.com/mikey/llm-doc-router/internal/server"
	"github.com/mikey/llm-doc-router/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewOracleFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMemoryFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register oracle
	if err := container.Provide(func(f *factory.OracleFactory) (core.Oracle, error) {
		return f.CreateOracle()
	}); err != nil {
		return nil, err
	}

	// Register history store
	if err := container.Provide(func(f *factory.MemoryFactory) (core.MemoryRepository, error) {
		return f.CreateMemoryRepository()
	}); err != nil {
		return nil, err
	}

	// Register extractors
	if err := container.Provide(func(oracle core.Oracle, logger *zap.Logger) *core.EmailExtractor {
		return core.NewEmailExtractor(oracle, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(oracle core.Oracle, logger *zap.Logger) *core.JSONExtractor {
		return core.NewJSONExtractor(oracle, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(oracle core.Oracle, logger *zap.Logger) *core.GenericExtractor {
		return core.NewGenericExtractor(oracle, logger)
	}); err != nil {
		return nil, err
	}

	// Register router service
	if err := container.Provide(core.NewRouterService); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(server.NewServer); err != nil {
		return nil, err
	}

	// Register SMTP intake
	if err := container.Provide(intake.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}
