package gemini

import (
	"github.com/mikey/llm-doc-router/internal/config"
	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/mikey/llm-doc-router/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiOracle
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for GeminiOracle instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateOracle creates a new GeminiOracle
func (f *Factory) CreateOracle() (core.Oracle, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewGeminiOracle(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxInputSize,
		f.logger,
		f.textProcessor,
	)
}
