package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikey/llm-doc-router/internal/config"
	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/mikey/llm-doc-router/internal/factory"
	"github.com/mikey/llm-doc-router/internal/logging"
	"github.com/mikey/llm-doc-router/internal/memory"
	"github.com/mikey/llm-doc-router/internal/utils"
	"go.uber.org/zap"
)

var (
	// LLM provider flags
	provider    = flag.String("provider", "gemini", "LLM provider (gemini, openai, bedrock)")
	maxTokens   = flag.Int("max-tokens", 2000, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.1, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for LLM generation")
	maxInput    = flag.Int("max-input-size", 8192, "Maximum document size to send to LLM")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-1.5-flash", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Input flags
	inputFile  = flag.String("file", "", "Input document file (use stdin if not specified)")
	typeHint   = flag.String("hint", "", "Optional format hint (email, json, pdf, text)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := buildConfig()
	if err != nil {
		logger.Fatal("Failed to build configuration", zap.Error(err))
	}

	input, err := readInput()
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	textProcessor := utils.NewTextProcessor(logger)
	oracle, err := factory.NewOracleFactory(cfg, logger, textProcessor).CreateOracle()
	if err != nil {
		logger.Fatal("Failed to create oracle", zap.Error(err))
	}
	defer func() {
		if closer, ok := oracle.(interface{ Close() error }); ok {
			closer.Close()
		}
	}()

	store := memory.NewMemoryStore(logger, memory.DefaultMaxEntries)
	router := core.NewRouterService(
		oracle,
		store,
		core.NewEmailExtractor(oracle, logger),
		core.NewJSONExtractor(oracle, logger),
		core.NewGenericExtractor(oracle, logger),
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := router.Process(ctx, input, *typeHint)
	if err != nil {
		logger.Fatal("Processing failed", zap.Error(err))
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(out))
}

// buildConfig assembles configuration from flags, or from the given
// config file when one is specified
func buildConfig() (*config.Config, error) {
	if *configFile != "" {
		v := config.NewEmptyViper()
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return config.NewFromViper(v), nil
	}

	v := config.NewEmptyViper()
	v.Set("llm.provider", *provider)

	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModelName)
	v.Set("gemini.max_tokens", *maxTokens)
	v.Set("gemini.temperature", *temperature)
	v.Set("gemini.top_p", *topP)
	v.Set("gemini.max_input_size", *maxInput)

	v.Set("openai.api_key", *openaiAPIKey)
	v.Set("openai.model_name", *openaiModelName)
	v.Set("openai.max_tokens", *maxTokens)
	v.Set("openai.temperature", *temperature)
	v.Set("openai.top_p", *topP)
	v.Set("openai.max_input_size", *maxInput)

	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModelID)
	v.Set("bedrock.max_tokens", *maxTokens)
	v.Set("bedrock.temperature", *temperature)
	v.Set("bedrock.top_p", *topP)
	v.Set("bedrock.max_input_size", *maxInput)

	return config.NewFromViper(v), nil
}

// readInput reads the document from the input file or stdin
func readInput() (string, error) {
	if *inputFile != "" {
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
