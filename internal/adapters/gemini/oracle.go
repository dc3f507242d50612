package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-doc-router/internal/adapters/prompts"
	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/mikey/llm-doc-router/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiOracle is an implementation of the Oracle interface using Google Gemini
type GeminiOracle struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiOracle creates a new Gemini oracle
func NewGeminiOracle(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiOracle, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	return &GeminiOracle{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxInputSize:  maxInputSize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (o *GeminiOracle) Close() error {
	if o.client != nil {
		return o.client.Close()
	}
	return nil
}

// generate runs one prompt through the model and returns the raw text
func (o *GeminiOracle) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: failed to generate content with Gemini: %v", core.ErrOracle, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response from Gemini", core.ErrOracle)
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// Classify determines the format and business intent of a document
func (o *GeminiOracle) Classify(ctx context.Context, input string, typeHint string) (*core.Classification, error) {
	processed := o.textProcessor.ProcessText(input, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Classify(processed, typeHint))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeClassification(responseText)
}

// ExtractEmail produces a structured reading of an email document
func (o *GeminiOracle) ExtractEmail(ctx context.Context, emailText string) (*core.EmailExtraction, error) {
	processed := o.textProcessor.ProcessText(emailText, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Email(processed))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeEmailExtraction(responseText)
}

// ExtractRecord standardizes parsed JSON input into a business record
func (o *GeminiOracle) ExtractRecord(ctx context.Context, document string) (*core.RecordExtraction, error) {
	processed := o.textProcessor.ProcessText(document, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Record(processed))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeRecordExtraction(responseText)
}

// Summarize digests an arbitrary document of the given intent
func (o *GeminiOracle) Summarize(ctx context.Context, input string, intent string) (*core.Summary, error) {
	processed := o.textProcessor.ProcessText(input, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Summary(processed, intent))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeSummary(responseText)
}
