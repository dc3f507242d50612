package openai

import (
	"context"
	"fmt"

	"github.com/mikey/llm-doc-router/internal/adapters/prompts"
	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/mikey/llm-doc-router/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIOracle is an implementation of the Oracle interface using OpenAI
type OpenAIOracle struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIOracle creates a new OpenAI oracle
func NewOpenAIOracle(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIOracle {
	return &OpenAIOracle{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxInputSize:  maxInputSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// generate runs one prompt through the chat completion API and returns
// the raw text
func (o *OpenAIOracle) generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a document processing system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
		TopP:        o.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create chat completion with OpenAI: %v", core.ErrOracle, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from OpenAI", core.ErrOracle)
	}

	return resp.Choices[0].Message.Content, nil
}

// Classify determines the format and business intent of a document
func (o *OpenAIOracle) Classify(ctx context.Context, input string, typeHint string) (*core.Classification, error) {
	processed := o.textProcessor.ProcessText(input, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Classify(processed, typeHint))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeClassification(responseText)
}

// ExtractEmail produces a structured reading of an email document
func (o *OpenAIOracle) ExtractEmail(ctx context.Context, emailText string) (*core.EmailExtraction, error) {
	processed := o.textProcessor.ProcessText(emailText, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Email(processed))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeEmailExtraction(responseText)
}

// ExtractRecord standardizes parsed JSON input into a business record
func (o *OpenAIOracle) ExtractRecord(ctx context.Context, document string) (*core.RecordExtraction, error) {
	processed := o.textProcessor.ProcessText(document, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Record(processed))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeRecordExtraction(responseText)
}

// Summarize digests an arbitrary document of the given intent
func (o *OpenAIOracle) Summarize(ctx context.Context, input string, intent string) (*core.Summary, error) {
	processed := o.textProcessor.ProcessText(input, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Summary(processed, intent))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeSummary(responseText)
}
