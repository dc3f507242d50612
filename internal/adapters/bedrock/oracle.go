package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-doc-router/internal/adapters/prompts"
	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/mikey/llm-doc-router/internal/utils"
	"go.uber.org/zap"
)

// BedrockOracle is an implementation of the Oracle interface using Amazon Bedrock
type BedrockOracle struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewBedrockOracle creates a new Bedrock oracle
func NewBedrockOracle(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockOracle {
	return &BedrockOracle{
		client:        client,
		modelID:       modelID,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxInputSize:  maxInputSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

func (o *BedrockOracle) isAnthropicModel() bool {
	return strings.HasPrefix(o.modelID, "anthropic.claude")
}

func (o *BedrockOracle) isAmazonTitanModel() bool {
	return strings.HasPrefix(o.modelID, "amazon.titan")
}

// generate runs one prompt through the model, handling the per-family
// request and response payload shapes
func (o *BedrockOracle) generate(ctx context.Context, prompt string) (string, error) {
	var payload []byte
	var err error

	if o.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": o.maxTokens,
			"temperature":          o.temperature,
			"top_p":                o.topP,
		})
	} else if o.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": o.maxTokens,
				"temperature":   o.temperature,
				"topP":          o.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  o.maxTokens,
			"temperature": o.temperature,
			"top_p":       o.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := o.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &o.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to invoke Bedrock model: %v", core.ErrOracle, err)
	}

	if o.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return "", fmt.Errorf("%w: failed to unmarshal Claude response: %v", core.ErrOracle, err)
		}
		return claudeResp.Completion, nil
	}

	if o.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(resp.Body, &titanResp); err != nil {
			return "", fmt.Errorf("%w: failed to unmarshal Titan response: %v", core.ErrOracle, err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("%w: empty response from Titan model", core.ErrOracle)
		}
		return titanResp.Results[0].OutputText, nil
	}

	// Try a generic approach
	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
		return "", fmt.Errorf("%w: failed to unmarshal generic response: %v", core.ErrOracle, err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	default:
		return string(resp.Body), nil
	}
}

// Classify determines the format and business intent of a document
func (o *BedrockOracle) Classify(ctx context.Context, input string, typeHint string) (*core.Classification, error) {
	processed := o.textProcessor.ProcessText(input, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Classify(processed, typeHint))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeClassification(responseText)
}

// ExtractEmail produces a structured reading of an email document
func (o *BedrockOracle) ExtractEmail(ctx context.Context, emailText string) (*core.EmailExtraction, error) {
	processed := o.textProcessor.ProcessText(emailText, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Email(processed))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeEmailExtraction(responseText)
}

// ExtractRecord standardizes parsed JSON input into a business record
func (o *BedrockOracle) ExtractRecord(ctx context.Context, document string) (*core.RecordExtraction, error) {
	processed := o.textProcessor.ProcessText(document, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Record(processed))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeRecordExtraction(responseText)
}

// Summarize digests an arbitrary document of the given intent
func (o *BedrockOracle) Summarize(ctx context.Context, input string, intent string) (*core.Summary, error) {
	processed := o.textProcessor.ProcessText(input, o.maxInputSize)
	responseText, err := o.generate(ctx, prompts.Summary(processed, intent))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeSummary(responseText)
}
