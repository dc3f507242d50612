package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/llm-doc-router/internal/utils"
	"go.uber.org/zap"
)

// sourceExcerptChars bounds the input excerpt recorded in history
const sourceExcerptChars = 500

// oracleTimeout bounds each oracle round trip; timeout is treated as an
// oracle failure
const oracleTimeout = 60 * time.Second

// RouterService is the classification-routing pipeline: classify the
// input, dispatch to the matching extractor, record the outcome.
type RouterService struct {
	oracle  Oracle
	memory  MemoryRepository
	email   *EmailExtractor
	json    *JSONExtractor
	generic *GenericExtractor
	logger  *zap.Logger
}

// NewRouterService creates a new router service
func NewRouterService(
	oracle Oracle,
	memory MemoryRepository,
	email *EmailExtractor,
	json *JSONExtractor,
	generic *GenericExtractor,
	logger *zap.Logger,
) *RouterService {
	return &RouterService{
		oracle:  oracle,
		memory:  memory,
		email:   email,
		json:    json,
		generic: generic,
		logger:  logger,
	}
}

// Process routes a document through classification and extraction and
// records the outcome in history. Classification failure aborts the
// request; extraction failure degrades to the generic fallback.
func (s *RouterService) Process(ctx context.Context, input string, typeHint string) (*ProcessResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: input must be a non-empty string", ErrInvalidInput)
	}

	classifyCtx, cancel := context.WithTimeout(ctx, oracleTimeout)
	defer cancel()

	classification, err := s.oracle.Classify(classifyCtx, input, typeHint)
	if err != nil {
		s.logger.Error("Classification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	s.logger.Info("Input classified",
		zap.String("format", classification.Format),
		zap.String("intent", classification.Intent),
		zap.Float64("confidence", classification.Confidence))

	outcome, agent, err := s.dispatch(ctx, input, classification)
	if err != nil {
		return nil, err
	}

	entry := &MemoryEntry{
		Source:          utils.Excerpt(input, sourceExcerptChars),
		Format:          classification.Format,
		Intent:          classification.Intent,
		ExtractedData:   outcome.Data,
		ConversationID:  outcome.ConversationID,
		Anomalies:       outcome.Anomalies,
		ProcessingAgent: agent,
	}
	memoryID, err := s.memory.Store(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to record processing outcome: %w", err)
	}

	s.logger.Info("Processing completed",
		zap.String("memory_id", memoryID),
		zap.String("processing_agent", agent))

	return &ProcessResult{
		Classification:  classification,
		ExtractedData:   outcome.Data,
		MemoryID:        memoryID,
		Timestamp:       time.Now(),
		Anomalies:       outcome.Anomalies,
		ProcessingAgent: agent,
	}, nil
}

// dispatch selects the extractor for the classified format and applies
// the one fallback retry on primary-extractor failure. Malformed JSON
// input is client error, not extractor failure, and is not retried.
func (s *RouterService) dispatch(ctx context.Context, input string, classification *Classification) (*ExtractionOutcome, string, error) {
	extractCtx, cancel := context.WithTimeout(ctx, oracleTimeout)
	defer cancel()

	var outcome *ExtractionOutcome
	var agent string
	var err error

	switch classification.Format {
	case FormatEmail:
		outcome, err = s.email.Extract(extractCtx, input)
		agent = AgentEmail
	case FormatJSON:
		outcome, err = s.json.Extract(extractCtx, input)
		agent = AgentJSON
	default:
		outcome, err = s.generic.Extract(extractCtx, input, classification.Intent)
		agent = AgentBasic
	}

	if err == nil {
		return outcome, agent, nil
	}
	if errors.Is(err, ErrMalformedJSON) {
		return nil, "", err
	}

	s.logger.Warn("Primary extractor failed, retrying with generic fallback",
		zap.String("primary_agent", agent),
		zap.Error(err))

	anomalies := []string{fmt.Sprintf("Processing error: %v", err)}

	fallback, fbErr := s.generic.Extract(extractCtx, input, classification.Intent)
	if fbErr != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExtraction, fbErr)
	}
	fallback.Anomalies = append(anomalies, fallback.Anomalies...)

	return fallback, AgentFallback, nil
}
