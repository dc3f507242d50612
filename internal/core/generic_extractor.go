package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// GenericExtractor is the format-agnostic summarizer used both as the
// primary extractor for non-email, non-JSON documents and as the
// router's fallback. It never fails outward: on oracle failure it
// returns a fixed degraded record instead.
type GenericExtractor struct {
	oracle Oracle
	logger *zap.Logger
}

// NewGenericExtractor creates a new generic extractor
func NewGenericExtractor(oracle Oracle, logger *zap.Logger) *GenericExtractor {
	return &GenericExtractor{
		oracle: oracle,
		logger: logger,
	}
}

// Extract summarizes a document of the given intent
func (e *GenericExtractor) Extract(ctx context.Context, input string, intent string) (*ExtractionOutcome, error) {
	summary, err := e.oracle.Summarize(ctx, input, intent)
	if err != nil {
		e.logger.Warn("Generic extraction degraded to fixed record", zap.Error(err))
		summary = degradedSummary(err)
	}

	return &ExtractionOutcome{
		Data: summary,
	}, nil
}

// degradedSummary is the backstop record returned when the oracle is
// unavailable, guaranteeing the fallback path always produces a result
func degradedSummary(err error) *Summary {
	return &Summary{
		Summary:     "Failed to extract detailed information",
		KeyPoints:   []string{fmt.Sprintf("Processing error occurred: %v", err)},
		Entities:    []Entity{},
		Urgency:     UrgencyMedium,
		ActionItems: []string{"Review input and try again"},
	}
}
