package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// JSONExtractor standardizes structured JSON documents into the FlowBit
// envelope expected by downstream consumers.
type JSONExtractor struct {
	oracle Oracle
	logger *zap.Logger
}

// NewJSONExtractor creates a new JSON extractor
func NewJSONExtractor(oracle Oracle, logger *zap.Logger) *JSONExtractor {
	return &JSONExtractor{
		oracle: oracle,
		logger: logger,
	}
}

// Extract parses and standardizes a JSON document. Unparseable input is
// fatal; envelope validation failure only annotates the result.
func (e *JSONExtractor) Extract(ctx context.Context, jsonText string) (*ExtractionOutcome, error) {
	var parsed any
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	// Pretty-print so the oracle sees the structure the caller sent
	document, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	analysis, err := e.oracle.ExtractRecord(ctx, string(document))
	if err != nil {
		return nil, fmt.Errorf("JSON extraction failed: %w", err)
	}

	anomalies := append([]string{}, analysis.Anomalies...)

	record := &FlowBitRecord{
		ID:        analysis.Record.ID,
		Type:      analysis.Record.Type,
		Source:    AgentJSON,
		Timestamp: time.Now(),
		Data:      analysis.Record,
		Metadata: FlowBitMetadata{
			Confidence:      analysis.Confidence,
			ProcessingAgent: AgentJSON,
			Anomalies:       anomalies,
			BusinessContext: analysis.BusinessContext,
		},
	}

	if err := validateFlowBit(record); err != nil {
		e.logger.Warn("FlowBit validation failed", zap.Error(err))
		anomalies = append(anomalies, "Data does not fully conform to FlowBit schema")
		record.Metadata.Anomalies = anomalies
	}

	e.logger.Info("JSON extraction completed",
		zap.String("record_id", record.ID),
		zap.String("record_type", record.Type),
		zap.Int("anomalies", len(anomalies)))

	return &ExtractionOutcome{
		Data:      record,
		Anomalies: anomalies,
	}, nil
}

// validateFlowBit checks the fixed envelope shape
func validateFlowBit(record *FlowBitRecord) error {
	if record.ID == "" {
		return fmt.Errorf("missing record id")
	}
	if record.Type == "" {
		return fmt.Errorf("missing record type")
	}
	if record.Source == "" {
		return fmt.Errorf("missing record source")
	}
	if record.Timestamp.IsZero() {
		return fmt.Errorf("missing record timestamp")
	}
	if record.Metadata.Confidence < 0 || record.Metadata.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range", record.Metadata.Confidence)
	}
	if record.Metadata.ProcessingAgent == "" {
		return fmt.Errorf("missing processing agent")
	}
	return nil
}
