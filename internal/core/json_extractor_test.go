package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJSONExtractor_MalformedInputFailsBeforeOracle(t *testing.T) {
	oracle := &stubOracle{}
	extractor := NewJSONExtractor(oracle, zap.NewNop())

	for _, input := range []string{`{"broken":`, "not json at all", ""} {
		_, err := extractor.Extract(context.Background(), input)
		assert.ErrorIs(t, err, ErrMalformedJSON, "input %q", input)
	}
	assert.Equal(t, 0, oracle.recordCalls)
}

func TestJSONExtractor_BuildsFlowBitEnvelope(t *testing.T) {
	oracle := &stubOracle{
		recordFn: func(context.Context, string) (*RecordExtraction, error) {
			return &RecordExtraction{
				Record: BusinessRecord{
					ID:       "INV-1001",
					Type:     "invoice",
					Vendor:   "Acme",
					Amount:   1299.50,
					Currency: "USD",
				},
				Confidence:      0.93,
				BusinessContext: "vendor invoice",
			}, nil
		},
	}
	extractor := NewJSONExtractor(oracle, zap.NewNop())

	outcome, err := extractor.Extract(context.Background(), `{"invoice":"INV-1001","amount":1299.5}`)
	require.NoError(t, err)
	assert.Empty(t, outcome.Anomalies)

	record, ok := outcome.Data.(*FlowBitRecord)
	require.True(t, ok)
	assert.Equal(t, "INV-1001", record.ID)
	assert.Equal(t, "invoice", record.Type)
	assert.Equal(t, AgentJSON, record.Source)
	assert.False(t, record.Timestamp.IsZero())
	assert.Equal(t, "Acme", record.Data.Vendor)
	assert.Equal(t, 0.93, record.Metadata.Confidence)
	assert.Equal(t, AgentJSON, record.Metadata.ProcessingAgent)
	assert.Equal(t, "vendor invoice", record.Metadata.BusinessContext)
}

func TestJSONExtractor_ValidationFailureAnnotatesResult(t *testing.T) {
	oracle := &stubOracle{
		recordFn: func(context.Context, string) (*RecordExtraction, error) {
			// Missing record id fails envelope validation
			return &RecordExtraction{
				Record:     BusinessRecord{Type: "invoice"},
				Confidence: 0.8,
			}, nil
		},
	}
	extractor := NewJSONExtractor(oracle, zap.NewNop())

	outcome, err := extractor.Extract(context.Background(), `{"type":"invoice"}`)
	require.NoError(t, err, "validation failure is non-fatal")
	assert.Contains(t, outcome.Anomalies, "Data does not fully conform to FlowBit schema")

	record := outcome.Data.(*FlowBitRecord)
	assert.Contains(t, record.Metadata.Anomalies, "Data does not fully conform to FlowBit schema")
}

func TestJSONExtractor_PropagatesOracleAnomalies(t *testing.T) {
	oracle := &stubOracle{
		recordFn: func(context.Context, string) (*RecordExtraction, error) {
			return &RecordExtraction{
				Record:     BusinessRecord{ID: "PO-7", Type: "purchase_order"},
				Anomalies:  []string{"Amount missing for purchase order"},
				Confidence: 0.85,
			}, nil
		},
	}
	extractor := NewJSONExtractor(oracle, zap.NewNop())

	outcome, err := extractor.Extract(context.Background(), `{"po":"PO-7"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amount missing for purchase order"}, outcome.Anomalies)
}

func TestJSONExtractor_OracleFailurePropagates(t *testing.T) {
	oracle := &stubOracle{
		recordFn: func(context.Context, string) (*RecordExtraction, error) {
			return nil, errors.New("oracle unavailable")
		},
	}
	extractor := NewJSONExtractor(oracle, zap.NewNop())

	_, err := extractor.Extract(context.Background(), `{"ok":true}`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedJSON)
}

func TestValidateFlowBit(t *testing.T) {
	valid := func() *FlowBitRecord {
		return &FlowBitRecord{
			ID:        "rec-1",
			Type:      "invoice",
			Source:    AgentJSON,
			Timestamp: time.Now(),
			Metadata:  FlowBitMetadata{Confidence: 0.9, ProcessingAgent: AgentJSON},
		}
	}

	assert.NoError(t, validateFlowBit(valid()))

	broken := valid()
	broken.ID = ""
	assert.Error(t, validateFlowBit(broken))

	broken = valid()
	broken.Metadata.Confidence = 1.5
	assert.Error(t, validateFlowBit(broken))

	broken = valid()
	broken.Metadata.ProcessingAgent = ""
	assert.Error(t, validateFlowBit(broken))
}
