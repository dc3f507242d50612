package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenericExtractor_ReturnsSummary(t *testing.T) {
	oracle := &stubOracle{
		summarizeFn: func(_ context.Context, _ string, intent string) (*Summary, error) {
			return &Summary{
				Summary:     "quarterly report",
				KeyPoints:   []string{"revenue up"},
				Entities:    []Entity{{Type: "organization", Value: "Acme"}},
				Urgency:     UrgencyLow,
				ActionItems: []string{"File the report"},
			}, nil
		},
	}
	extractor := NewGenericExtractor(oracle, zap.NewNop())

	outcome, err := extractor.Extract(context.Background(), "some report text", "general")
	require.NoError(t, err)

	summary, ok := outcome.Data.(*Summary)
	require.True(t, ok)
	assert.Equal(t, "quarterly report", summary.Summary)
	assert.Empty(t, outcome.Anomalies)
}

func TestGenericExtractor_DegradesInsteadOfFailing(t *testing.T) {
	oracle := &stubOracle{
		summarizeFn: func(context.Context, string, string) (*Summary, error) {
			return nil, errors.New("connection refused")
		},
	}
	extractor := NewGenericExtractor(oracle, zap.NewNop())

	outcome, err := extractor.Extract(context.Background(), "some text", "general")
	require.NoError(t, err, "generic extraction never fails outward")

	summary, ok := outcome.Data.(*Summary)
	require.True(t, ok)
	assert.Equal(t, "Failed to extract detailed information", summary.Summary)
	require.Len(t, summary.KeyPoints, 1)
	assert.Contains(t, summary.KeyPoints[0], "Processing error occurred:")
	assert.Contains(t, summary.KeyPoints[0], "connection refused")
	assert.Equal(t, UrgencyMedium, summary.Urgency)
	assert.Equal(t, []string{"Review input and try again"}, summary.ActionItems)
	assert.NotNil(t, summary.Entities)
	assert.Empty(t, summary.Entities)
}
