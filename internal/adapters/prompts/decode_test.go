package prompts

import (
	"testing"

	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClassification(t *testing.T) {
	t.Run("plain JSON response", func(t *testing.T) {
		c, err := DecodeClassification(`{"format":"email","intent":"rfq","confidence":0.92,"reasoning":"greets and asks for pricing"}`)
		require.NoError(t, err)
		assert.Equal(t, "email", c.Format)
		assert.Equal(t, "rfq", c.Intent)
		assert.Equal(t, 0.92, c.Confidence)
	})

	t.Run("JSON wrapped in prose", func(t *testing.T) {
		response := "Here is my analysis:\n```json\n{\"format\":\"json\",\"intent\":\"webhook\",\"confidence\":0.88,\"reasoning\":\"structured payload\"}\n```\nLet me know if you need more."
		c, err := DecodeClassification(response)
		require.NoError(t, err)
		assert.Equal(t, "json", c.Format)
		assert.Equal(t, "webhook", c.Intent)
	})

	t.Run("no JSON object at all", func(t *testing.T) {
		_, err := DecodeClassification("I cannot classify this document.")
		assert.ErrorIs(t, err, core.ErrOracle)
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		_, err := DecodeClassification(`{"format":"spreadsheet","intent":"general","confidence":0.9}`)
		assert.ErrorIs(t, err, core.ErrOracle)
	})

	t.Run("unknown intent rejected", func(t *testing.T) {
		_, err := DecodeClassification(`{"format":"text","intent":"party","confidence":0.9}`)
		assert.ErrorIs(t, err, core.ErrOracle)
	})

	t.Run("confidence out of range rejected", func(t *testing.T) {
		_, err := DecodeClassification(`{"format":"text","intent":"general","confidence":1.4}`)
		assert.ErrorIs(t, err, core.ErrOracle)
	})
}

func TestDecodeEmailExtraction(t *testing.T) {
	valid := `{
		"sender": {"name": "Jane Doe", "email": "jane@example.com"},
		"subject": "Need pricing",
		"intent": "rfq",
		"urgency": "high",
		"extractedData": {"requestType": "rfq", "requirements": ["100 widgets"]},
		"conversationId": "conv-1",
		"confidence": 0.9,
		"sentiment": "neutral"
	}`

	t.Run("valid response", func(t *testing.T) {
		e, err := DecodeEmailExtraction(valid)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", e.Sender.Name)
		assert.Equal(t, "rfq", e.Intent)
		assert.Equal(t, core.UrgencyHigh, e.Urgency)
		assert.Equal(t, []string{"100 widgets"}, e.Details.Requirements)
		assert.Equal(t, "conv-1", e.ConversationID)
	})

	t.Run("unknown urgency rejected", func(t *testing.T) {
		_, err := DecodeEmailExtraction(`{"sender":{"name":"X","email":"x@y.z"},"intent":"general","urgency":"extreme","confidence":0.9,"sentiment":"neutral"}`)
		assert.ErrorIs(t, err, core.ErrOracle)
	})

	t.Run("unknown sentiment rejected", func(t *testing.T) {
		_, err := DecodeEmailExtraction(`{"sender":{"name":"X","email":"x@y.z"},"intent":"general","urgency":"low","confidence":0.9,"sentiment":"furious"}`)
		assert.ErrorIs(t, err, core.ErrOracle)
	})
}

func TestDecodeRecordExtraction(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		r, err := DecodeRecordExtraction(`{
			"extractedData": {"id": "INV-1", "type": "invoice", "amount": 42.5, "currency": "EUR"},
			"detectedAnomalies": ["Missing due date"],
			"confidence": 0.87,
			"businessContext": "vendor invoice"
		}`)
		require.NoError(t, err)
		assert.Equal(t, "INV-1", r.Record.ID)
		assert.Equal(t, 42.5, r.Record.Amount)
		assert.Equal(t, []string{"Missing due date"}, r.Anomalies)
	})

	t.Run("confidence out of range rejected", func(t *testing.T) {
		_, err := DecodeRecordExtraction(`{"extractedData":{"id":"x","type":"invoice"},"confidence":-0.1}`)
		assert.ErrorIs(t, err, core.ErrOracle)
	})
}

func TestDecodeSummary(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		s, err := DecodeSummary(`{
			"summary": "meeting notes",
			"keyPoints": ["decision made"],
			"entities": [{"type": "person", "value": "Jane"}],
			"urgency": "medium",
			"actionItems": ["Follow up"]
		}`)
		require.NoError(t, err)
		assert.Equal(t, "meeting notes", s.Summary)
		require.Len(t, s.Entities, 1)
		assert.Equal(t, "person", s.Entities[0].Type)
	})

	t.Run("unknown urgency rejected", func(t *testing.T) {
		_, err := DecodeSummary(`{"summary":"x","urgency":"severe"}`)
		assert.ErrorIs(t, err, core.ErrOracle)
	})
}

func TestUnmarshalResponse_BraceScan(t *testing.T) {
	var out map[string]any
	err := unmarshalResponse("prefix {\"a\": 1} suffix", &out)
	require.NoError(t, err)
	assert.Equal(t, float64(1), out["a"])
}
