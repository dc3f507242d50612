package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/mikey/llm-doc-router/internal/core"
)

// unmarshalResponse parses an oracle text response as JSON, falling back
// to extracting the outermost brace-delimited object when the model
// wrapped it in prose
func unmarshalResponse(responseText string, into any) error {
	if err := json.Unmarshal([]byte(responseText), into); err == nil {
		return nil
	}

	jsonStart := -1
	jsonEnd := -1
	for i := 0; i < len(responseText); i++ {
		if responseText[i] == '{' {
			jsonStart = i
			break
		}
	}
	for i := len(responseText) - 1; i >= 0; i-- {
		if responseText[i] == '}' {
			jsonEnd = i + 1
			break
		}
	}

	if jsonStart < 0 || jsonStart >= jsonEnd {
		return fmt.Errorf("%w: no JSON object in oracle response", core.ErrOracle)
	}
	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), into); err != nil {
		return fmt.Errorf("%w: failed to parse oracle response as JSON: %v", core.ErrOracle, err)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

var urgencyLevels = []string{core.UrgencyLow, core.UrgencyMedium, core.UrgencyHigh}
var sentiments = []string{"positive", "neutral", "negative"}

// DecodeClassification parses and validates a classification response
func DecodeClassification(responseText string) (*core.Classification, error) {
	var c core.Classification
	if err := unmarshalResponse(responseText, &c); err != nil {
		return nil, err
	}
	if !oneOf(c.Format, core.ClassificationFormats) {
		return nil, fmt.Errorf("%w: unknown format %q in classification", core.ErrOracle, c.Format)
	}
	if !oneOf(c.Intent, core.ClassificationIntents) {
		return nil, fmt.Errorf("%w: unknown intent %q in classification", core.ErrOracle, c.Intent)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return nil, fmt.Errorf("%w: classification confidence %f out of range", core.ErrOracle, c.Confidence)
	}
	return &c, nil
}

// DecodeEmailExtraction parses and validates an email extraction response
func DecodeEmailExtraction(responseText string) (*core.EmailExtraction, error) {
	var e core.EmailExtraction
	if err := unmarshalResponse(responseText, &e); err != nil {
		return nil, err
	}
	if !oneOf(e.Intent, core.EmailIntents) {
		return nil, fmt.Errorf("%w: unknown intent %q in email extraction", core.ErrOracle, e.Intent)
	}
	if !oneOf(e.Urgency, urgencyLevels) {
		return nil, fmt.Errorf("%w: unknown urgency %q in email extraction", core.ErrOracle, e.Urgency)
	}
	if !oneOf(e.Sentiment, sentiments) {
		return nil, fmt.Errorf("%w: unknown sentiment %q in email extraction", core.ErrOracle, e.Sentiment)
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return nil, fmt.Errorf("%w: email extraction confidence %f out of range", core.ErrOracle, e.Confidence)
	}
	return &e, nil
}

// DecodeRecordExtraction parses and validates a JSON standardization response
func DecodeRecordExtraction(responseText string) (*core.RecordExtraction, error) {
	var r core.RecordExtraction
	if err := unmarshalResponse(responseText, &r); err != nil {
		return nil, err
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return nil, fmt.Errorf("%w: record extraction confidence %f out of range", core.ErrOracle, r.Confidence)
	}
	return &r, nil
}

// DecodeSummary parses and validates a summarization response
func DecodeSummary(responseText string) (*core.Summary, error) {
	var s core.Summary
	if err := unmarshalResponse(responseText, &s); err != nil {
		return nil, err
	}
	if !oneOf(s.Urgency, urgencyLevels) {
		return nil, fmt.Errorf("%w: unknown urgency %q in summary", core.ErrOracle, s.Urgency)
	}
	return &s, nil
}
