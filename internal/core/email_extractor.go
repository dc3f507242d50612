package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailExtractor turns email documents into normalized CRM lead records.
// The oracle supplies the structured reading; next actions, priority and
// anomaly detection are deterministic rules applied on top.
type EmailExtractor struct {
	oracle Oracle
	logger *zap.Logger
}

// NewEmailExtractor creates a new email extractor
func NewEmailExtractor(oracle Oracle, logger *zap.Logger) *EmailExtractor {
	return &EmailExtractor{
		oracle: oracle,
		logger: logger,
	}
}

// Extract processes an email document. Oracle failure is returned to the
// caller; recovery is the router's responsibility, not this component's.
func (e *EmailExtractor) Extract(ctx context.Context, emailText string) (*ExtractionOutcome, error) {
	e.logger.Debug("Starting email extraction", zap.Int("input_length", len(emailText)))

	extracted, err := e.oracle.ExtractEmail(ctx, emailText)
	if err != nil {
		return nil, fmt.Errorf("email extraction failed: %w", err)
	}

	lead := &CRMLead{
		LeadID:    fmt.Sprintf("lead_%s", uuid.NewString()),
		Source:    FormatEmail,
		Timestamp: time.Now(),
		Contact:   extracted.Sender,
		Communication: Communication{
			Subject:        extracted.Subject,
			Intent:         extracted.Intent,
			Urgency:        extracted.Urgency,
			Sentiment:      extracted.Sentiment,
			ConversationID: extracted.ConversationID,
		},
		Opportunity: extracted.Details,
		NextActions: nextActions(extracted.Intent, extracted.Urgency, extracted.Sentiment),
		Confidence:  extracted.Confidence,
		Priority:    calculatePriority(extracted.Urgency, extracted.Intent, extracted.Sentiment),
	}

	e.logger.Info("Email extraction completed",
		zap.String("lead_id", lead.LeadID),
		zap.String("intent", extracted.Intent),
		zap.String("priority", lead.Priority))

	return &ExtractionOutcome{
		Data:           lead,
		ConversationID: extracted.ConversationID,
		Anomalies:      detectEmailAnomalies(extracted),
	}, nil
}

// nextActions builds the ordered follow-up list: intent rules first,
// then urgency escalation, then sentiment handling, then the two
// standard closing actions.
func nextActions(intent, urgency, sentiment string) []string {
	var actions []string

	switch intent {
	case "rfq", "quote_request":
		actions = append(actions,
			"Prepare detailed quotation",
			"Review technical specifications",
			"Check inventory and pricing",
			"Assign to sales team")
	case "complaint":
		actions = append(actions,
			"Escalate to customer service manager",
			"Investigate reported issue",
			"Prepare resolution plan")
	case "support":
		actions = append(actions,
			"Route to technical support",
			"Create support ticket")
	}

	if urgency == UrgencyHigh {
		actions = append([]string{"PRIORITY: Respond within 2 hours"}, actions...)
		actions = append(actions, "Notify team lead immediately")
	}

	if sentiment == "negative" {
		actions = append(actions,
			"Handle with extra care",
			"Consider escalation to senior staff")
	}

	actions = append(actions,
		"Send acknowledgment email",
		"Update CRM with interaction")

	return actions
}

// calculatePriority scores urgency, intent and sentiment additively
func calculatePriority(urgency, intent, sentiment string) string {
	score := 0

	switch urgency {
	case UrgencyHigh:
		score += 3
	case UrgencyMedium:
		score += 2
	default:
		score++
	}

	switch intent {
	case "complaint", "rfq", "quote_request":
		score += 2
	case "urgent_request":
		score += 3
	}

	if sentiment == "negative" {
		score += 2
	}

	switch {
	case score >= 7:
		return "critical"
	case score >= 5:
		return "high"
	case score >= 3:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// detectEmailAnomalies flags data-quality concerns in the extraction
func detectEmailAnomalies(extracted *EmailExtraction) []string {
	var anomalies []string

	if !strings.Contains(extracted.Sender.Email, "@") || !strings.Contains(extracted.Sender.Email, ".") {
		anomalies = append(anomalies, "Invalid or suspicious email format")
	}

	if extracted.Confidence < 0.7 {
		anomalies = append(anomalies, "Low confidence in extraction accuracy")
	}

	if extracted.Intent == "rfq" && len(extracted.Details.Requirements) == 0 {
		anomalies = append(anomalies, "RFQ detected but no clear requirements identified")
	}

	if extracted.Urgency == UrgencyHigh && extracted.Details.Deadline == "" {
		anomalies = append(anomalies, "High urgency claimed but no specific deadline mentioned")
	}

	if len(extracted.Sender.Name) < 2 {
		anomalies = append(anomalies, "Sender name missing or incomplete")
	}

	if extracted.Intent == "quote_request" && len(extracted.Details.Quantities) == 0 {
		anomalies = append(anomalies, "Quote request without quantity specifications")
	}

	return anomalies
}
