package core

import (
	"time"
)

// Document formats recognized by the classifier
const (
	FormatEmail = "email"
	FormatJSON  = "json"
	FormatPDF   = "pdf"
	FormatText  = "text"
)

// Processing agent labels recorded with each result
const (
	AgentEmail    = "email_agent"
	AgentJSON     = "json_agent"
	AgentBasic    = "basic_extractor"
	AgentFallback = "fallback_extractor"
)

// Urgency levels
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// ClassificationFormats lists the valid document formats
var ClassificationFormats = []string{FormatEmail, FormatJSON, FormatPDF, FormatText}

// ClassificationIntents lists the valid business intents
var ClassificationIntents = []string{
	"invoice", "rfq", "complaint", "regulation",
	"general", "quote_request", "support", "webhook",
}

// EmailIntents lists the valid intents for email extraction
var EmailIntents = []string{
	"rfq", "quote_request", "complaint", "support",
	"invoice_inquiry", "general", "urgent_request",
}

// Classification is the oracle's verdict on a document's format and purpose
type Classification struct {
	Format     string  `json:"format"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// EmailSender identifies the sender of an email document
type EmailSender struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
}

// QuantityItem is a requested item with an optional quantity and specs
type QuantityItem struct {
	Item           string  `json:"item"`
	Quantity       float64 `json:"quantity,omitempty"`
	Specifications string  `json:"specifications,omitempty"`
}

// EmailBusinessData holds the business-specific fields extracted from an email
type EmailBusinessData struct {
	RequestType       string         `json:"requestType"`
	Requirements      []string       `json:"requirements"`
	Deadline          string         `json:"deadline,omitempty"`
	Budget            string         `json:"budget,omitempty"`
	Quantities        []QuantityItem `json:"quantities,omitempty"`
	ContactPreference string         `json:"contactPreference,omitempty"`
	KeyDates          []string       `json:"keyDates,omitempty"`
}

// EmailExtraction is the oracle's structured reading of an email
type EmailExtraction struct {
	Sender         EmailSender       `json:"sender"`
	Subject        string            `json:"subject"`
	Intent         string            `json:"intent"`
	Urgency        string            `json:"urgency"`
	Details        EmailBusinessData `json:"extractedData"`
	ConversationID string            `json:"conversationId"`
	Confidence     float64           `json:"confidence"`
	Sentiment      string            `json:"sentiment"`
}

// Communication summarizes how and why the sender got in touch
type Communication struct {
	Subject        string `json:"subject"`
	Intent         string `json:"intent"`
	Urgency        string `json:"urgency"`
	Sentiment      string `json:"sentiment"`
	ConversationID string `json:"conversationId"`
}

// CRMLead is the normalized record produced for email documents
type CRMLead struct {
	LeadID        string            `json:"leadId"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	Contact       EmailSender       `json:"contact"`
	Communication Communication     `json:"communication"`
	Opportunity   EmailBusinessData `json:"opportunity"`
	NextActions   []string          `json:"nextActions"`
	Confidence    float64           `json:"confidence"`
	Priority      string            `json:"priority"`
}

// LineItem is a priced line within a business record
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity,omitempty"`
	UnitPrice   float64 `json:"unitPrice,omitempty"`
	Total       float64 `json:"total,omitempty"`
}

// BusinessRecord is the standardized form of structured JSON input
type BusinessRecord struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Vendor      string     `json:"vendor,omitempty"`
	Amount      float64    `json:"amount,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	Status      string     `json:"status,omitempty"`
	LineItems   []LineItem `json:"lineItems,omitempty"`
}

// RecordExtraction is the oracle's standardization of parsed JSON input
type RecordExtraction struct {
	Record          BusinessRecord `json:"extractedData"`
	Anomalies       []string       `json:"detectedAnomalies"`
	Confidence      float64        `json:"confidence"`
	BusinessContext string         `json:"businessContext"`
}

// FlowBitMetadata carries processing provenance for a FlowBit record
type FlowBitMetadata struct {
	Confidence      float64  `json:"confidence"`
	ProcessingAgent string   `json:"processingAgent"`
	Anomalies       []string `json:"anomalies,omitempty"`
	BusinessContext string   `json:"businessContext,omitempty"`
}

// FlowBitRecord is the fixed envelope produced for JSON documents.
// Field names and nesting are normative for downstream consumers.
type FlowBitRecord struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      BusinessRecord  `json:"data"`
	Metadata  FlowBitMetadata `json:"metadata"`
}

// Entity is a named value spotted by the generic extractor
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Summary is the generic extractor's digest of an arbitrary document
type Summary struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	Entities    []Entity `json:"entities"`
	Urgency     string   `json:"urgency"`
	ActionItems []string `json:"actionItems"`
}

// ExtractionOutcome is what an extractor hands back to the router
type ExtractionOutcome struct {
	Data           any
	ConversationID string
	Anomalies      []string
}

// MemoryEntry is one processed document recorded in history
type MemoryEntry struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Source          string    `json:"source"`
	Format          string    `json:"format"`
	Intent          string    `json:"intent"`
	ExtractedData   any       `json:"extractedData"`
	ConversationID  string    `json:"conversationId,omitempty"`
	Anomalies       []string  `json:"anomalies,omitempty"`
	ProcessingAgent string    `json:"processingAgent"`
}

// MemoryStats summarizes the history store contents
type MemoryStats struct {
	Total    int            `json:"total"`
	ByFormat map[string]int `json:"byFormat"`
	ByIntent map[string]int `json:"byIntent"`
}

// ProcessResult is the envelope returned for a routed document
type ProcessResult struct {
	Classification  *Classification `json:"classification"`
	ExtractedData   any             `json:"extractedData"`
	MemoryID        string          `json:"memoryId"`
	Timestamp       time.Time       `json:"timestamp"`
	Anomalies       []string        `json:"anomalies,omitempty"`
	ProcessingAgent string          `json:"processingAgent"`
}
