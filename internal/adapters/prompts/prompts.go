// Package prompts holds the prompt templates and response decoding shared
// by every oracle provider adapter. Providers differ only in transport.
package prompts

import (
	"fmt"
)

const classifyFormat = `You are a document classification AI agent. Analyze the following input and classify it accurately.

Input Type Hint: %s
Content: %s

Classify the:
1. Format: What type of content is this? (email, json, pdf, text)
2. Intent: What is the business purpose? (invoice, rfq, complaint, regulation, general, quote_request, support, webhook)
3. Confidence: How confident are you? (0-1 scale)
4. Reasoning: Explain your classification decision

Look for:
- Email indicators: From:, Subject:, email addresses, signatures
- JSON structure: brackets, key-value pairs, webhook patterns
- Business keywords: RFQ, invoice, complaint, regulation, urgent
- Intent signals: request for quote, payment terms, compliance requirements

Respond with a JSON object containing the keys "format", "intent", "confidence" and "reasoning".
Respond only with the JSON object and nothing else.`

const emailFormat = `You are an email processing specialist for CRM systems. Parse this email content and extract comprehensive structured data:

%s

Extract and analyze:

SENDER INFORMATION:
- Full name, email address, company, job title
- Look in signatures, headers, and email body

EMAIL CLASSIFICATION:
- Subject line
- Intent: rfq, quote_request, complaint, support, invoice_inquiry, general, urgent_request
- Urgency: low/medium/high (look for urgent keywords, deadlines, CAPS)
- Sentiment: positive/neutral/negative tone

BUSINESS DETAILS:
- Type of request or inquiry
- Specific requirements or specifications
- Deadlines and important dates
- Budget mentions or price discussions
- Quantities and items requested
- Preferred contact method
- All key dates mentioned

CONVERSATION TRACKING:
- Generate a unique conversation ID
- Confidence score for extraction accuracy

Respond with a JSON object containing:
- sender: {name, email, company, title}
- subject: string
- intent: one of the intents above
- urgency: low, medium or high
- extractedData: {requestType, requirements (array), deadline, budget, quantities (array of {item, quantity, specifications}), contactPreference, keyDates (array)}
- conversationId: string
- confidence: number between 0 and 1
- sentiment: positive, neutral or negative

Respond only with the JSON object and nothing else.`

const recordFormat = `You are a JSON processing specialist. Analyze this JSON data and extract it into a standardized business format:

%s

Extract and standardize:
1. ID (use existing ID or generate descriptive one)
2. Type (invoice, order, webhook, payment, etc.)
3. Vendor/supplier/company name
4. Amount and currency (if financial)
5. Description of the transaction/event
6. Due date or important dates
7. Status (pending, approved, completed, etc.)
8. Line items with quantities and prices (if applicable)

Also identify anomalies:
- Missing critical fields for the document type
- Inconsistent data types or formats
- Invalid amounts, dates, or values
- Suspicious or unusual patterns
- Data quality issues

Respond with a JSON object containing:
- extractedData: {id, type, vendor, amount, currency, description, dueDate, status, lineItems (array of {description, quantity, unitPrice, total})}
- detectedAnomalies: array of strings
- confidence: number between 0 and 1
- businessContext: string

Respond only with the JSON object and nothing else.`

const summaryFormat = `Extract key information from this %s content:

%s

Provide:
1. A concise summary (2-3 sentences)
2. Key points or requirements (bullet points)
3. Important entities (dates, amounts, names, companies, etc.)
4. Urgency level based on language and deadlines
5. Suggested action items

Respond with a JSON object containing:
- summary: string
- keyPoints: array of strings
- entities: array of {type, value}
- urgency: low, medium or high
- actionItems: array of strings

Respond only with the JSON object and nothing else.`

// Classify builds the classification prompt
func Classify(input, typeHint string) string {
	if typeHint == "" {
		typeHint = "unknown"
	}
	return fmt.Sprintf(classifyFormat, typeHint, input)
}

// Email builds the email extraction prompt
func Email(emailText string) string {
	return fmt.Sprintf(emailFormat, emailText)
}

// Record builds the JSON standardization prompt
func Record(document string) string {
	return fmt.Sprintf(recordFormat, document)
}

// Summary builds the generic summarization prompt
func Summary(input, intent string) string {
	if intent == "" {
		intent = "general"
	}
	return fmt.Sprintf(summaryFormat, intent, input)
}
