package core

import (
	"errors"
)

// Error kinds surfaced by the processing pipeline. Callers match with
// errors.Is; adapters and extractors wrap these with context.
var (
	// ErrInvalidInput is returned when the client-supplied input fails
	// basic shape checks (empty or whitespace-only)
	ErrInvalidInput = errors.New("invalid input")

	// ErrOracle is returned when the external LLM capability fails or
	// produces unparseable output
	ErrOracle = errors.New("oracle failure")

	// ErrClassification wraps an oracle failure during classification,
	// which is fatal to the whole request
	ErrClassification = errors.New("classification failed")

	// ErrMalformedJSON is returned when JSON-format input does not parse
	ErrMalformedJSON = errors.New("malformed JSON input")

	// ErrExtraction is returned when both the primary extractor and the
	// generic fallback failed
	ErrExtraction = errors.New("extraction failed")
)
