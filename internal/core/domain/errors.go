package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. All errors propagate to
// the caller after a single attempt; the core never retries.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation indicates a schema violation: a missing required
	// field, a wrong type, an unknown vocabulary term, a cross-field
	// conflict, or a cardinality bound violation. Never retried and
	// never auto-repaired.
	ErrValidation = errors.New("validation failed")

	// ErrPDFUnavailable indicates the PDF sectioner was invoked without
	// an available text extractor.
	ErrPDFUnavailable = errors.New("pdf text extractor unavailable")

	// ErrUpstream indicates an LLM or HTTP call returned a non-2xx
	// status or a malformed body.
	ErrUpstream = errors.New("upstream request failed")

	// ErrUpstreamTimeout indicates an LLM or HTTP call exceeded its
	// configured timeout. No partial state is persisted.
	ErrUpstreamTimeout = errors.New("upstream request timed out")

	// ErrParse indicates model output was not valid JSON or not a JSON
	// object.
	ErrParse = errors.New("model output is not valid JSON")

	// ErrLLMUnavailable indicates no LLM service is configured.
	// Callers may fall back to the keyword icon classifier.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnsupportedType indicates no sectioner accepts the source
	// MIME type.
	ErrUnsupportedType = errors.New("unsupported type")
)
