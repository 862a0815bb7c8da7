package driven

import "context"

// LLMService provides schema-constrained language model completions.
// This is an optional service: when nil, icon classification degrades
// to the keyword fallback and profile generation is disabled.
type LLMService interface {
	// Complete sends a system+user message pair and returns the raw
	// model output plus token usage. When a response schema is set the
	// model is constrained to emit a conforming JSON object and the
	// call runs at temperature zero.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// CompletionRequest describes one model call.
type CompletionRequest struct {
	// System is the system prompt.
	System string

	// User is the user message.
	User string

	// Schema constrains the response to a JSON object. Optional.
	Schema *ResponseSchema

	// MaxTokens bounds the completion length. Zero means provider
	// default.
	MaxTokens int
}

// ResponseSchema is a strict JSON schema response format: all listed
// fields required, no additional properties, no free-form commentary.
type ResponseSchema struct {
	// Name labels the schema for the provider.
	Name string

	// Schema is the JSON-schema document.
	Schema map[string]any
}

// CompletionResult carries the model output and usage accounting.
type CompletionResult struct {
	// Content is the raw completion text.
	Content string

	// Usage is the token usage reported by the provider.
	Usage TokenUsage
}

// TokenUsage is the per-call token accounting parsed from a provider
// response.
type TokenUsage struct {
	// InputTokens is the prompt token count.
	InputTokens int

	// OutputTokens is the completion token count.
	OutputTokens int
}

// ImageRenderer produces PNG icon artwork from a rendering prompt.
type ImageRenderer interface {
	// Render generates a 1024x1024 transparent-background PNG.
	Render(ctx context.Context, prompt string) ([]byte, error)

	// ModelName returns the name of the image model being used.
	ModelName() string
}
