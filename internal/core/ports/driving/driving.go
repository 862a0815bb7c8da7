// Package driving provides interfaces for the primary (inbound) ports:
// the operations the CLI and MCP adapters invoke on the core.
package driving

import (
	"context"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

// IngestService sections raw sources into chunks and indexes them.
type IngestService interface {
	// Ingest sections a raw source, builds chunks with the given
	// metadata, stores them, and appends them to the search index.
	// It returns the document record and the emitted chunks.
	Ingest(ctx context.Context, raw *domain.RawSource, meta domain.ChunkMeta) (*domain.DocumentRecord, []domain.Chunk, error)
}

// EvidenceService retrieves ranked evidence chunks for a query.
type EvidenceService interface {
	// Search returns the best-matching chunks. An empty or tokenless
	// query yields an empty result, not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.EvidenceHit, error)
}

// ExtractionService performs grounded per-excerpt field extraction.
type ExtractionService interface {
	// Extract pulls the six ARP extraction fields from one excerpt.
	// Fields unsupported by the excerpt come back as empty lists.
	Extract(ctx context.Context, activity, heading, excerpt string) (*domain.ArpExtractionFields, error)
}

// SynthesisInput is the activity material handed to the synthesizer.
type SynthesisInput struct {
	// ActivityName is the activity display name.
	ActivityName string

	// Overview is the activity overview paragraph, when available.
	Overview string

	// Extractions are the per-chunk extraction results to aggregate.
	Extractions []domain.ArpExtractionFields

	// SourceContext summarises where the evidence came from.
	SourceContext string
}

// SynthesisService generates and renders whole profiles.
type SynthesisService interface {
	// Synthesize produces a validated ARP for the activity.
	Synthesize(ctx context.Context, input SynthesisInput) (domain.ArpProfile, error)

	// RenderMarkdown renders a validated profile to the fixed layout.
	RenderMarkdown(activityName string, profile domain.ArpProfile) (string, error)
}

// IconClassification is a classifier outcome with accounting.
type IconClassification struct {
	// Spec is the validated, canonical intent spec.
	Spec domain.IconIntentSpec

	// InputHash is the 24-hex cache key for the form input.
	InputHash string

	// SpecHash is the stable hash of the canonical spec.
	SpecHash string

	// InputTokens and OutputTokens are the provider-reported usage.
	InputTokens  int
	OutputTokens int

	// CostUSD is the estimated call cost, rounded to 8 decimals.
	CostUSD float64
}

// IconService drives the icon intent pipeline.
type IconService interface {
	// Classify validates the form input and runs the LLM classifier.
	// Returns domain.ErrLLMUnavailable when no LLM is configured.
	Classify(ctx context.Context, form domain.IconFormInput) (*IconClassification, error)

	// FallbackClassify derives a legacy spec from keyword heuristics
	// over the activity name and overview. It never calls out.
	FallbackClassify(activityName, overview string) (domain.LegacyIconSpec, error)

	// BuildPrompt produces the deterministic monochrome-line-icon
	// prompt for a spec. The spec is canonicalized first.
	BuildPrompt(spec domain.IconIntentSpec) (string, error)
}
