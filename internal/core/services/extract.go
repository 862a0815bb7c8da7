package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
	"github.com/eti-labs/arpgen/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// extractionMaxTokens bounds a single extraction completion.
const extractionMaxTokens = 800

// ExtractionService performs grounded per-excerpt field extraction.
// One excerpt in, one schema-checked field set out; results for
// unsupported fields are empty lists, never fabricated content.
type ExtractionService struct {
	llm driven.LLMService
}

// NewExtractionService creates an extraction service.
// The llm may be nil; Extract then returns domain.ErrLLMUnavailable.
func NewExtractionService(llm driven.LLMService) *ExtractionService {
	return &ExtractionService{llm: llm}
}

// extractionInput is the user-message payload for one excerpt.
type extractionInput struct {
	Activity string `json:"activity"`
	Heading  string `json:"heading"`
	Excerpt  string `json:"excerpt"`
}

// Extract pulls the six extraction fields from a single excerpt. This
// is a pure per-chunk operation; no state is carried between calls.
func (s *ExtractionService) Extract(ctx context.Context, activity, heading, excerpt string) (*domain.ArpExtractionFields, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	user, err := json.Marshal(extractionInput{
		Activity: activity,
		Heading:  heading,
		Excerpt:  excerpt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal extraction input: %w", err)
	}

	logger.Debug("Extracting fields for %q / %q", activity, heading)

	res, err := s.llm.Complete(ctx, driven.CompletionRequest{
		System: extractionSystemPrompt,
		User:   string(user),
		Schema: &driven.ResponseSchema{
			Name:   "arp_extraction",
			Schema: extractionSchema(),
		},
		MaxTokens: extractionMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	fields, err := domain.ParseExtractionFields([]byte(res.Content))
	if err != nil {
		return nil, fmt.Errorf("extraction output: %w", err)
	}
	return fields, nil
}
