package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
	"github.com/eti-labs/arpgen/internal/logger"
)

// Ensure SynthesisService implements the interface.
var _ driving.SynthesisService = (*SynthesisService)(nil)

// synthesisMaxTokens bounds a whole-profile completion.
const synthesisMaxTokens = 2500

// SynthesisService generates whole Activity Risk Profiles and renders
// them to the fixed markdown layout.
type SynthesisService struct {
	llm driven.LLMService
}

// NewSynthesisService creates a synthesis service.
// The llm may be nil; Synthesize then returns domain.ErrLLMUnavailable.
func NewSynthesisService(llm driven.LLMService) *SynthesisService {
	return &SynthesisService{llm: llm}
}

// synthesisPayload is the user-message payload for profile generation.
type synthesisPayload struct {
	ActivityName  string                       `json:"activity_name"`
	Overview      string                       `json:"overview,omitempty"`
	SourceContext string                       `json:"source_context,omitempty"`
	Extractions   []domain.ArpExtractionFields `json:"extractions"`
}

// Synthesize produces a validated profile for the activity. A profile
// that fails validation is rejected, never repaired.
func (s *SynthesisService) Synthesize(ctx context.Context, input driving.SynthesisInput) (domain.ArpProfile, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(input.ActivityName) == "" {
		return nil, fmt.Errorf("%w: activity name is required", domain.ErrInvalidInput)
	}

	user, err := json.Marshal(synthesisPayload{
		ActivityName:  input.ActivityName,
		Overview:      input.Overview,
		SourceContext: input.SourceContext,
		Extractions:   input.Extractions,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal synthesis input: %w", err)
	}

	logger.Section("Profile Synthesis")
	logger.Debug("Activity: %q, extractions: %d", input.ActivityName, len(input.Extractions))

	res, err := s.llm.Complete(ctx, driven.CompletionRequest{
		System: synthesisSystemPrompt,
		User:   string(user),
		Schema: &driven.ResponseSchema{
			Name:   "arp_profile",
			Schema: profileSchema(),
		},
		MaxTokens: synthesisMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis call: %w", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(res.Content), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	profile := domain.ArpProfile(decoded)
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("synthesized profile: %w", err)
	}
	return profile, nil
}

// RenderMarkdown renders a validated profile to the fixed layout: an H1
// title, a bold activity line, then one H2 per mandatory section in
// order, with bulleted lists where the section is list-shaped.
func (s *SynthesisService) RenderMarkdown(activityName string, profile domain.ArpProfile) (string, error) {
	if err := profile.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Activity Risk Profile\n\n")
	fmt.Fprintf(&b, "**Activity:** %s\n", activityName)

	for _, title := range domain.ProfileSectionOrder {
		fmt.Fprintf(&b, "\n## %s\n\n", title)

		switch title {
		case domain.SectionActivityOverview, domain.SectionSourceContext, domain.SectionReviewMetadata:
			fmt.Fprintf(&b, "%s\n", profile[title])

		case domain.SectionWhyRisk:
			why := profile[title].(map[string]any)
			fmt.Fprintf(&b, "%s\n\n", why["paragraph"])
			writeBullets(&b, bulletStrings(why["bullets"]))

		default:
			writeBullets(&b, profile.Bullets(title))
		}
	}

	return b.String(), nil
}

func writeBullets(b *strings.Builder, bullets []string) {
	for _, bullet := range bullets {
		fmt.Fprintf(b, "- %s\n", bullet)
	}
}

// bulletStrings coerces an already-validated bullet value.
func bulletStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
