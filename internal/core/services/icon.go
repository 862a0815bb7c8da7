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

// Ensure IconService implements the interface.
var _ driving.IconService = (*IconService)(nil)

// classifierMaxTokens bounds a classification completion.
const classifierMaxTokens = 400

// iconPrimaryHex is the hex literal paired with the primary colour
// token in rendering prompts.
const iconPrimaryHex = "#1F4E79"

// IconCostRates holds the configurable per-million USD rates for the
// classifier model.
type IconCostRates struct {
	// InputUSDPer1M is the prompt-token rate.
	InputUSDPer1M float64

	// OutputUSDPer1M is the completion-token rate.
	OutputUSDPer1M float64
}

// IconService drives the two-stage classify-then-render icon pipeline.
type IconService struct {
	llm   driven.LLMService
	rates IconCostRates
}

// NewIconService creates an icon service. The llm may be nil; Classify
// then returns domain.ErrLLMUnavailable and callers may choose the
// keyword fallback instead. The fallback is a deliberate second path,
// never an automatic retry.
func NewIconService(llm driven.LLMService, rates IconCostRates) *IconService {
	return &IconService{llm: llm, rates: rates}
}

// classifierInput is the user-message payload for classification.
type classifierInput struct {
	ActivityName string `json:"activity_name"`
	ContextNote  string `json:"context_note"`
}

// Classify validates the form, runs the schema-constrained LLM
// classifier at temperature zero, and returns the canonical spec with
// usage and cost accounting.
func (s *IconService) Classify(ctx context.Context, form domain.IconFormInput) (*driving.IconClassification, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	user, err := json.Marshal(classifierInput{
		ActivityName: form.ActivityName,
		ContextNote:  form.ContextNote,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal classifier input: %w", err)
	}

	logger.Section("Icon Classification")
	logger.Debug("Activity: %q, model: %s", form.ActivityName, s.llm.ModelName())

	res, err := s.llm.Complete(ctx, driven.CompletionRequest{
		System: classifierSystemPrompt(),
		User:   string(user),
		Schema: &driven.ResponseSchema{
			Name:   "icon_intent_spec",
			Schema: iconSchema(),
		},
		MaxTokens: classifierMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("classifier call: %w", err)
	}

	var spec domain.IconIntentSpec
	if err := json.Unmarshal([]byte(res.Content), &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("classifier output: %w", err)
	}

	canonical := spec.Canonical()
	specHash, err := canonical.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash spec: %w", err)
	}

	cost := CostUSD(res.Usage.InputTokens, res.Usage.OutputTokens,
		s.rates.InputUSDPer1M, s.rates.OutputUSDPer1M)
	logger.Info("Classified as %s/%s (%.8f USD)",
		canonical.IconCategory, canonical.PrimarySymbol, cost)

	return &driving.IconClassification{
		Spec:         canonical,
		InputHash:    domain.InputHash(form.ActivityName, form.ContextNote),
		SpecHash:     specHash,
		InputTokens:  res.Usage.InputTokens,
		OutputTokens: res.Usage.OutputTokens,
		CostUSD:      cost,
	}, nil
}

// FallbackClassify derives a legacy spec from keyword heuristics over
// the activity name and overview. Trail keywords outrank water
// keywords so an overview can reclassify a water-named activity.
func (s *IconService) FallbackClassify(activityName, overview string) (domain.LegacyIconSpec, error) {
	combined := strings.ToLower(activityName + " " + overview)

	spec := domain.LegacyIconSpec{
		ActivityType:      "indoor_activity",
		PrimarySymbol:     "indoor_activity",
		EnvironmentalCues: []string{},
		SecondaryCues:     []string{},
		Exclusions:        append([]string(nil), domain.DefaultExclusions...),
		IconVariant:       domain.IconVariantStandard,
	}

	switch {
	case strings.Contains(combined, "hike") || strings.Contains(combined, "trek"):
		spec.ActivityType = "land_trail"
		spec.PrimarySymbol = "ascending_trail"
		spec.EnvironmentalCues = []string{"elevation"}
		spec.Exclusions = append(spec.Exclusions, "summit")
	case strings.Contains(combined, "kayak"):
		spec.ActivityType = "water_flat"
		spec.PrimarySymbol = "kayak_top_down"
		spec.EnvironmentalCues = []string{"still_water"}
		spec.Exclusions = append(spec.Exclusions, "waves")
	}

	if strings.Contains(combined, "guide") {
		spec.SecondaryCues = []string{"guided"}
	}

	if err := spec.Validate(); err != nil {
		return domain.LegacyIconSpec{}, err
	}
	return spec, nil
}

// BuildPrompt produces the deterministic monochrome-line-icon prompt
// for a spec. The spec is validated and canonicalized first, so
// semantically identical specs yield byte-identical prompt text.
func (s *IconService) BuildPrompt(spec domain.IconIntentSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	canonical := spec.Canonical()

	joinOrNone := func(list []string) string {
		if len(list) == 0 {
			return "none"
		}
		return strings.Join(list, ", ")
	}

	var b strings.Builder
	b.WriteString("Minimalist monochrome line icon.\n")
	fmt.Fprintf(&b, "Category: %s.\n", canonical.IconCategory)
	fmt.Fprintf(&b, "Primary symbol: %s.\n", canonical.PrimarySymbol)
	fmt.Fprintf(&b, "Environmental cues: %s.\n", joinOrNone(canonical.EnvironmentalCues))
	fmt.Fprintf(&b, "Secondary cues: %s.\n", joinOrNone(canonical.SecondaryCues))
	fmt.Fprintf(&b, "Exclusions: %s.\n", joinOrNone(canonical.Exclusions))
	fmt.Fprintf(&b, "Canvas %dpx, stroke %dpx.\n", canonical.Canvas, canonical.Stroke)
	fmt.Fprintf(&b, "Single color var(%s) %s.\n", canonical.ColorToken, iconPrimaryHex)
	b.WriteString("Neutral institutional style.\n")

	return b.String(), nil
}
