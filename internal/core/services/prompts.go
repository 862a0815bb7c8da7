package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

// extractionSystemPrompt fixes the grounded-only extraction contract:
// nothing leaves the model that the excerpt does not directly support.
const extractionSystemPrompt = `You extract structured risk-relevant statements from a single document excerpt about a school travel activity.

Rules:
- Use ONLY what the excerpt states directly. No synthesis, no interpretation, no outside knowledge.
- Each bullet is at most one sentence.
- A field with no direct support in the excerpt is an empty array. Never omit a field. Never invent content.

Fields:
- environment_assumptions: conditions the excerpt assumes about terrain, water, weather, or venue.
- participant_assumptions: what the excerpt assumes about participant age, ability, fitness, or experience.
- supervision_assumptions: what the excerpt assumes about supervision, ratios, qualifications, or briefing.
- common_failure_modes: failure modes or incident patterns the excerpt names.
- explicit_cautions: cautions, warnings, or abort criteria the excerpt states.
- explicit_limitations: limits of applicability the excerpt states about its own guidance.`

// synthesisSystemPrompt governs whole-profile generation: observational
// and conditional language only, no provider scoring, no compliance
// claims, no safety conclusions.
const synthesisSystemPrompt = `You write a one-page Activity Risk Profile for the leader of a school-sponsored educational trip, aggregating extracted evidence about one activity.

Language rules:
- Observational and conditional phrasing only ("sources describe", "risk rises when"). Never prescriptive assurance ("this is safe", "you must").
- Never score, rank, or endorse providers. Never claim regulatory compliance.
- Do not state safety conclusions; describe what the evidence says and where it is silent.
- Stay grounded in the supplied extractions and source context.

Output exactly the required sections. Bullet sections carry four to six bullets; the risk rationale carries three to four. One sentence per bullet.`

// classifierSystemPrompt assembles the icon classification prompt
// deterministically from the closed vocabularies: sorted vocabulary
// lists, the symbol-by-category mapping in sorted key order, and the
// fixed geometry constants. Identical vocabularies yield byte-identical
// prompts.
func classifierSystemPrompt() string {
	var b strings.Builder

	b.WriteString("You classify a school travel activity into an icon intent spec.\n")
	b.WriteString("Choose only from the closed vocabularies below. No other terms exist.\n\n")

	writeVocab := func(name string, terms []string) {
		sorted := append([]string(nil), terms...)
		sort.Strings(sorted)
		fmt.Fprintf(&b, "%s: %s\n", name, strings.Join(sorted, ", "))
	}

	writeVocab("icon_category", domain.IconCategories)
	writeVocab("environmental_cues", domain.EnvironmentalCues)
	writeVocab("secondary_cues", domain.SecondaryCues)
	writeVocab("exclusions", domain.ExclusionTerms)

	b.WriteString("\nprimary_symbol by icon_category:\n")
	categories := make([]string, 0, len(domain.SymbolsByCategory))
	for cat := range domain.SymbolsByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		symbols := append([]string(nil), domain.SymbolsByCategory[cat]...)
		sort.Strings(symbols)
		fmt.Fprintf(&b, "  %s: %s\n", cat, strings.Join(symbols, ", "))
	}

	fmt.Fprintf(&b, "\nConstants: canvas=%d, stroke=%d, color_token=%q.\n",
		domain.IconCanvas, domain.IconStroke, domain.IconColorToken)
	fmt.Fprintf(&b, "Exclusions always include: %s.\n",
		strings.Join(domain.DefaultExclusions, ", "))
	b.WriteString("Pick the single best category and symbol for the activity. Use cues sparingly; an icon is not a scene.\n")

	return b.String()
}

// extractionSchema is the strict response format for per-excerpt
// extraction: all six array fields required, nothing else.
func extractionSchema() map[string]any {
	props := make(map[string]any)
	required := []string{
		"environment_assumptions",
		"participant_assumptions",
		"supervision_assumptions",
		"common_failure_modes",
		"explicit_cautions",
		"explicit_limitations",
	}
	for _, name := range required {
		props[name] = map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// profileSchema is the strict response format for whole-profile
// synthesis: the nine mandatory section titles, bullet bounds declared
// where the schema can carry them.
func profileSchema() map[string]any {
	stringType := func() map[string]any { return map[string]any{"type": "string"} }
	bulletList := func(minItems, maxItems int) map[string]any {
		return map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": minItems,
			"maxItems": maxItems,
		}
	}

	props := map[string]any{
		domain.SectionActivityOverview: stringType(),
		domain.SectionWhyRisk: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"paragraph": stringType(),
				"bullets":   bulletList(3, 4),
			},
			"required":             []string{"paragraph", "bullets"},
			"additionalProperties": false,
		},
		domain.SectionUnderestimated: bulletList(4, 6),
		domain.SectionGoodPractice:   bulletList(4, 6),
		domain.SectionContextChanges: bulletList(4, 6),
		domain.SectionFailureModes:   bulletList(4, 6),
		domain.SectionNotTold:        bulletList(4, 6),
		domain.SectionSourceContext:  stringType(),
		domain.SectionReviewMetadata: stringType(),
	}

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             append([]string(nil), domain.ProfileSectionOrder...),
		"additionalProperties": false,
	}
}

// iconSchema is the strict response format for icon classification.
func iconSchema() map[string]any {
	stringArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"icon_category":      map[string]any{"type": "string"},
			"primary_symbol":     map[string]any{"type": "string"},
			"environmental_cues": stringArray,
			"secondary_cues":     stringArray,
			"exclusions":         stringArray,
			"canvas":             map[string]any{"type": "integer"},
			"stroke":             map[string]any{"type": "integer"},
			"color_token":        map[string]any{"type": "string"},
		},
		"required": []string{
			"icon_category", "primary_symbol", "environmental_cues",
			"secondary_cues", "exclusions", "canvas", "stroke", "color_token",
		},
		"additionalProperties": false,
	}
}
