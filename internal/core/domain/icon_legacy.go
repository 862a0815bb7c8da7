package domain

import "fmt"

// Legacy icon spec bounds. The fallback classifier is deliberately more
// constrained than the LLM path.
const (
	maxLegacyEnvironmentalCues = 2
	maxLegacySecondaryCues     = 1
)

// LegacyActivityTypes is the closed activity-type set the keyword
// fallback classifier may emit.
var LegacyActivityTypes = []string{
	"indoor_activity",
	"land_trail",
	"water_flat",
}

// LegacyIconSpec is the icon spec shape used by the keyword fallback
// classifier and the narrative-ARP icon subsystem. It predates
// IconIntentSpec and carries an explicit variant field.
type LegacyIconSpec struct {
	// ActivityType is a member of LegacyActivityTypes.
	ActivityType string `json:"activity_type"`

	// PrimarySymbol is a member of SymbolsByCategory[ActivityType].
	PrimarySymbol string `json:"primary_symbol"`

	// EnvironmentalCues holds at most two environmental cue terms.
	EnvironmentalCues []string `json:"environmental_cues"`

	// SecondaryCues holds at most one governance cue term.
	SecondaryCues []string `json:"secondary_cues"`

	// Exclusions always contains at least "people" and "motion".
	Exclusions []string `json:"exclusions"`

	// IconVariant is always IconVariantStandard.
	IconVariant string `json:"icon_variant"`
}

// Validate enforces the governance rules for fallback-produced specs:
// standard variant only, bounded cue lists, and the people+motion
// exclusions always present.
func (s LegacyIconSpec) Validate() error {
	if !inVocab(LegacyActivityTypes, s.ActivityType) {
		return fmt.Errorf("%w: unknown activity_type %q", ErrValidation, s.ActivityType)
	}
	if !inVocab(SymbolsByCategory[s.ActivityType], s.PrimarySymbol) {
		return fmt.Errorf("%w: primary_symbol %q is not valid for activity_type %q",
			ErrValidation, s.PrimarySymbol, s.ActivityType)
	}

	if n := len(s.EnvironmentalCues); n > maxLegacyEnvironmentalCues {
		return fmt.Errorf("%w: environmental_cues must have at most %d entries, got %d",
			ErrValidation, maxLegacyEnvironmentalCues, n)
	}
	for _, term := range s.EnvironmentalCues {
		if !inVocab(EnvironmentalCues, term) {
			return fmt.Errorf("%w: unknown environmental_cues term %q", ErrValidation, term)
		}
	}

	if n := len(s.SecondaryCues); n > maxLegacySecondaryCues {
		return fmt.Errorf("%w: secondary_cues must have at most %d entries, got %d",
			ErrValidation, maxLegacySecondaryCues, n)
	}
	for _, term := range s.SecondaryCues {
		if !inVocab(SecondaryCues, term) {
			return fmt.Errorf("%w: unknown secondary_cues term %q", ErrValidation, term)
		}
	}

	for _, required := range DefaultExclusions {
		if !inVocab(s.Exclusions, required) {
			return fmt.Errorf("%w: exclusions must contain %q", ErrValidation, required)
		}
	}
	for _, term := range s.Exclusions {
		if !inVocab(ExclusionTerms, term) {
			return fmt.Errorf("%w: unknown exclusion %q", ErrValidation, term)
		}
	}

	if s.IconVariant != IconVariantStandard {
		return fmt.Errorf("%w: icon_variant must be %q, got %q",
			ErrValidation, IconVariantStandard, s.IconVariant)
	}

	return nil
}

// ToIntentSpec converts a validated legacy spec to the IconIntentSpec
// shape so the prompt builder and SVG renderer accept it.
func (s LegacyIconSpec) ToIntentSpec() IconIntentSpec {
	out := NewIconIntentSpec(s.ActivityType, s.PrimarySymbol)
	out.EnvironmentalCues = append([]string(nil), s.EnvironmentalCues...)
	out.SecondaryCues = append([]string(nil), s.SecondaryCues...)
	out.Exclusions = append([]string(nil), s.Exclusions...)
	return out
}
