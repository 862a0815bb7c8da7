package domain

import (
	"encoding/json"
	"fmt"
)

// Mandatory ARP section titles, in render order. The profile object is
// keyed by exactly these titles.
const (
	SectionActivityOverview = "Activity overview"
	SectionWhyRisk          = "Why this activity creates risk"
	SectionUnderestimated   = "What is commonly underestimated"
	SectionGoodPractice     = "Good practice signals (aggregated)"
	SectionContextChanges   = "Where context changes everything"
	SectionFailureModes     = "Common failure modes"
	SectionNotTold          = "What this does not tell you"
	SectionSourceContext    = "Source context"
	SectionReviewMetadata   = "Review metadata"
)

// ProfileSectionOrder lists the mandatory titles in render order.
var ProfileSectionOrder = []string{
	SectionActivityOverview,
	SectionWhyRisk,
	SectionUnderestimated,
	SectionGoodPractice,
	SectionContextChanges,
	SectionFailureModes,
	SectionNotTold,
	SectionSourceContext,
	SectionReviewMetadata,
}

// bulletSectionBounds maps each bullet-list section to its cardinality
// bounds.
var bulletSectionBounds = map[string][2]int{
	SectionUnderestimated: {4, 6},
	SectionGoodPractice:   {4, 6},
	SectionContextChanges: {4, 6},
	SectionFailureModes:   {4, 6},
	SectionNotTold:        {4, 6},
}

// Bounds for the bullets inside "Why this activity creates risk".
const (
	minWhyRiskBullets = 3
	maxWhyRiskBullets = 4
)

// ArpProfile is a whole Activity Risk Profile keyed by the mandatory
// section titles.
type ArpProfile map[string]any

// Validate checks the profile against the strict ARP schema: all
// mandatory titles present, string sections are strings, the risk
// section is a {paragraph, bullets} object, and every bullet list meets
// its cardinality bounds. It never repairs a non-conforming profile.
func (p ArpProfile) Validate() error {
	var missing []string
	for _, title := range ProfileSectionOrder {
		if _, ok := p[title]; !ok {
			missing = append(missing, title)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing keys: %q", ErrValidation, missing)
	}

	for _, title := range []string{SectionActivityOverview, SectionSourceContext, SectionReviewMetadata} {
		if _, ok := p[title].(string); !ok {
			return fmt.Errorf("%w: section %q must be a string", ErrValidation, title)
		}
	}

	why, ok := p[SectionWhyRisk].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: section %q must be an object", ErrValidation, SectionWhyRisk)
	}
	if _, ok := why["paragraph"].(string); !ok {
		return fmt.Errorf("%w: section %q needs a string paragraph", ErrValidation, SectionWhyRisk)
	}
	whyBullets, err := stringList(why["bullets"])
	if err != nil {
		return fmt.Errorf("%w: section %q bullets: %v", ErrValidation, SectionWhyRisk, err)
	}
	if n := len(whyBullets); n < minWhyRiskBullets || n > maxWhyRiskBullets {
		return fmt.Errorf("%w: section %q must have %d..%d bullets, got %d",
			ErrValidation, SectionWhyRisk, minWhyRiskBullets, maxWhyRiskBullets, n)
	}

	for title, bounds := range bulletSectionBounds {
		bullets, err := stringList(p[title])
		if err != nil {
			return fmt.Errorf("%w: section %q: %v", ErrValidation, title, err)
		}
		if n := len(bullets); n < bounds[0] || n > bounds[1] {
			return fmt.Errorf("%w: section %q must have %d..%d bullets, got %d",
				ErrValidation, title, bounds[0], bounds[1], n)
		}
	}

	return nil
}

// Bullets returns the bullet list for a section, or nil when the section
// is not list-shaped. Call Validate first to guarantee shape.
func (p ArpProfile) Bullets(title string) []string {
	bullets, err := stringList(p[title])
	if err != nil {
		return nil
	}
	return bullets
}

// stringList coerces a decoded JSON value into a []string.
func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d is not a string", i)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value is not a list")
	}
}

// ArpExtractionFields is the per-excerpt structured extraction result.
// Every field is always present; fields unsupported by the excerpt are
// empty lists, never omitted and never fabricated.
type ArpExtractionFields struct {
	EnvironmentAssumptions []string `json:"environment_assumptions"`
	ParticipantAssumptions []string `json:"participant_assumptions"`
	SupervisionAssumptions []string `json:"supervision_assumptions"`
	CommonFailureModes     []string `json:"common_failure_modes"`
	ExplicitCautions       []string `json:"explicit_cautions"`
	ExplicitLimitations    []string `json:"explicit_limitations"`
}

// extractionFieldNames lists the required JSON keys of an extraction
// result.
var extractionFieldNames = []string{
	"environment_assumptions",
	"participant_assumptions",
	"supervision_assumptions",
	"common_failure_modes",
	"explicit_cautions",
	"explicit_limitations",
}

// ParseExtractionFields decodes and validates raw model output against
// the extraction schema. The value must be a JSON object carrying all
// six fields; nil lists are normalised to empty slices.
func ParseExtractionFields(raw []byte) (*ArpExtractionFields, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	for _, name := range extractionFieldNames {
		if _, ok := probe[name]; !ok {
			return nil, fmt.Errorf("%w: missing extraction field %q", ErrValidation, name)
		}
	}

	var fields ArpExtractionFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields.normalise()
	return &fields, nil
}

// normalise replaces nil lists with empty slices so serialised output
// always carries all six arrays.
func (f *ArpExtractionFields) normalise() {
	for _, list := range []*[]string{
		&f.EnvironmentAssumptions,
		&f.ParticipantAssumptions,
		&f.SupervisionAssumptions,
		&f.CommonFailureModes,
		&f.ExplicitCautions,
		&f.ExplicitLimitations,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
}
