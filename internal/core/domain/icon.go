package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Form input bounds.
const (
	minActivityNameLen      = 2
	maxActivityNameLen      = 80
	minContextNoteLen       = 10
	maxContextNoteLen       = 600
	maxContextNoteSentences = 3

	minExclusions = 1
	maxExclusions = 8
	maxCues       = 6
)

// visualPreferenceBlocklist lists tokens that must not appear in a
// context note as whole words. Users do not get to steer visual style;
// the icon system owns it.
var visualPreferenceBlocklist = []string{
	"color", "colour", "style", "aesthetic", "gradient", "shadow",
	"vibrant", "pastel", "minimal", "cute", "bold", "modern",
}

var (
	blocklistPattern = regexp.MustCompile(
		`(?i)\b(` + strings.Join(visualPreferenceBlocklist, "|") + `)\b`)
	sentenceBoundary = regexp.MustCompile(`[.!?]+\s`)
)

// IconFormInput is the raw leader-facing form submission that feeds the
// icon classifier.
type IconFormInput struct {
	// ActivityName is the activity display name, 2..80 chars after trim.
	ActivityName string `json:"activity_name"`

	// ContextNote is free text describing the activity, 10..600 chars
	// and at most three sentences. Visual style directives are rejected.
	ContextNote string `json:"context_note"`
}

// Validate checks the form bounds and the visual-preference blocklist.
func (f IconFormInput) Validate() error {
	name := strings.TrimSpace(f.ActivityName)
	if n := utf8.RuneCountInString(name); n < minActivityNameLen || n > maxActivityNameLen {
		return fmt.Errorf("%w: activity_name must be %d..%d characters, got %d",
			ErrValidation, minActivityNameLen, maxActivityNameLen, n)
	}

	note := strings.TrimSpace(f.ContextNote)
	if n := utf8.RuneCountInString(note); n < minContextNoteLen || n > maxContextNoteLen {
		return fmt.Errorf("%w: context_note must be %d..%d characters, got %d",
			ErrValidation, minContextNoteLen, maxContextNoteLen, n)
	}

	if n := countSentences(note); n > maxContextNoteSentences {
		return fmt.Errorf("%w: context_note must be at most %d sentences, got %d",
			ErrValidation, maxContextNoteSentences, n)
	}

	if m := blocklistPattern.FindString(note); m != "" {
		return fmt.Errorf("%w: context_note contains visual preference %q",
			ErrValidation, strings.ToLower(m))
	}

	return nil
}

// countSentences splits on sentence terminators followed by whitespace
// and counts the non-empty parts.
func countSentences(s string) int {
	parts := sentenceBoundary.Split(s, -1)
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// IconIntentSpec is the closed-vocabulary descriptor of a required icon,
// intermediate between user input and prompt construction or rendering.
type IconIntentSpec struct {
	// IconCategory is a member of IconCategories.
	IconCategory string `json:"icon_category"`

	// PrimarySymbol is a member of SymbolsByCategory[IconCategory].
	PrimarySymbol string `json:"primary_symbol"`

	// EnvironmentalCues holds up to six environmental cue terms.
	EnvironmentalCues []string `json:"environmental_cues"`

	// SecondaryCues holds up to six governance cue terms.
	SecondaryCues []string `json:"secondary_cues"`

	// Exclusions holds one to eight exclusion terms.
	Exclusions []string `json:"exclusions"`

	// Canvas is always IconCanvas.
	Canvas int `json:"canvas"`

	// Stroke is always IconStroke.
	Stroke int `json:"stroke"`

	// ColorToken is always IconColorToken.
	ColorToken string `json:"color_token"`
}

// NewIconIntentSpec returns a spec with the fixed geometry constants and
// the default exclusion set populated.
func NewIconIntentSpec(category, symbol string) IconIntentSpec {
	return IconIntentSpec{
		IconCategory:  category,
		PrimarySymbol: symbol,
		Exclusions:    append([]string(nil), DefaultExclusions...),
		Canvas:        IconCanvas,
		Stroke:        IconStroke,
		ColorToken:    IconColorToken,
	}
}

// Validate checks field membership, cross-field validity, and the fixed
// constants. All failures wrap ErrValidation.
func (s IconIntentSpec) Validate() error {
	if !inVocab(IconCategories, s.IconCategory) {
		return fmt.Errorf("%w: unknown icon_category %q", ErrValidation, s.IconCategory)
	}
	if !inVocab(SymbolsByCategory[s.IconCategory], s.PrimarySymbol) {
		return fmt.Errorf("%w: primary_symbol %q is not valid for category %q",
			ErrValidation, s.PrimarySymbol, s.IconCategory)
	}

	// Cross-field conflicts are reported before vocabulary membership.
	for _, env := range s.EnvironmentalCues {
		for _, sec := range s.SecondaryCues {
			if env == sec {
				return fmt.Errorf("%w: %q appears in both environmental and secondary cues",
					ErrValidation, env)
			}
		}
	}

	if err := checkCueList("environmental_cues", s.EnvironmentalCues, EnvironmentalCues); err != nil {
		return err
	}
	if err := checkCueList("secondary_cues", s.SecondaryCues, SecondaryCues); err != nil {
		return err
	}

	if n := len(s.Exclusions); n < minExclusions || n > maxExclusions {
		return fmt.Errorf("%w: exclusions must have %d..%d entries, got %d",
			ErrValidation, minExclusions, maxExclusions, n)
	}
	seen := make(map[string]bool, len(s.Exclusions))
	for _, term := range s.Exclusions {
		if !inVocab(ExclusionTerms, term) {
			return fmt.Errorf("%w: unknown exclusion %q", ErrValidation, term)
		}
		if seen[term] {
			return fmt.Errorf("%w: duplicate exclusion %q", ErrValidation, term)
		}
		seen[term] = true
	}

	if s.Canvas != IconCanvas {
		return fmt.Errorf("%w: canvas must be %d, got %d", ErrValidation, IconCanvas, s.Canvas)
	}
	if s.Stroke != IconStroke {
		return fmt.Errorf("%w: stroke must be %d, got %d", ErrValidation, IconStroke, s.Stroke)
	}
	if s.ColorToken != IconColorToken {
		return fmt.Errorf("%w: color_token must be %q, got %q",
			ErrValidation, IconColorToken, s.ColorToken)
	}

	return nil
}

// checkCueList validates a cue list against its vocabulary: bounded
// length, member terms, no duplicates.
func checkCueList(field string, list, vocab []string) error {
	if len(list) > maxCues {
		return fmt.Errorf("%w: %s must have at most %d entries, got %d",
			ErrValidation, field, maxCues, len(list))
	}
	seen := make(map[string]bool, len(list))
	for _, term := range list {
		if !inVocab(vocab, term) {
			return fmt.Errorf("%w: unknown %s term %q", ErrValidation, field, term)
		}
		if seen[term] {
			return fmt.Errorf("%w: duplicate %s term %q", ErrValidation, field, term)
		}
		seen[term] = true
	}
	return nil
}

// Canonical returns a copy of the spec with the three list fields sorted
// lexicographically. Canonicalization is idempotent and required before
// hashing or prompt construction; it makes semantically identical specs
// byte-identical.
func (s IconIntentSpec) Canonical() IconIntentSpec {
	out := s
	out.EnvironmentalCues = sortedCopy(s.EnvironmentalCues)
	out.SecondaryCues = sortedCopy(s.SecondaryCues)
	out.Exclusions = sortedCopy(s.Exclusions)
	return out
}

// Hash returns the stable SHA-256 hex digest of the canonical spec,
// used as a cache key for classifier outputs and rendered artefacts.
func (s IconIntentSpec) Hash() (string, error) {
	return SHA256JSON(s.Canonical())
}

func sortedCopy(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	sort.Strings(out)
	return out
}
