package domain

// Closed vocabularies governing icon intent specs. These are frozen at
// startup; validation is strict membership, never fuzzy matching.

// Icon geometry and colour constants. Every valid spec carries exactly
// these values.
const (
	// IconCanvas is the only permitted canvas size.
	IconCanvas = 64

	// IconStroke is the only permitted stroke width.
	IconStroke = 2

	// IconColorToken is the only permitted colour token.
	IconColorToken = "--eti-icon-primary"

	// IconVariantStandard is the only variant the fallback classifier
	// may emit.
	IconVariantStandard = "standard"
)

// IconCategories is the closed set of icon categories.
var IconCategories = []string{
	"accommodation",
	"indoor_activity",
	"land_trail",
	"transport_rail",
	"transport_road",
	"urban_walk",
	"water_flat",
}

// SymbolsByCategory maps each category to its permitted primary symbols.
// A spec's primary symbol must belong to the declared category.
var SymbolsByCategory = map[string][]string{
	"accommodation":   {"building_hotel"},
	"indoor_activity": {"indoor_activity"},
	"land_trail":      {"ascending_trail"},
	"transport_rail":  {"vehicle_train"},
	"transport_road":  {"vehicle_bus"},
	"urban_walk":      {"urban_path"},
	"water_flat":      {"kayak_top_down"},
}

// EnvironmentalCues is the closed set of environmental cue terms.
var EnvironmentalCues = []string{
	"cloud",
	"cold",
	"elevation",
	"heat",
	"rain",
	"still_water",
}

// SecondaryCues is the closed set of governance cue terms.
var SecondaryCues = []string{
	"group",
	"guided",
	"restricted",
}

// ExclusionTerms is the closed set of exclusion terms.
var ExclusionTerms = []string{
	"decoration",
	"motion",
	"people",
	"summit",
	"text",
	"waves",
}

// DefaultExclusions is the exclusion set applied when a classifier does
// not supply one. Every validated spec keeps at least these two terms.
var DefaultExclusions = []string{"people", "motion"}

// inVocab reports whether term is a member of the given closed set.
func inVocab(vocab []string, term string) bool {
	for _, v := range vocab {
		if v == term {
			return true
		}
	}
	return false
}
