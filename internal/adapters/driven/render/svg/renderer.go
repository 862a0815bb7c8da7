// Package svg renders icon intent specs to symbolic line-art SVG. It is
// the deterministic fallback when no image model is configured: validated
// spec in, single inline <svg> out, no network, no cost.
package svg

import (
	"fmt"
	"strings"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

// RendererVersion keys cached artefacts produced by this renderer.
// Bump it when any path data changes so stale cache entries miss.
const RendererVersion = "symbolic-v1"

// ColorMode selects the CSS variable the icon inherits its stroke from.
type ColorMode string

const (
	// ColorPrimary uses the institutional primary colour.
	ColorPrimary ColorMode = "primary"

	// ColorNeutral uses the neutral body colour.
	ColorNeutral ColorMode = "neutral"
)

// strokeVar maps a colour mode to its CSS variable reference.
func strokeVar(mode ColorMode) string {
	if mode == ColorNeutral {
		return "var(--eti-icon-neutral, #2B2B2B)"
	}
	return "var(--eti-icon-primary, #1F4E79)"
}

// primarySymbolPaths holds the path data per primary symbol. Every path
// set fits the 64x64 canvas with the baseline at y=50 (ground) or y=46
// (water).
var primarySymbolPaths = map[string][]string{
	"kayak_top_down": {
		// Hull outline with a central cockpit ellipse.
		`<path d="M32 10 C38 18 38 46 32 54 C26 46 26 18 32 10 Z"/>`,
		`<ellipse cx="32" cy="32" rx="3" ry="7"/>`,
	},
	"ascending_trail": {
		// Rising switchback path toward the upper right.
		`<path d="M16 48 L28 38 L24 32 L40 20 L36 16 L46 10"/>`,
	},
	"urban_path": {
		// Walkway between two building silhouettes.
		`<path d="M18 50 V26 H28 V50"/>`,
		`<path d="M36 50 V20 H48 V50"/>`,
		`<path d="M28 50 L36 50" stroke-dasharray="2 3"/>`,
	},
	"vehicle_bus": {
		`<rect x="14" y="22" width="36" height="22" rx="3"/>`,
		`<path d="M14 34 H50"/>`,
		`<circle cx="22" cy="48" r="3"/>`,
		`<circle cx="42" cy="48" r="3"/>`,
	},
	"vehicle_train": {
		`<rect x="18" y="16" width="28" height="26" rx="5"/>`,
		`<path d="M18 30 H46"/>`,
		`<circle cx="26" cy="46" r="2.5"/>`,
		`<circle cx="38" cy="46" r="2.5"/>`,
		`<path d="M22 50 L18 56 M42 50 L46 56"/>`,
	},
	"building_hotel": {
		`<rect x="18" y="18" width="28" height="32"/>`,
		`<path d="M24 26 H28 M36 26 H40 M24 34 H28 M36 34 H40"/>`,
		`<path d="M30 50 V42 H34 V50"/>`,
	},
	"indoor_activity": {
		// Four-wall outline with an open door.
		`<rect x="16" y="20" width="32" height="30"/>`,
		`<path d="M16 20 L32 10 L48 20"/>`,
		`<path d="M28 50 V36 H36 V50"/>`,
	},
}

// environmentalCueOrder fixes the compositing order of cue overlays so
// the same cue set always yields the same document, whatever order the
// spec listed them in.
var environmentalCueOrder = []string{
	"still_water", "elevation", "cloud", "heat", "cold", "rain",
}

// environmentalCuePaths holds the path data per environmental cue, keyed
// by vocabulary term.
var environmentalCuePaths = map[string][]string{
	"still_water": {
		`<path d="M16 49 H28 M36 49 H48"/>`,
	},
	"elevation": {
		`<path d="M46 24 L52 14 L58 24"/>`,
	},
	"cloud": {
		`<path d="M10 16 C10 12 14 10 17 12 C18 8 24 8 25 12 C28 11 30 14 28 16 Z"/>`,
	},
	"heat": {
		`<path d="M54 28 V14 M51 28 A4 4 0 1 0 57 28 Z"/>`,
	},
	"cold": {
		`<path d="M10 22 V34 M5 25 L15 31 M15 25 L5 31"/>`,
	},
	"rain": {
		`<path d="M14 12 L12 17 M22 12 L20 17 M30 12 L28 17"/>`,
	},
}

// ErrUnsupportedSymbol marks a spec whose primary symbol has no path
// set. It cannot occur for vocabulary-validated specs.
var ErrUnsupportedSymbol = fmt.Errorf("%w: no path set for symbol", domain.ErrValidation)

// Renderer emits symbolic SVG icons.
type Renderer struct {
	mode ColorMode
}

// NewRenderer creates a renderer in the given colour mode. An empty
// mode defaults to primary.
func NewRenderer(mode ColorMode) *Renderer {
	if mode == "" {
		mode = ColorPrimary
	}
	return &Renderer{mode: mode}
}

// Version returns the renderer cache version.
func (r *Renderer) Version() string {
	return RendererVersion
}

// Render validates and canonicalizes the spec, then composes the icon
// in fixed order: baseline, primary symbol, environmental cues in spec
// order, governance cues. Unknown cue terms are skipped silently; the
// validator has already rejected anything off-vocabulary.
func (r *Renderer) Render(spec domain.IconIntentSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	canonical := spec.Canonical()

	paths, ok := primarySymbolPaths[canonical.PrimarySymbol]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnsupportedSymbol, canonical.PrimarySymbol)
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" fill="none" stroke="%s" stroke-width="%d" stroke-linecap="round" stroke-linejoin="round">`,
		canonical.Canvas, canonical.Canvas, strokeVar(r.mode), canonical.Stroke)
	b.WriteString("\n")

	writeGroup(&b, "baseline", baselinePaths(canonical.IconCategory))
	writeGroup(&b, "symbol", paths)

	present := make(map[string]bool, len(canonical.EnvironmentalCues))
	for _, cue := range canonical.EnvironmentalCues {
		present[cue] = true
	}
	var cuePaths []string
	for _, cue := range environmentalCueOrder {
		if present[cue] {
			cuePaths = append(cuePaths, environmentalCuePaths[cue]...)
		}
	}
	if len(cuePaths) > 0 {
		writeGroup(&b, "environment", cuePaths)
	}

	var govPaths []string
	for _, cue := range canonical.SecondaryCues {
		govPaths = append(govPaths, governanceCuePaths(cue)...)
	}
	if len(govPaths) > 0 {
		writeGroup(&b, "governance", govPaths)
	}

	b.WriteString("</svg>\n")
	return b.String(), nil
}

// baselinePaths returns the ground treatment for a category: a
// still-water doublet for water activities, a flat ground line otherwise.
func baselinePaths(category string) []string {
	if strings.HasPrefix(category, "water_") {
		return []string{`<path d="M12 46 H26 M38 46 H52"/>`}
	}
	return []string{`<path d="M14 50 H50"/>`}
}

// governanceCuePaths returns the overlay for a secondary cue.
func governanceCuePaths(cue string) []string {
	switch cue {
	case "guided":
		// Corner bracket, top-left.
		return []string{`<path d="M6 14 V6 H14"/>`}
	case "group":
		return []string{`<rect x="3" y="3" width="58" height="58" rx="4" stroke-dasharray="4 4"/>`}
	case "restricted":
		return []string{
			`<rect x="3" y="3" width="58" height="58" rx="4" stroke-dasharray="4 4"/>`,
			`<path d="M8 56 L56 8"/>`,
		}
	default:
		return nil
	}
}

// writeGroup wraps a path set in a labelled group element.
func writeGroup(b *strings.Builder, label string, paths []string) {
	fmt.Fprintf(b, `  <g data-layer="%s">`, label)
	b.WriteString("\n")
	for _, p := range paths {
		b.WriteString("    ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("  </g>\n")
}
