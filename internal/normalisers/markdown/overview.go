// Package markdown provides heading-anchored extraction from rendered
// profile markdown.
package markdown

import (
	"regexp"
	"strings"
)

// maxOverviewLen caps the extracted overview size.
const maxOverviewLen = 1200

// overviewHeading matches the "Activity overview" H2, case-insensitive.
var overviewHeading = regexp.MustCompile(`(?im)^##[ \t]+activity overview[ \t]*$`)

// nextH2 matches any following H2 boundary.
var nextH2 = regexp.MustCompile(`(?m)^##[ \t]`)

// ExtractOverview returns the body of the "Activity overview" H2
// section: everything from the end of the heading to the next H2 or end
// of document, left-trimmed and truncated to 1200 characters. Returns
// an empty string when the heading is absent.
func ExtractOverview(md string) string {
	loc := overviewHeading.FindStringIndex(md)
	if loc == nil {
		return ""
	}

	rest := md[loc[1]:]
	if end := nextH2.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}

	rest = strings.TrimLeft(rest, " \t\r\n")
	// The cap counts runes so a multi-byte body never splits mid-rune.
	if runes := []rune(rest); len(runes) > maxOverviewLen {
		rest = string(runes[:maxOverviewLen])
	}
	return rest
}
