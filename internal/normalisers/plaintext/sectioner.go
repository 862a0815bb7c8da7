// Package plaintext provides the fallback sectioner for unrecognised
// source types: the whole body becomes a single section.
package plaintext

import (
	"context"
	"strconv"
	"strings"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Ensure Sectioner implements the interface.
var _ driven.Sectioner = (*Sectioner)(nil)

// Sectioner handles plain text and any source no other sectioner claims.
type Sectioner struct{}

// New creates a new plaintext sectioner.
func New() *Sectioner {
	return &Sectioner{}
}

// SupportedMIMETypes returns the MIME types this sectioner handles.
// The empty string marks it as the universal fallback.
func (s *Sectioner) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown", ""}
}

// Priority returns the selection priority. Lowest: only used when no
// format-specific sectioner claims the type.
func (s *Sectioner) Priority() int {
	return 1
}

// Section wraps the whole body in a single section with an empty
// heading. Horizontal whitespace is collapsed per line.
func (s *Sectioner) Section(_ context.Context, raw *domain.RawSource) (*domain.DocumentRecord, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var lines []string
	for _, line := range strings.Split(string(raw.Content), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}

	return &domain.DocumentRecord{
		SourceID:    raw.SourceID,
		ContentType: domain.ContentTypeUnknown,
		Sections:    []domain.DocumentSection{{Text: strings.Join(lines, "\n")}},
		Extra: map[string]string{
			"format": "plaintext",
			"bytes":  strconv.Itoa(len(raw.Content)),
		},
	}, nil
}
