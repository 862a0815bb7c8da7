package driven

import (
	"context"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

// Sectioner transforms raw source bytes into a sectioned document
// record. Each sectioner handles specific MIME types; all sectioners
// are deterministic over identical input bytes.
type Sectioner interface {
	// SupportedMIMETypes returns the MIME types this sectioner handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific sectioners should return 50-89.
	// Fallback sectioners should return 1-9.
	Priority() int

	// Section parses the raw source into an ordered document record.
	Section(ctx context.Context, raw *domain.RawSource) (*domain.DocumentRecord, error)
}
