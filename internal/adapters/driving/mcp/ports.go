package mcp

import (
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Evidence provides ranked evidence retrieval.
	Evidence driving.EvidenceService

	// Icon drives the icon intent pipeline.
	Icon driving.IconService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Evidence == nil {
		return ErrMissingEvidenceService
	}
	if p.Icon == nil {
		return ErrMissingIconService
	}
	return nil
}
