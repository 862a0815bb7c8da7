// Package mcp provides an MCP (Model Context Protocol) server adapter
// for the ARP generator. It lets AI assistants query the evidence index
// and drive the icon pipeline.
package mcp

import "errors"

// ErrMissingEvidenceService is returned when the evidence service is not provided.
var ErrMissingEvidenceService = errors.New("mcp: evidence service is required")

// ErrMissingIconService is returned when the icon service is not provided.
var ErrMissingIconService = errors.New("mcp: icon service is required")
