package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

// SearchInput is the input schema for the evidence search tool.
type SearchInput struct {
	Query     string   `json:"query" jsonschema:"the search query to find evidence chunks"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	SourceIDs []string `json:"source_ids,omitempty" jsonschema:"restrict results to these source documents"`
}

// SearchOutput is the output schema for the evidence search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single evidence hit.
type SearchResultOutput struct {
	ChunkID  string  `json:"chunk_id"`
	SourceID string  `json:"source_id"`
	Heading  string  `json:"heading"`
	Text     string  `json:"text"`
	Loc      string  `json:"loc"`
	Score    float64 `json:"score"`
}

// ClassifyInput is the input schema for the icon classification tool.
type ClassifyInput struct {
	ActivityName string `json:"activity_name" jsonschema:"the activity display name"`
	ContextNote  string `json:"context_note" jsonschema:"a short free-text description of the activity"`
}

// ClassifyOutput is the output schema for the icon classification tool.
type ClassifyOutput struct {
	Spec      domain.IconIntentSpec `json:"spec"`
	InputHash string                `json:"input_hash"`
	SpecHash  string                `json:"spec_hash"`
	CostUSD   float64               `json:"cost_usd"`
	Prompt    string                `json:"prompt"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_evidence",
		Description: "Search the indexed guidance corpus for risk-relevant evidence chunks",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_icon",
		Description: "Classify an activity into a canonical icon intent spec and build its rendering prompt",
	}, s.handleClassify)
}

// handleSearch handles the search_evidence tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{Limit: limit, SourceIDs: input.SourceIDs}
	hits, err := s.ports.Evidence.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}

	for i := range hits {
		output.Results[i] = SearchResultOutput{
			ChunkID:  hits[i].Chunk.ChunkID,
			SourceID: hits[i].Chunk.SourceID,
			Heading:  hits[i].Chunk.Heading,
			Text:     hits[i].Chunk.Text,
			Loc:      hits[i].Chunk.Loc,
			Score:    hits[i].Score,
		}
	}

	return nil, output, nil
}

// handleClassify handles the classify_icon tool invocation.
func (s *Server) handleClassify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	form := domain.IconFormInput{
		ActivityName: input.ActivityName,
		ContextNote:  input.ContextNote,
	}

	classification, err := s.ports.Icon.Classify(ctx, form)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}

	prompt, err := s.ports.Icon.BuildPrompt(classification.Spec)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}

	return nil, ClassifyOutput{
		Spec:      classification.Spec,
		InputHash: classification.InputHash,
		SpecHash:  classification.SpecHash,
		CostUSD:   classification.CostUSD,
		Prompt:    prompt,
	}, nil
}
