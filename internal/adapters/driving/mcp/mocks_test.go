package mcp

import (
	"context"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
)

// mockEvidenceService is a mock implementation of driving.EvidenceService.
type mockEvidenceService struct {
	hits []domain.EvidenceHit
	err  error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockEvidenceService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.EvidenceHit, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.hits, m.err
}

// mockIconService is a mock implementation of driving.IconService.
type mockIconService struct {
	classification *driving.IconClassification
	fallback       domain.LegacyIconSpec
	prompt         string
	err            error
}

func (m *mockIconService) Classify(_ context.Context, _ domain.IconFormInput) (*driving.IconClassification, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.classification, nil
}

func (m *mockIconService) FallbackClassify(_, _ string) (domain.LegacyIconSpec, error) {
	return m.fallback, m.err
}

func (m *mockIconService) BuildPrompt(_ domain.IconIntentSpec) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompt, nil
}
