package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

func TestExtractionService_Extract(t *testing.T) {
	t.Run("parses a complete field set", func(t *testing.T) {
		llm := &mockLLM{content: `{
			"environment_assumptions": ["calm water"],
			"participant_assumptions": [],
			"supervision_assumptions": ["qualified instructor present"],
			"common_failure_modes": [],
			"explicit_cautions": ["check forecast before launch"],
			"explicit_limitations": []
		}`}
		svc := NewExtractionService(llm)

		fields, err := svc.Extract(context.Background(),
			"Kayaking", "Supervision", "A qualified instructor must be present on calm water.")
		require.NoError(t, err)

		assert.Equal(t, []string{"calm water"}, fields.EnvironmentAssumptions)
		assert.Equal(t, []string{}, fields.ParticipantAssumptions)
		assert.Equal(t, []string{"qualified instructor present"}, fields.SupervisionAssumptions)
		assert.Equal(t, []string{"check forecast before launch"}, fields.ExplicitCautions)
	})

	t.Run("sends a schema-constrained request", func(t *testing.T) {
		llm := &mockLLM{content: `{
			"environment_assumptions": [], "participant_assumptions": [],
			"supervision_assumptions": [], "common_failure_modes": [],
			"explicit_cautions": [], "explicit_limitations": []
		}`}
		svc := NewExtractionService(llm)

		_, err := svc.Extract(context.Background(), "Climbing", "Ropes", "Use a rated rope.")
		require.NoError(t, err)

		req := llm.lastReq
		require.NotNil(t, req.Schema)
		assert.Equal(t, "arp_extraction", req.Schema.Name)
		assert.Equal(t, extractionMaxTokens, req.MaxTokens)
		assert.Equal(t, extractionSystemPrompt, req.System)

		var input extractionInput
		require.NoError(t, json.Unmarshal([]byte(req.User), &input))
		assert.Equal(t, "Climbing", input.Activity)
		assert.Equal(t, "Ropes", input.Heading)
		assert.Equal(t, "Use a rated rope.", input.Excerpt)
	})

	t.Run("missing field is rejected", func(t *testing.T) {
		llm := &mockLLM{content: `{"environment_assumptions": []}`}
		svc := NewExtractionService(llm)

		_, err := svc.Extract(context.Background(), "Kayaking", "h", "x")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("non-object output is a parse error", func(t *testing.T) {
		llm := &mockLLM{content: `["not", "an", "object"]`}
		svc := NewExtractionService(llm)

		_, err := svc.Extract(context.Background(), "Kayaking", "h", "x")
		assert.ErrorIs(t, err, domain.ErrParse)
	})

	t.Run("nil llm", func(t *testing.T) {
		svc := NewExtractionService(nil)
		_, err := svc.Extract(context.Background(), "Kayaking", "h", "x")
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		llm := &mockLLM{err: domain.ErrUpstream}
		svc := NewExtractionService(llm)
		_, err := svc.Extract(context.Background(), "Kayaking", "h", "x")
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}
