package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
)

func validProfileJSON(t *testing.T) string {
	t.Helper()
	bullets4 := []string{"one", "two", "three", "four"}
	profile := map[string]any{
		domain.SectionActivityOverview: "A flat-water kayaking session for year 9 pupils.",
		domain.SectionWhyRisk: map[string]any{
			"paragraph": "Open water combines cold, depth and distance from help.",
			"bullets":   []string{"cold shock", "capsize recovery", "group spread"},
		},
		domain.SectionUnderestimated: bullets4,
		domain.SectionGoodPractice:   bullets4,
		domain.SectionContextChanges: bullets4,
		domain.SectionFailureModes:   bullets4,
		domain.SectionNotTold:        bullets4,
		domain.SectionSourceContext:  "Two regulator guidance documents, UK, 2023.",
		domain.SectionReviewMetadata: "Generated 2026-09-01 from 12 evidence chunks.",
	}
	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	return string(raw)
}

func TestSynthesisService_Synthesize(t *testing.T) {
	input := driving.SynthesisInput{
		ActivityName: "Kayaking",
		Overview:     "Flat-water paddling.",
		Extractions: []domain.ArpExtractionFields{{
			EnvironmentAssumptions: []string{"calm water"},
			ParticipantAssumptions: []string{},
			SupervisionAssumptions: []string{},
			CommonFailureModes:     []string{},
			ExplicitCautions:       []string{},
			ExplicitLimitations:    []string{},
		}},
		SourceContext: "one regulator source",
	}

	t.Run("returns a validated profile", func(t *testing.T) {
		llm := &mockLLM{content: validProfileJSON(t)}
		svc := NewSynthesisService(llm)

		profile, err := svc.Synthesize(context.Background(), input)
		require.NoError(t, err)
		require.NoError(t, profile.Validate())

		req := llm.lastReq
		require.NotNil(t, req.Schema)
		assert.Equal(t, "arp_profile", req.Schema.Name)
		assert.Equal(t, synthesisMaxTokens, req.MaxTokens)

		var payload synthesisPayload
		require.NoError(t, json.Unmarshal([]byte(req.User), &payload))
		assert.Equal(t, "Kayaking", payload.ActivityName)
		assert.Len(t, payload.Extractions, 1)
	})

	t.Run("non-conforming profile is rejected, not repaired", func(t *testing.T) {
		llm := &mockLLM{content: `{"Activity overview": "only one section"}`}
		svc := NewSynthesisService(llm)

		_, err := svc.Synthesize(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("malformed output is a parse error", func(t *testing.T) {
		llm := &mockLLM{content: "not json at all"}
		svc := NewSynthesisService(llm)

		_, err := svc.Synthesize(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrParse)
	})

	t.Run("blank activity name", func(t *testing.T) {
		svc := NewSynthesisService(&mockLLM{})
		_, err := svc.Synthesize(context.Background(), driving.SynthesisInput{ActivityName: " "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("nil llm", func(t *testing.T) {
		svc := NewSynthesisService(nil)
		_, err := svc.Synthesize(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}

func TestSynthesisService_RenderMarkdown(t *testing.T) {
	svc := NewSynthesisService(nil)

	var profile domain.ArpProfile
	require.NoError(t, json.Unmarshal([]byte(validProfileJSON(t)), &profile))

	t.Run("fixed layout in section order", func(t *testing.T) {
		md, err := svc.RenderMarkdown("Kayaking", profile)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(md, "# Activity Risk Profile\n\n**Activity:** Kayaking\n"))

		lastIdx := -1
		for _, title := range domain.ProfileSectionOrder {
			idx := strings.Index(md, "\n## "+title+"\n")
			require.GreaterOrEqual(t, idx, 0, "missing section %q", title)
			assert.Greater(t, idx, lastIdx, "section %q out of order", title)
			lastIdx = idx
		}

		assert.Contains(t, md, "Open water combines cold, depth and distance from help.\n\n- cold shock\n")
		assert.Contains(t, md, "- capsize recovery\n")
		assert.Contains(t, md, "Generated 2026-09-01 from 12 evidence chunks.\n")
	})

	t.Run("invalid profile is refused", func(t *testing.T) {
		_, err := svc.RenderMarkdown("Kayaking", domain.ArpProfile{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rendering is deterministic", func(t *testing.T) {
		first, err := svc.RenderMarkdown("Kayaking", profile)
		require.NoError(t, err)
		for range 3 {
			again, err := svc.RenderMarkdown("Kayaking", profile)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}
