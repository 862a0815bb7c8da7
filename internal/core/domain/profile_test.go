package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() ArpProfile {
	bullets := func(n int) []any {
		out := make([]any, n)
		for i := range out {
			out[i] = "bullet"
		}
		return out
	}

	return ArpProfile{
		SectionActivityOverview: "Flat water kayaking on sheltered lakes.",
		SectionWhyRisk: map[string]any{
			"paragraph": "Cold water and capsizes combine quickly.",
			"bullets":   bullets(3),
		},
		SectionUnderestimated: bullets(4),
		SectionGoodPractice:   bullets(5),
		SectionContextChanges: bullets(6),
		SectionFailureModes:   bullets(4),
		SectionNotTold:        bullets(4),
		SectionSourceContext:  "Derived from two regulator advisories.",
		SectionReviewMetadata: "Reviewed 2026-09.",
	}
}

func TestArpProfile_ValidateAccepts(t *testing.T) {
	assert.NoError(t, validProfile().Validate())
}

func TestArpProfile_MissingSection(t *testing.T) {
	p := validProfile()
	delete(p, SectionSourceContext)

	err := p.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "missing keys")
	assert.Contains(t, err.Error(), SectionSourceContext)
}

func TestArpProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(ArpProfile)
		wantErr string
	}{
		{
			name:    "overview not a string",
			mutate:  func(p ArpProfile) { p[SectionActivityOverview] = 5 },
			wantErr: "must be a string",
		},
		{
			name:    "risk section not an object",
			mutate:  func(p ArpProfile) { p[SectionWhyRisk] = "just text" },
			wantErr: "must be an object",
		},
		{
			name: "risk paragraph missing",
			mutate: func(p ArpProfile) {
				p[SectionWhyRisk] = map[string]any{"bullets": []any{"a", "b", "c"}}
			},
			wantErr: "paragraph",
		},
		{
			name: "risk bullets out of bounds",
			mutate: func(p ArpProfile) {
				p[SectionWhyRisk] = map[string]any{
					"paragraph": "p",
					"bullets":   []any{"a", "b"},
				}
			},
			wantErr: "3..4",
		},
		{
			name: "bullet section too short",
			mutate: func(p ArpProfile) {
				p[SectionFailureModes] = []any{"a", "b", "c"}
			},
			wantErr: "4..6",
		},
		{
			name: "bullet section too long",
			mutate: func(p ArpProfile) {
				p[SectionNotTold] = []any{"a", "b", "c", "d", "e", "f", "g"}
			},
			wantErr: "4..6",
		},
		{
			name: "bullet entry not a string",
			mutate: func(p ArpProfile) {
				p[SectionUnderestimated] = []any{"a", "b", "c", 4}
			},
			wantErr: "not a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestArpProfile_ValidateDecodedJSON(t *testing.T) {
	raw, err := json.Marshal(validProfile())
	require.NoError(t, err)

	var p ArpProfile
	require.NoError(t, json.Unmarshal(raw, &p))

	assert.NoError(t, p.Validate())
}

func TestParseExtractionFields(t *testing.T) {
	raw := []byte(`{
		"environment_assumptions": ["calm water is assumed"],
		"participant_assumptions": [],
		"supervision_assumptions": null,
		"common_failure_modes": ["capsize close to shore"],
		"explicit_cautions": [],
		"explicit_limitations": []
	}`)

	fields, err := ParseExtractionFields(raw)

	require.NoError(t, err)
	assert.Equal(t, []string{"calm water is assumed"}, fields.EnvironmentAssumptions)
	// Null and empty arrays both come back as empty, never nil.
	assert.NotNil(t, fields.SupervisionAssumptions)
	assert.Empty(t, fields.SupervisionAssumptions)
	assert.NotNil(t, fields.ParticipantAssumptions)
}

func TestParseExtractionFields_MissingField(t *testing.T) {
	raw := []byte(`{
		"environment_assumptions": [],
		"participant_assumptions": [],
		"supervision_assumptions": [],
		"common_failure_modes": [],
		"explicit_cautions": []
	}`)

	_, err := ParseExtractionFields(raw)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "explicit_limitations")
}

func TestParseExtractionFields_NotAnObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"text"`, `not json`} {
		_, err := ParseExtractionFields([]byte(raw))
		assert.ErrorIs(t, err, ErrParse, "input %s", raw)
	}
}
