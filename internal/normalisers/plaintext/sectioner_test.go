package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

func TestSection_SingleSection(t *testing.T) {
	rec, err := New().Section(context.Background(), &domain.RawSource{
		SourceID: "src-1",
		Content:  []byte("line one\n\n  line   two  \n"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypeUnknown, rec.ContentType)
	require.Len(t, rec.Sections, 1)
	assert.Equal(t, "", rec.Sections[0].Heading)
	assert.Equal(t, "line one\nline two", rec.Sections[0].Text)
}

func TestSection_EmptyBody(t *testing.T) {
	rec, err := New().Section(context.Background(), &domain.RawSource{SourceID: "src-1"})

	require.NoError(t, err)
	require.Len(t, rec.Sections, 1)
	assert.Equal(t, "", rec.Sections[0].Text)
}

func TestSection_NilInput(t *testing.T) {
	_, err := New().Section(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
