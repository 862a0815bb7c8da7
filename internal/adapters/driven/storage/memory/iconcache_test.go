package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

func TestIconCache_PutGet(t *testing.T) {
	cache := NewIconCache()
	ctx := context.Background()

	artifact := driven.IconArtifact{
		InputHash:       "abc123def456abc123def456",
		RendererVersion: "symbolic-v1",
		Spec:            []byte(`{"icon_category":"water_flat"}`),
		SVG:             "<svg></svg>",
		CostUSD:         0,
	}
	require.NoError(t, cache.Put(ctx, artifact))

	got, err := cache.Get(ctx, artifact.InputHash, "symbolic-v1")
	require.NoError(t, err)
	assert.Equal(t, artifact, *got)
}

func TestIconCache_KeyIncludesRendererVersion(t *testing.T) {
	cache := NewIconCache()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, driven.IconArtifact{
		InputHash:       "abc",
		RendererVersion: "symbolic-v1",
		SVG:             "<svg></svg>",
	}))

	_, err := cache.Get(ctx, "abc", "image-v1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIconCache_Get_NotFound(t *testing.T) {
	cache := NewIconCache()
	_, err := cache.Get(context.Background(), "missing", "symbolic-v1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
