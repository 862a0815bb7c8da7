package driven

import (
	"context"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

// ChunkStore persists retrieval chunks. Chunks are written once per
// ingestion and never updated; Put is idempotent on chunk ID.
type ChunkStore interface {
	// Put stores a batch of chunks.
	Put(ctx context.Context, chunks []domain.Chunk) error

	// Get retrieves a chunk by its fingerprint.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, chunkID string) (*domain.Chunk, error)

	// ListBySource returns all chunks for a source in insertion order.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Chunk, error)
}

// ProfileStore persists validated Activity Risk Profiles.
type ProfileStore interface {
	// Save stores a validated profile for an activity.
	Save(ctx context.Context, activityID int, profile domain.ArpProfile) error

	// Get retrieves the stored profile for an activity.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, activityID int) (domain.ArpProfile, error)
}

// IconArtifact is a cached classifier output or rendered asset.
type IconArtifact struct {
	// InputHash is the classifier input hash (24 hex).
	InputHash string

	// RendererVersion identifies the renderer that produced the asset.
	RendererVersion string

	// Spec is the canonical intent spec as JSON.
	Spec []byte

	// SVG is the symbolic rendering, when produced.
	SVG string

	// PNG is the image-model rendering, when produced.
	PNG []byte

	// CostUSD is the accumulated generation cost.
	CostUSD float64
}

// IconCache stores icon artefacts keyed by (input_hash, renderer_version).
// The core only derives the keys; storage is owned by the adapter.
type IconCache interface {
	// Put stores an artefact under its key.
	Put(ctx context.Context, artifact IconArtifact) error

	// Get retrieves an artefact. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, inputHash, rendererVersion string) (*IconArtifact, error)
}
