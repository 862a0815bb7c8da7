package driven

import (
	"context"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

// SearchEngine provides keyword search over the chunk corpus.
// Backed by an append-only BM25 index; there is no delete or update.
type SearchEngine interface {
	// Index appends a chunk to the corpus.
	Index(ctx context.Context, chunk domain.Chunk) error

	// Search performs a keyword search and returns matching chunk IDs
	// with scores, best first. Retrieval never mutates the index.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

// SearchHit represents a search result from the engine.
type SearchHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the BM25 relevance score.
	Score float64
}
