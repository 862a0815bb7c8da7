package bm25

import (
	"context"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// Engine adapts the BM25 index to the SearchEngine port. Chunks are
// indexed by their stable fingerprint; only the chunk text is scored.
type Engine struct {
	idx *Index
}

// NewEngine creates a search engine backed by an empty BM25 index.
func NewEngine(opts ...Option) *Engine {
	return &Engine{idx: New(opts...)}
}

// Index appends a chunk to the corpus.
func (e *Engine) Index(_ context.Context, chunk domain.Chunk) error {
	e.idx.Add(chunk.ChunkID, chunk.Text, map[string]string{
		"source_id": chunk.SourceID,
	})
	return nil
}

// Search returns up to limit chunk IDs ordered by descending score.
// A query with no tokens surfaces ErrEmptyQuery; callers translate it
// to an empty result set.
func (e *Engine) Search(_ context.Context, query string, limit int) ([]driven.SearchHit, error) {
	hits, err := e.idx.Query(query, limit)
	if err != nil {
		return nil, err
	}

	out := make([]driven.SearchHit, len(hits))
	for i, h := range hits {
		out[i] = driven.SearchHit{ChunkID: h.ID, Score: h.Score}
	}
	return out, nil
}

// Len returns the number of indexed chunks.
func (e *Engine) Len() int {
	return e.idx.Len()
}
