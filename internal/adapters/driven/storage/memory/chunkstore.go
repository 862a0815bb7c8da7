package memory

import (
	"context"
	"sync"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Insertion order is preserved for ListBySource.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
	order  []string
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string]domain.Chunk),
	}
}

// Put stores a batch of chunks. Re-putting an existing chunk ID
// overwrites in place without changing its position.
func (s *ChunkStore) Put(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		if _, ok := s.chunks[chunk.ChunkID]; !ok {
			s.order = append(s.order, chunk.ChunkID)
		}
		s.chunks[chunk.ChunkID] = chunk
	}
	return nil
}

// Get retrieves a chunk by its fingerprint.
func (s *ChunkStore) Get(_ context.Context, chunkID string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// ListBySource returns all chunks for a source in insertion order.
func (s *ChunkStore) ListBySource(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, id := range s.order {
		if chunk := s.chunks[id]; chunk.SourceID == sourceID {
			result = append(result, chunk)
		}
	}
	return result, nil
}
