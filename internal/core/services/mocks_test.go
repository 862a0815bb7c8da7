package services

import (
	"context"
	"sync"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// mockLLM is a scripted driven.LLMService.
type mockLLM struct {
	content string
	usage   driven.TokenUsage
	err     error

	lastReq driven.CompletionRequest
	calls   int
}

func (m *mockLLM) Complete(_ context.Context, req driven.CompletionRequest) (*driven.CompletionResult, error) {
	m.lastReq = req
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &driven.CompletionResult{Content: m.content, Usage: m.usage}, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

// mockChunkStore is an in-memory driven.ChunkStore for service tests.
type mockChunkStore struct {
	mu     sync.Mutex
	chunks map[string]domain.Chunk
	order  []string
	putErr error
}

func newMockChunkStore() *mockChunkStore {
	return &mockChunkStore{chunks: make(map[string]domain.Chunk)}
}

func (m *mockChunkStore) Put(_ context.Context, chunks []domain.Chunk) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		if _, ok := m.chunks[c.ChunkID]; !ok {
			m.order = append(m.order, c.ChunkID)
		}
		m.chunks[c.ChunkID] = c
	}
	return nil
}

func (m *mockChunkStore) Get(_ context.Context, chunkID string) (*domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chunks[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *mockChunkStore) ListBySource(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Chunk
	for _, id := range m.order {
		if c := m.chunks[id]; c.SourceID == sourceID {
			out = append(out, c)
		}
	}
	return out, nil
}

// mockEngine is a scripted driven.SearchEngine.
type mockEngine struct {
	indexed []domain.Chunk
	hits    []driven.SearchHit
	err     error
}

func (m *mockEngine) Index(_ context.Context, chunk domain.Chunk) error {
	m.indexed = append(m.indexed, chunk)
	return nil
}

func (m *mockEngine) Search(_ context.Context, _ string, _ int) ([]driven.SearchHit, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}
