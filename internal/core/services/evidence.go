package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
	"github.com/eti-labs/arpgen/internal/logger"
)

// Ensure EvidenceService implements the interface.
var _ driving.EvidenceService = (*EvidenceService)(nil)

// defaultSearchLimit applies when the caller leaves Limit unset.
const defaultSearchLimit = 10

// EvidenceService retrieves ranked evidence chunks for extraction.
type EvidenceService struct {
	engine driven.SearchEngine
	chunks driven.ChunkStore
}

// NewEvidenceService creates an evidence retrieval service.
func NewEvidenceService(engine driven.SearchEngine, chunks driven.ChunkStore) *EvidenceService {
	return &EvidenceService{engine: engine, chunks: chunks}
}

// Search runs a BM25 query and hydrates the hits from the chunk store.
// An empty or tokenless query returns an empty result, never an error.
func (s *EvidenceService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.EvidenceHit, error) {
	logger.Section("Evidence Retrieval")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		return []domain.EvidenceHit{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	// Over-fetch when a source filter will drop hits afterwards.
	engineLimit := limit
	if len(opts.SourceIDs) > 0 {
		engineLimit = limit * 3
	}

	hits, err := s.engine.Search(ctx, query, engineLimit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			logger.Debug("Query tokenized to nothing, returning no results")
			return []domain.EvidenceHit{}, nil
		}
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("Raw hits: %d", len(hits))

	results := make([]domain.EvidenceHit, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.chunks.Get(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Indexed chunk %s missing from store", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("hydrate chunk %s: %w", hit.ChunkID, err)
		}
		if len(opts.SourceIDs) > 0 && !containsString(opts.SourceIDs, chunk.SourceID) {
			continue
		}
		results = append(results, domain.EvidenceHit{Chunk: *chunk, Score: hit.Score})
		if len(results) == limit {
			break
		}
	}

	logger.Info("Evidence hits: %d", len(results))
	return results, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
