package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
	"github.com/eti-labs/arpgen/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService sections raw sources and fans the resulting chunks out
// to the chunk store and the search index.
type IngestService struct {
	sectioners []driven.Sectioner
	engine     driven.SearchEngine
	chunks     driven.ChunkStore
}

// NewIngestService creates an ingest service. Sectioners are consulted
// by MIME type, highest priority first.
func NewIngestService(engine driven.SearchEngine, chunks driven.ChunkStore, sectioners ...driven.Sectioner) *IngestService {
	return &IngestService{
		sectioners: sectioners,
		engine:     engine,
		chunks:     chunks,
	}
}

// Ingest sections the raw source, builds chunks with the given
// metadata, persists them, and appends them to the search index.
func (s *IngestService) Ingest(ctx context.Context, raw *domain.RawSource, meta domain.ChunkMeta) (*domain.DocumentRecord, []domain.Chunk, error) {
	if raw == nil {
		return nil, nil, domain.ErrInvalidInput
	}

	logger.Section("Ingestion")
	logger.Debug("Source: %s (%s)", raw.SourceID, raw.MIMEType)

	sectioner, err := s.sectionerFor(raw.MIMEType)
	if err != nil {
		return nil, nil, err
	}

	rec, err := sectioner.Section(ctx, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("section %s: %w", raw.SourceID, err)
	}
	logger.Debug("Sections: %d, title %q", len(rec.Sections), rec.Title)

	// Chunk identity is content-addressed; the run ID is provenance only.
	if rec.Extra == nil {
		rec.Extra = make(map[string]string)
	}
	rec.Extra["ingest_id"] = uuid.New().String()

	chunks := domain.BuildChunks(rec, meta)
	logger.Info("Chunks emitted: %d", len(chunks))

	if s.chunks != nil {
		if err := s.chunks.Put(ctx, chunks); err != nil {
			return nil, nil, fmt.Errorf("store chunks: %w", err)
		}
	}

	for _, chunk := range chunks {
		if err := s.engine.Index(ctx, chunk); err != nil {
			return nil, nil, fmt.Errorf("index chunk %s: %w", chunk.ChunkID, err)
		}
	}

	return rec, chunks, nil
}

// sectionerFor picks the highest-priority sectioner claiming the MIME
// type, falling back to any sectioner that registers the empty type.
func (s *IngestService) sectionerFor(mimeType string) (driven.Sectioner, error) {
	var best driven.Sectioner
	var fallback driven.Sectioner

	for _, sec := range s.sectioners {
		for _, mt := range sec.SupportedMIMETypes() {
			switch {
			case mt == mimeType:
				if best == nil || sec.Priority() > best.Priority() {
					best = sec
				}
			case mt == "":
				if fallback == nil || sec.Priority() > fallback.Priority() {
					fallback = sec
				}
			}
		}
	}

	if best != nil {
		return best, nil
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, fmt.Errorf("%w: no sectioner for %q", domain.ErrUnsupportedType, mimeType)
}
