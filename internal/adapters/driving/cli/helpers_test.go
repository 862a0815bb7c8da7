package cli

import (
	"context"

	"github.com/eti-labs/arpgen/internal/adapters/driven/render/svg"
	"github.com/eti-labs/arpgen/internal/adapters/driven/search/bm25"
	"github.com/eti-labs/arpgen/internal/adapters/driven/storage/memory"
	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
	"github.com/eti-labs/arpgen/internal/core/services"
	htmlnorm "github.com/eti-labs/arpgen/internal/normalisers/html"
	plainnorm "github.com/eti-labs/arpgen/internal/normalisers/plaintext"
)

// setupTestServices wires in-memory adapters behind the command
// package vars so rootCmd.Execute skips the real initialisation. The
// index holds a single kayaking chunk so searches can return a hit.
// The returned cleanup restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldEvidence := evidenceService
	oldExtraction := extractionService
	oldSynthesis := synthesisService
	oldIcon := iconService
	oldProfiles := profileStore
	oldIconCache := iconCache
	oldSVG := svgRenderer

	engine := bm25.NewEngine()
	chunks := memory.NewChunkStore()

	chunk := domain.Chunk{
		SourceID:       "guidance/kayaking.html",
		Heading:        "Supervision",
		Text:           "Kayaking groups require one qualified leader per six participants on still water.",
		AuthorityClass: "national_guidance",
		Loc:            "section:0",
	}
	chunk.ChunkID = domain.ChunkID(chunk.SourceID, chunk.Heading, chunk.Text)

	ctx := context.Background()
	_ = chunks.Put(ctx, []domain.Chunk{chunk})
	_ = engine.Index(ctx, chunk)

	ingestService = services.NewIngestService(engine, chunks, htmlnorm.New(), plainnorm.New())
	evidenceService = services.NewEvidenceService(engine, chunks)
	extractionService = services.NewExtractionService(nil)
	synthesisService = services.NewSynthesisService(nil)
	iconService = services.NewIconService(nil, services.IconCostRates{})
	profileStore = memory.NewProfileStore()
	iconCache = memory.NewIconCache()
	svgRenderer = svg.NewRenderer(svg.ColorPrimary)

	return func() {
		ingestService = oldIngest
		evidenceService = oldEvidence
		extractionService = oldExtraction
		synthesisService = oldSynthesis
		iconService = oldIcon
		profileStore = oldProfiles
		iconCache = oldIconCache
		svgRenderer = oldSVG
	}
}

// mockEvidenceError always fails, for error-path tests.
type mockEvidenceError struct{}

func (mockEvidenceError) Search(context.Context, string, domain.SearchOptions) ([]domain.EvidenceHit, error) {
	return nil, domain.ErrUpstream
}

var _ driving.EvidenceService = mockEvidenceError{}
