// Package cli provides the command-line interface for the ARP generator.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/eti-labs/arpgen/internal/adapters/driven/config/file"
	openaillm "github.com/eti-labs/arpgen/internal/adapters/driven/llm/openai"
	openaiimg "github.com/eti-labs/arpgen/internal/adapters/driven/render/openai"
	"github.com/eti-labs/arpgen/internal/adapters/driven/render/svg"
	"github.com/eti-labs/arpgen/internal/adapters/driven/search/bm25"
	"github.com/eti-labs/arpgen/internal/adapters/driven/storage/sqlite"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
	"github.com/eti-labs/arpgen/internal/core/services"
	"github.com/eti-labs/arpgen/internal/logger"
	htmlnorm "github.com/eti-labs/arpgen/internal/normalisers/html"
	pdfnorm "github.com/eti-labs/arpgen/internal/normalisers/pdf"
	plainnorm "github.com/eti-labs/arpgen/internal/normalisers/plaintext"
)

// version is set at build time via ldflags.
var version = "dev"

// Root flags.
var (
	flagVerbose bool
	flagConfig  string
	flagDataDir string
)

// Wired services, populated by initServices. Tests may substitute
// their own implementations.
var (
	cfg *configfile.Config

	store        *sqlite.Store
	searchEngine *bm25.Engine
	llmService   driven.LLMService
	imgRenderer  *openaiimg.ImageRenderer
	svgRenderer  *svg.Renderer

	ingestService     driving.IngestService
	evidenceService   driving.EvidenceService
	extractionService driving.ExtractionService
	synthesisService  driving.SynthesisService
	iconService       driving.IconService
	profileStore      driven.ProfileStore
	iconCache         driven.IconCache
)

var rootCmd = &cobra.Command{
	Use:   "arpgen",
	Short: "Activity Risk Profile generator for school travel",
	Long: `arpgen assembles leader-facing Activity Risk Profiles for
school-sponsored educational travel. It ingests guidance documents,
retrieves evidence with BM25 ranking, drives schema-constrained LLM
extraction and synthesis, and generates activity icons through a
closed-vocabulary intent pipeline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default ~/.arpgen/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.arpgen/data)")
}

// initServices wires the adapters into the core services. It is
// idempotent so tests can pre-populate services and skip the wiring.
func initServices(ctx context.Context) error {
	if ingestService != nil {
		return nil
	}

	configPath := flagConfig
	if configPath == "" {
		var err error
		configPath, err = configfile.DefaultPath()
		if err != nil {
			return err
		}
	}

	var err error
	cfg, err = configfile.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	profileStore = store.ProfileStore()
	iconCache = store.IconCache()

	// The BM25 index lives in memory; rebuild it from the chunk store.
	searchEngine = bm25.NewEngine()
	chunks, err := store.AllChunks(ctx)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	for _, chunk := range chunks {
		if err := searchEngine.Index(ctx, chunk); err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}
	}
	logger.Debug("Rebuilt index with %d chunks", len(chunks))

	// LLM-backed services stay nil-tolerant: without an API key the
	// icon pipeline falls back to keyword classification and profile
	// generation reports the LLM as unavailable.
	if cfg.LLM.APIKey != "" {
		llmService, err = openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Model:             cfg.LLM.ClassifierModel,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		})
		if err != nil {
			return fmt.Errorf("configuring llm: %w", err)
		}

		imgRenderer, err = openaiimg.NewImageRenderer(openaiimg.ImageConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.RendererModel,
			USDPerImage: cfg.Costs.RendererUSDPerImage,
		})
		if err != nil {
			return fmt.Errorf("configuring image renderer: %w", err)
		}
	}

	svgRenderer = svg.NewRenderer(svg.ColorPrimary)

	ingestService = services.NewIngestService(searchEngine, store.ChunkStore(),
		htmlnorm.New(), pdfnorm.New(), plainnorm.New())
	evidenceService = services.NewEvidenceService(searchEngine, store.ChunkStore())
	extractionService = services.NewExtractionService(llmService)
	synthesisService = services.NewSynthesisService(llmService)
	iconService = services.NewIconService(llmService, services.IconCostRates{
		InputUSDPer1M:  cfg.Costs.ClassifierInputUSDPer1M,
		OutputUSDPer1M: cfg.Costs.ClassifierOutputUSDPer1M,
	})

	return nil
}
