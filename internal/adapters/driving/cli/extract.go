package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

var (
	extractActivity string
	extractLimit    int
)

var extractCmd = &cobra.Command{
	Use:   "extract [query]",
	Short: "Extract risk fields from matching evidence",
	Long: `Searches the evidence index, runs the grounded field extractor over
each matching chunk, and prints the structured extraction results as
JSON. Requires a configured LLM backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractActivity, "activity", "", "activity name for extraction context (required)")
	extractCmd.Flags().IntVarP(&extractLimit, "limit", "n", 10, "maximum number of chunks to extract from")
	extractCmd.MarkFlagRequired("activity") //nolint:errcheck
	rootCmd.AddCommand(extractCmd)
}

// chunkExtraction pairs a chunk with its extraction result for output.
type chunkExtraction struct {
	ChunkID  string                      `json:"chunk_id"`
	SourceID string                      `json:"source_id"`
	Heading  string                      `json:"heading"`
	Fields   *domain.ArpExtractionFields `json:"fields"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	if evidenceService == nil || extractionService == nil {
		return errors.New("services not configured")
	}

	ctx := cmd.Context()
	hits, err := evidenceService.Search(ctx, args[0], domain.SearchOptions{Limit: extractLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(hits) == 0 {
		cmd.Println("No evidence found.")
		return nil
	}

	results := make([]chunkExtraction, 0, len(hits))
	for i := range hits {
		chunk := hits[i].Chunk
		fields, err := extractionService.Extract(ctx, extractActivity, chunk.Heading, chunk.Text)
		if err != nil {
			if errors.Is(err, domain.ErrLLMUnavailable) {
				return errors.New("no LLM configured: set OPENAI_API_KEY or llm.api_key")
			}
			return fmt.Errorf("extracting from %s: %w", chunk.ChunkID, err)
		}
		results = append(results, chunkExtraction{
			ChunkID:  chunk.ChunkID,
			SourceID: chunk.SourceID,
			Heading:  chunk.Heading,
			Fields:   fields,
		})
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
