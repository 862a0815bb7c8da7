package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

var (
	searchLimit   int
	searchSources []string
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the evidence index",
	Long: `Performs a BM25 keyword search over the ingested evidence chunks
and prints the best matches with their relevance scores.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringSliceVar(&searchSources, "source", nil, "restrict results to these source IDs")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if evidenceService == nil {
		return errors.New("evidence service not configured")
	}

	opts := domain.SearchOptions{
		Limit:     searchLimit,
		SourceIDs: searchSources,
	}

	hits, err := evidenceService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println(styleHeading.Render("Results:"))
	cmd.Println()
	for i := range hits {
		chunk := hits[i].Chunk
		heading := chunk.Heading
		if heading == "" {
			heading = "(no heading)"
		}

		cmd.Printf("  [%d] %s %s\n", i+1, heading,
			styleScore.Render(fmt.Sprintf("(%.2f)", hits[i].Score)))
		cmd.Printf("      %s %s\n", styleLabel.Render("Source:"), chunk.SourceID)
		cmd.Printf("      %s\n", snippet(chunk.Text, 160))
		cmd.Println()
	}

	return nil
}

// snippet bounds chunk text for terminal display.
func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
