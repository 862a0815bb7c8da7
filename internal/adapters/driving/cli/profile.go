package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driving"
	"github.com/eti-labs/arpgen/internal/normalisers/markdown"
)

var (
	profileQuery        string
	profileLimit        int
	profileActivityID   int
	profileOverviewFile string
	profileJSON         bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Activity Risk Profile commands",
}

var profileGenerateCmd = &cobra.Command{
	Use:   "generate [activity name]",
	Short: "Generate an Activity Risk Profile",
	Long: `Retrieves evidence for the activity, extracts structured risk fields
from each chunk, synthesizes a whole profile under the strict section
schema, and renders it as markdown. Requires a configured LLM backend.

The profile is persisted when --activity-id is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileGenerate,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [activity name]",
	Short: "Render a stored profile as markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

func init() {
	profileGenerateCmd.Flags().StringVar(&profileQuery, "query", "", "evidence query (defaults to the activity name)")
	profileGenerateCmd.Flags().IntVarP(&profileLimit, "limit", "n", 10, "maximum number of evidence chunks")
	profileGenerateCmd.Flags().IntVar(&profileActivityID, "activity-id", 0, "persist the profile under this activity ID")
	profileGenerateCmd.Flags().StringVar(&profileOverviewFile, "overview-file", "", "markdown file carrying an \"Activity overview\" section")
	profileGenerateCmd.Flags().BoolVar(&profileJSON, "json", false, "output the raw profile JSON instead of markdown")
	profileCmd.AddCommand(profileGenerateCmd)

	profileShowCmd.Flags().IntVar(&profileActivityID, "activity-id", 0, "activity ID the profile was stored under")
	profileShowCmd.MarkFlagRequired("activity-id") //nolint:errcheck
	profileCmd.AddCommand(profileShowCmd)

	rootCmd.AddCommand(profileCmd)
}

func runProfileGenerate(cmd *cobra.Command, args []string) error {
	if evidenceService == nil || extractionService == nil || synthesisService == nil {
		return errors.New("services not configured")
	}

	ctx := cmd.Context()
	activityName := args[0]

	query := profileQuery
	if query == "" {
		query = activityName
	}

	overview := ""
	if profileOverviewFile != "" {
		raw, err := os.ReadFile(profileOverviewFile)
		if err != nil {
			return fmt.Errorf("reading overview file: %w", err)
		}
		overview = markdown.ExtractOverview(string(raw))
		if overview == "" {
			cmd.Println(styleWarn.Render("No \"Activity overview\" section found in the overview file."))
		}
	}

	hits, err := evidenceService.Search(ctx, query, domain.SearchOptions{Limit: profileLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(hits) == 0 {
		return errors.New("no evidence found; ingest sources first")
	}
	cmd.Printf("Evidence chunks: %d\n", len(hits))

	extractions := make([]domain.ArpExtractionFields, 0, len(hits))
	sourceIDs := make(map[string]bool)
	for i := range hits {
		chunk := hits[i].Chunk
		fields, err := extractionService.Extract(ctx, activityName, chunk.Heading, chunk.Text)
		if err != nil {
			if errors.Is(err, domain.ErrLLMUnavailable) {
				return errors.New("no LLM configured: set OPENAI_API_KEY or llm.api_key")
			}
			return fmt.Errorf("extracting from %s: %w", chunk.ChunkID, err)
		}
		extractions = append(extractions, *fields)
		sourceIDs[chunk.SourceID] = true
	}

	profile, err := synthesisService.Synthesize(ctx, driving.SynthesisInput{
		ActivityName:  activityName,
		Overview:      overview,
		Extractions:   extractions,
		SourceContext: sourceContext(len(hits), len(sourceIDs)),
	})
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	if profileActivityID > 0 && profileStore != nil {
		if err := profileStore.Save(ctx, profileActivityID, profile); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
		cmd.Printf("Profile saved under activity %d.\n", profileActivityID)
	}

	if profileJSON {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	md, err := synthesisService.RenderMarkdown(activityName, profile)
	if err != nil {
		return fmt.Errorf("rendering profile: %w", err)
	}
	cmd.Print(md)
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	if profileStore == nil || synthesisService == nil {
		return errors.New("services not configured")
	}

	profile, err := profileStore.Get(cmd.Context(), profileActivityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no profile stored for activity %d", profileActivityID)
		}
		return fmt.Errorf("loading profile: %w", err)
	}

	md, err := synthesisService.RenderMarkdown(args[0], profile)
	if err != nil {
		return fmt.Errorf("rendering profile: %w", err)
	}
	cmd.Print(md)
	return nil
}

// sourceContext summarises the evidence provenance for the synthesizer.
func sourceContext(chunks, sources int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d evidence chunks from %d source document", chunks, sources)
	if sources != 1 {
		b.WriteString("s")
	}
	return b.String()
}
