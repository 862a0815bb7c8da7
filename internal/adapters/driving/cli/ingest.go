package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eti-labs/arpgen/internal/connectors/filesystem"
	"github.com/eti-labs/arpgen/internal/core/domain"
)

var (
	ingestSourceID     string
	ingestActivityID   int
	ingestJurisdiction string
	ingestAuthority    string
	ingestPublished    string
	ingestWatch        bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Ingest guidance documents from a directory",
	Long: `Walks a directory tree, sections every HTML, PDF, markdown, and
plain-text file into evidence chunks, and appends them to the search
index. With --watch the command keeps running and ingests files as
they appear or change.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSourceID, "source-id", "guidance", "source identifier prefix")
	ingestCmd.Flags().IntVar(&ingestActivityID, "activity-id", 0, "activity the chunks belong to")
	ingestCmd.Flags().StringVar(&ingestJurisdiction, "jurisdiction", "", "legal jurisdiction of the sources")
	ingestCmd.Flags().StringVar(&ingestAuthority, "authority-class", "", "issuing authority class")
	ingestCmd.Flags().StringVar(&ingestPublished, "published", "", "publication date of the sources")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "keep watching the directory for changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()
	connector := filesystem.New(ingestSourceID, args[0])

	sources, err := connector.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	total := 0
	for i := range sources {
		chunks, err := ingestOne(cmd, &sources[i])
		if err != nil {
			if errors.Is(err, domain.ErrPDFUnavailable) {
				cmd.Println(styleWarn.Render(fmt.Sprintf("Skipping %s: pdftotext not installed", sources[i].SourceID)))
				continue
			}
			return err
		}
		total += chunks
	}
	cmd.Printf("Ingested %d files, %d chunks.\n", len(sources), total)

	if !ingestWatch {
		return nil
	}

	cmd.Printf("Watching %s (ctrl-c to stop)...\n", args[0])
	err = connector.Watch(ctx, func(source domain.RawSource) {
		if _, err := ingestOne(cmd, &source); err != nil {
			cmd.Println(styleWarn.Render(fmt.Sprintf("Ingest %s failed: %v", source.SourceID, err)))
		}
	})
	if errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func ingestOne(cmd *cobra.Command, source *domain.RawSource) (int, error) {
	meta := domain.ChunkMeta{
		ActivityID:      ingestActivityID,
		SourceID:        source.SourceID,
		Jurisdiction:    ingestJurisdiction,
		AuthorityClass:  ingestAuthority,
		PublicationDate: ingestPublished,
	}

	rec, chunks, err := ingestService.Ingest(cmd.Context(), source, meta)
	if err != nil {
		return 0, fmt.Errorf("ingesting %s: %w", source.SourceID, err)
	}

	title := rec.Title
	if title == "" {
		title = source.SourceID
	}
	cmd.Printf("  %s %s\n", styleLabel.Render(fmt.Sprintf("[%d chunks]", len(chunks))), title)
	return len(chunks), nil
}
