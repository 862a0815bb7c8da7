package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eti-labs/arpgen/internal/adapters/driven/render/svg"
	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

var (
	iconNote     string
	iconOverview string
	iconOutput   string
	iconNeutral  bool
	iconNoCache  bool
)

var iconCmd = &cobra.Command{
	Use:   "icon",
	Short: "Activity icon commands",
	Long: `Commands for the icon intent pipeline: classification into a
closed-vocabulary intent spec, deterministic prompt construction, and
rendering (symbolic SVG or image model).`,
}

var iconClassifyCmd = &cobra.Command{
	Use:   "classify [activity name]",
	Short: "Classify an activity into an icon intent spec",
	Long: `Runs the LLM classifier over the activity name and context note and
prints the canonical intent spec with its hashes and cost. Without a
configured LLM, use --overview to run the keyword fallback instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runIconClassify,
}

var iconPromptCmd = &cobra.Command{
	Use:   "prompt [activity name]",
	Short: "Build the rendering prompt for an activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runIconPrompt,
}

var iconSVGCmd = &cobra.Command{
	Use:   "svg [activity name]",
	Short: "Render a symbolic SVG icon",
	Long: `Classifies the activity (LLM when configured, keyword fallback
otherwise) and renders the symbolic line-art SVG. The artefact is
cached by input hash and renderer version.`,
	Args: cobra.ExactArgs(1),
	RunE: runIconSVG,
}

var iconRenderCmd = &cobra.Command{
	Use:   "render [activity name]",
	Short: "Render a PNG icon with the image model",
	Args:  cobra.ExactArgs(1),
	RunE:  runIconRender,
}

func init() {
	for _, c := range []*cobra.Command{iconClassifyCmd, iconPromptCmd, iconSVGCmd, iconRenderCmd} {
		c.Flags().StringVar(&iconNote, "note", "", "context note describing the activity")
		c.Flags().StringVar(&iconOverview, "overview", "", "activity overview for keyword fallback classification")
	}
	iconSVGCmd.Flags().StringVarP(&iconOutput, "output", "o", "", "write the SVG to a file instead of stdout")
	iconSVGCmd.Flags().BoolVar(&iconNeutral, "neutral", false, "use the neutral colour token")
	iconSVGCmd.Flags().BoolVar(&iconNoCache, "no-cache", false, "bypass the icon cache")
	iconRenderCmd.Flags().StringVarP(&iconOutput, "output", "o", "", "write the PNG to a file (required)")
	iconRenderCmd.MarkFlagRequired("output") //nolint:errcheck

	iconCmd.AddCommand(iconClassifyCmd)
	iconCmd.AddCommand(iconPromptCmd)
	iconCmd.AddCommand(iconSVGCmd)
	iconCmd.AddCommand(iconRenderCmd)
	rootCmd.AddCommand(iconCmd)
}

// classifySpec resolves an intent spec for the activity: the LLM
// classifier when a note is given and an LLM is configured, the keyword
// fallback otherwise. The fallback is an explicit choice, not a retry.
func classifySpec(ctx context.Context, activityName string) (domain.IconIntentSpec, string, error) {
	if iconService == nil {
		return domain.IconIntentSpec{}, "", errors.New("icon service not configured")
	}

	if iconNote != "" {
		classification, err := iconService.Classify(ctx, domain.IconFormInput{
			ActivityName: activityName,
			ContextNote:  iconNote,
		})
		if err == nil {
			return classification.Spec, classification.InputHash, nil
		}
		if !errors.Is(err, domain.ErrLLMUnavailable) {
			return domain.IconIntentSpec{}, "", err
		}
		// No LLM: drop through to the keyword fallback.
	}

	legacy, err := iconService.FallbackClassify(activityName, iconOverview)
	if err != nil {
		return domain.IconIntentSpec{}, "", err
	}
	return legacy.ToIntentSpec(), domain.InputHash(activityName, iconOverview), nil
}

func runIconClassify(cmd *cobra.Command, args []string) error {
	if iconNote == "" {
		spec, inputHash, err := classifySpec(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printSpec(cmd, spec, inputHash, 0)
	}

	classification, err := iconService.Classify(cmd.Context(), domain.IconFormInput{
		ActivityName: args[0],
		ContextNote:  iconNote,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return errors.New("no LLM configured: use --overview for keyword fallback classification")
		}
		return err
	}
	return printSpec(cmd, classification.Spec, classification.InputHash, classification.CostUSD)
}

func printSpec(cmd *cobra.Command, spec domain.IconIntentSpec, inputHash string, costUSD float64) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal spec: %w", err)
	}
	cmd.Println(string(data))
	cmd.Printf("%s %s\n", styleLabel.Render("Input hash:"), inputHash)
	if costUSD > 0 {
		cmd.Printf("%s %.8f USD\n", styleLabel.Render("Cost:"), costUSD)
	}
	return nil
}

func runIconPrompt(cmd *cobra.Command, args []string) error {
	spec, _, err := classifySpec(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	prompt, err := iconService.BuildPrompt(spec)
	if err != nil {
		return err
	}
	cmd.Print(prompt)
	return nil
}

func runIconSVG(cmd *cobra.Command, args []string) error {
	if svgRenderer == nil {
		return errors.New("renderer not configured")
	}

	ctx := cmd.Context()
	spec, inputHash, err := classifySpec(ctx, args[0])
	if err != nil {
		return err
	}

	renderer := svgRenderer
	if iconNeutral {
		renderer = svg.NewRenderer(svg.ColorNeutral)
	}

	if !iconNoCache && iconCache != nil {
		if cached, err := iconCache.Get(ctx, inputHash, renderer.Version()); err == nil {
			return writeIconOutput(cmd, []byte(cached.SVG))
		}
	}

	doc, err := renderer.Render(spec)
	if err != nil {
		return fmt.Errorf("rendering icon: %w", err)
	}

	if !iconNoCache && iconCache != nil {
		specJSON, err := json.Marshal(spec.Canonical())
		if err != nil {
			return fmt.Errorf("failed to marshal spec: %w", err)
		}
		err = iconCache.Put(ctx, driven.IconArtifact{
			InputHash:       inputHash,
			RendererVersion: renderer.Version(),
			Spec:            specJSON,
			SVG:             doc,
		})
		if err != nil {
			return fmt.Errorf("caching icon: %w", err)
		}
	}

	return writeIconOutput(cmd, []byte(doc))
}

func runIconRender(cmd *cobra.Command, args []string) error {
	if imgRenderer == nil {
		return errors.New("no image model configured: set OPENAI_API_KEY or llm.api_key")
	}

	ctx := cmd.Context()
	spec, inputHash, err := classifySpec(ctx, args[0])
	if err != nil {
		return err
	}

	prompt, err := iconService.BuildPrompt(spec)
	if err != nil {
		return err
	}

	rendererVersion := "image-" + imgRenderer.ModelName()
	if iconCache != nil {
		if cached, err := iconCache.Get(ctx, inputHash, rendererVersion); err == nil {
			cmd.Println("Using cached rendering.")
			return os.WriteFile(iconOutput, cached.PNG, 0644)
		}
	}

	png, err := imgRenderer.Render(ctx, prompt)
	if err != nil {
		return fmt.Errorf("rendering icon: %w", err)
	}

	if iconCache != nil {
		specJSON, err := json.Marshal(spec.Canonical())
		if err != nil {
			return fmt.Errorf("failed to marshal spec: %w", err)
		}
		err = iconCache.Put(ctx, driven.IconArtifact{
			InputHash:       inputHash,
			RendererVersion: rendererVersion,
			Spec:            specJSON,
			PNG:             png,
			CostUSD:         imgRenderer.CostPerImageUSD(),
		})
		if err != nil {
			return fmt.Errorf("caching icon: %w", err)
		}
	}

	if err := os.WriteFile(iconOutput, png, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", iconOutput, err)
	}
	cmd.Printf("Wrote %s (%.8f USD).\n", iconOutput, imgRenderer.CostPerImageUSD())
	return nil
}

func writeIconOutput(cmd *cobra.Command, data []byte) error {
	if iconOutput == "" {
		cmd.Print(string(data))
		return nil
	}
	if err := os.WriteFile(iconOutput, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", iconOutput, err)
	}
	cmd.Printf("Wrote %s.\n", iconOutput)
	return nil
}
