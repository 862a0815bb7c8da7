package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

func TestProfileCmd_Use(t *testing.T) {
	assert.Equal(t, "profile", profileCmd.Use)
}

func TestProfileCmd_HasSubcommands(t *testing.T) {
	commands := profileCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "generate")
	assert.Contains(t, commandNames, "show")
}

func TestProfileShowCmd_RequiresActivityIDFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"profile", "show", "Kayaking"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "activity-id")
}

func TestProfileGenerateCmd_NoEvidence(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"profile", "generate", "--query", "volcanology", "Volcano Tour"})
	defer func() {
		rootCmd.SetArgs(nil)
		profileQuery = ""
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no evidence found")
}

func TestProfileGenerateCmd_NoLLMConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"profile", "generate", "Kayaking"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM configured")
}

func TestProfileShowCmd_RendersStoredProfile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	bullets4 := []string{"one", "two", "three", "four"}
	profile := domain.ArpProfile{
		domain.SectionActivityOverview: "A flat-water kayaking session for year 9 pupils.",
		domain.SectionWhyRisk: map[string]any{
			"paragraph": "Open water combines cold, depth and distance from help.",
			"bullets":   []string{"cold shock", "capsize recovery", "group spread"},
		},
		domain.SectionUnderestimated: bullets4,
		domain.SectionGoodPractice:   bullets4,
		domain.SectionContextChanges: bullets4,
		domain.SectionFailureModes:   bullets4,
		domain.SectionNotTold:        bullets4,
		domain.SectionSourceContext:  "Two regulator guidance documents, UK, 2023.",
		domain.SectionReviewMetadata: "Generated from 1 evidence chunk.",
	}
	require.NoError(t, profileStore.Save(context.Background(), 7, profile))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"profile", "show", "--activity-id", "7", "Kayaking"})
	defer func() {
		rootCmd.SetArgs(nil)
		profileActivityID = 0
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "# Activity Risk Profile")
	assert.Contains(t, buf.String(), "**Activity:** Kayaking")
}

func TestProfileShowCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"profile", "show", "--activity-id", "99", "Kayaking"})
	defer func() {
		rootCmd.SetArgs(nil)
		profileActivityID = 0
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no profile stored for activity 99")
}
