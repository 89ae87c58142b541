package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tomtomcapo/AssetBuilder/internal/cli/config"
	"github.com/Tomtomcapo/AssetBuilder/internal/store"
)

var cleanForce bool

// NewCleanCommand creates the clean command
func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove every persisted asset document",
		Long: `Remove every asset document under the configured assets root and prune
the directories left empty by the removal. The root itself is kept.`,
		Example: `  # Clean with a confirmation prompt
  assetbuilder clean

  # Clean without prompting
  assetbuilder clean --force`,
		RunE: runClean,
	}

	cmd.Flags().BoolVarP(&cleanForce, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st := store.NewFileStore(cfg.Assets.Root)
	paths, err := st.List()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		infoColor.Printf("Nothing to clean under %s\n", cfg.Assets.Root)
		return nil
	}

	if !cleanForce {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Delete %d asset document(s) under %s?", len(paths), cfg.Assets.Root),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			infoColor.Println("Aborted")
			return nil
		}
	}

	if err := st.Clean(); err != nil {
		return err
	}

	successColor.Printf("✓ Removed %d asset document(s) from %s\n", len(paths), cfg.Assets.Root)
	return nil
}
