package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tomtomcapo/AssetBuilder/internal/cli/config"
	"github.com/Tomtomcapo/AssetBuilder/internal/materialize"
	"github.com/Tomtomcapo/AssetBuilder/internal/provider"
	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
	"github.com/Tomtomcapo/AssetBuilder/internal/store"
)

var (
	buildOnly    []string
	buildSkip    []string
	buildStrict  bool
	buildVerbose bool
)

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Materialize persisted asset documents from data files",
		Long: `Materialize one asset document per live data instance.

The build runs in two passes over the marked classes, ordered so every
class is processed after the classes it references: the first pass
creates the documents, the second resolves cross-asset references using
the paths recorded by the first. Classes excluded by toggles leave their
inbound references absent rather than failing the run.`,
		Example: `  # Build everything
  assetbuilder build

  # Build only two classes
  assetbuilder build --only Weapon --only Ammo

  # Build everything except one class
  assetbuilder build --skip Enemy`,
		RunE: runBuild,
	}

	cmd.Flags().StringArrayVar(&buildOnly, "only", nil, "Limit the build to these classes (repeatable)")
	cmd.Flags().StringArrayVar(&buildSkip, "skip", nil, "Exclude these classes from the build (repeatable)")
	cmd.Flags().BoolVar(&buildStrict, "strict", false, "Fail on ambiguous provider collections")
	cmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Show detailed build output")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	registry, err := schema.Load(cfg.SchemaFile)
	if err != nil {
		return err
	}
	marked := registry.Marked()
	if len(marked) == 0 {
		return fmt.Errorf("schema %s contains no generation-marked classes", cfg.SchemaFile)
	}

	log := newLogger(buildVerbose)
	defer log.Sync()

	providers, err := provider.LoadDir(cfg.DataDir)
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		return fmt.Errorf("no provider data files found in %s", cfg.DataDir)
	}
	if err := provider.Link(registry, providers, log); err != nil {
		return err
	}

	if buildVerbose {
		infoColor.Printf("Loaded %d provider(s) from %s\n", len(providers), cfg.DataDir)
	}

	// The store root is a run-scoped precondition: fail before any
	// document is touched.
	if err := os.MkdirAll(cfg.Assets.Root, 0755); err != nil {
		return fmt.Errorf("asset output directory unavailable: %w", err)
	}

	resolverOpts := []provider.ResolverOption{provider.WithLogger(log)}
	if buildStrict || cfg.Provider.Strict {
		resolverOpts = append(resolverOpts, provider.WithStrict())
	}
	resolver := provider.NewResolver(providers, resolverOpts...)

	builder := materialize.NewBuilder(registry, resolver,
		store.NewFileStore(cfg.Assets.Root),
		materialize.WithBuildLogger(log))

	toggles := buildToggles(cfg, marked)
	if err := builder.Build(toggles); err != nil {
		return err
	}

	elapsed := time.Since(startTime).Round(time.Millisecond)
	successColor.Printf("✓ Build %s: %d asset(s) under %s (%s)\n",
		builder.State(), len(builder.Paths()), cfg.Assets.Root, elapsed)

	return nil
}

// buildToggles merges the config's include/exclude lists with the --only
// and --skip flags; flags win.
func buildToggles(cfg *config.Config, marked []*schema.Class) map[string]bool {
	names := make([]string, 0, len(marked))
	for _, class := range marked {
		names = append(names, class.Name)
	}

	toggles := cfg.Toggles(names)
	if len(buildOnly) > 0 {
		toggles = make(map[string]bool, len(buildOnly))
		for _, name := range buildOnly {
			toggles[name] = true
		}
	}
	if len(buildSkip) > 0 {
		if toggles == nil {
			toggles = make(map[string]bool, len(names))
			for _, name := range names {
				toggles[name] = true
			}
		}
		for _, name := range buildSkip {
			toggles[name] = false
		}
	}
	return toggles
}
