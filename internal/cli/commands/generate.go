package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tomtomcapo/AssetBuilder/internal/cli/config"
	"github.com/Tomtomcapo/AssetBuilder/internal/codegen"
	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
)

var (
	generateSchema  string
	generateOut     string
	generatePackage string
	generateVerbose bool
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate wrapper source for every marked class",
		Long: `Generate one Go source file per generation-marked class in the schema.

Each wrapper mirrors the class's non-ignored properties, embeds its
parent's wrapper, and (for concrete classes) carries FromPlain/ToPlain
conversion functions. Output files are overwritten on every run.`,
		Example: `  # Generate using assetbuilder.yml settings
  assetbuilder generate

  # Generate from an explicit schema into an explicit directory
  assetbuilder generate --schema game.yml --out gen/assets`,
		RunE: runGenerate,
	}

	cmd.Flags().StringVar(&generateSchema, "schema", "", "Schema file (default from config)")
	cmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&generatePackage, "package", "", "Package name for generated files (default from config)")
	cmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Show per-class generation output")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	warningColor := color.New(color.FgYellow)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	schemaFile := generateSchema
	if schemaFile == "" {
		schemaFile = cfg.SchemaFile
	}
	outDir := generateOut
	if outDir == "" {
		outDir = cfg.Generated.Dir
	}
	pkg := generatePackage
	if pkg == "" {
		pkg = cfg.Generated.Package
	}

	registry, err := schema.Load(schemaFile)
	if err != nil {
		return err
	}

	marked := registry.Marked()
	if len(marked) == 0 {
		return fmt.Errorf("schema %s contains no generation-marked classes", schemaFile)
	}

	if generateVerbose {
		infoColor.Printf("Found %d marked class(es) in %s\n", len(marked), schemaFile)
	}

	log := newLogger(generateVerbose)
	defer log.Sync()

	generator := codegen.NewGenerator(registry,
		codegen.WithPackage(pkg),
		codegen.WithLogger(log))

	files := generator.Generate(marked)
	if err := generator.WriteFiles(files, outDir); err != nil {
		return err
	}

	if generateVerbose {
		for _, class := range marked {
			if _, ok := files[class]; ok {
				infoColor.Printf("  %s -> %s.go\n", class.Name, class.ResolvedOutputName())
			}
		}
	}

	for _, genErr := range generator.Errors() {
		warningColor.Printf("Warning: %v\n", genErr)
	}

	elapsed := time.Since(startTime).Round(time.Millisecond)
	successColor.Printf("✓ Generated %d wrapper(s) in %s (%s)\n", len(files), outDir, elapsed)
	if failed := len(marked) - len(files); failed > 0 {
		warningColor.Printf("%d class(es) skipped, see warnings above\n", failed)
	}

	return nil
}
