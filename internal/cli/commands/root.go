// Package commands implements the assetbuilder command line interface
package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "assetbuilder",
		Short: "Schema-driven asset wrapper generator and builder",
		Long: color.CyanString(`AssetBuilder - schema-driven asset pipeline

AssetBuilder reads a class schema, generates serializable wrapper types
for every marked class, and materializes persisted asset documents from
live data collections, resolving cross-asset references in dependency
order.

Workflow:
  1. assetbuilder generate   - emit wrapper source for marked classes
  2. assetbuilder build      - materialize asset documents from data files
  3. assetbuilder introspect - inspect the schema and its dependency order
  4. assetbuilder clean      - remove every persisted asset document`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewCleanCommand())
	rootCmd.AddCommand(NewIntrospectCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Print("AssetBuilder version: ")
			valueColor.Println(Version)

			titleColor.Print("Git commit: ")
			valueColor.Println(GitCommit)

			titleColor.Print("Build date: ")
			valueColor.Println(BuildDate)

			titleColor.Print("Go version: ")
			valueColor.Println(goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
