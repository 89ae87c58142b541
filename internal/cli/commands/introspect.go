package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tomtomcapo/AssetBuilder/internal/cli/config"
	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
)

var introspectSchema string

// NewIntrospectCommand creates the introspect command
func NewIntrospectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Inspect the schema, markers, and dependency order",
		RunE:  runIntrospect,
	}

	cmd.Flags().StringVar(&introspectSchema, "schema", "", "Schema file (default from config)")

	return cmd
}

func runIntrospect(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	warningColor := color.New(color.FgYellow)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	schemaFile := introspectSchema
	if schemaFile == "" {
		schemaFile = cfg.SchemaFile
	}

	registry, err := schema.Load(schemaFile)
	if err != nil {
		return err
	}

	titleColor.Printf("Classes (%d):\n", registry.Count())
	for _, name := range registry.List() {
		class, _ := registry.Get(name)
		var markers []string
		if class.Generate {
			markers = append(markers, "generate -> "+class.ResolvedOutputName())
		}
		if class.CollectionName != "" {
			markers = append(markers, "collection: "+class.CollectionName)
		}
		if class.Abstract {
			markers = append(markers, "abstract")
		}
		if class.Parent != "" {
			markers = append(markers, "parent: "+class.Parent)
		}
		fmt.Printf("  %-20s %s\n", class.Name, strings.Join(markers, ", "))
		for _, prop := range class.Properties {
			suffix := ""
			if prop.Ignore {
				suffix = " (ignored)"
			}
			fmt.Printf("    %-18s %s%s\n", prop.Name, prop.Type, suffix)
		}
	}

	marked := registry.Marked()
	if len(marked) == 0 {
		return nil
	}

	graph, err := schema.NewReferenceGraph(registry, marked)
	if err != nil {
		return err
	}

	titleColor.Println("\nDependency order:")
	for i, class := range graph.SortedClasses() {
		deps := graph.Dependencies(class.Name)
		if len(deps) > 0 {
			fmt.Printf("  %d. %s (references: %s)\n", i+1, class.Name, strings.Join(deps, ", "))
		} else {
			fmt.Printf("  %d. %s\n", i+1, class.Name)
		}
	}

	if cycles := graph.DetectCycles(); len(cycles) > 0 {
		warningColor.Println("\nReference cycles detected:")
		warningColor.Println(schema.FormatCycles(cycles))
	}

	return nil
}
