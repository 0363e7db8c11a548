package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adfharrison1/go-graph-index/pkg/indexconfig"
)

// classReport is the inspect output for one class
type classReport struct {
	Name   string                  `json:"name" yaml:"name"`
	Parent string                  `json:"parent,omitempty" yaml:"parent,omitempty"`
	Config indexconfig.Description `json:"config" yaml:"config"`
}

func newInspectCmd() *cobra.Command {
	var (
		schemaFile string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [class...]",
		Short: "Show the resolved index configuration of schema classes",
		Long: `Load the schema and print the index configuration of each class, including
inherited fields, trigger values and fully prefixed index names.

With no arguments every class is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("schema") {
				cfg.SchemaFile = schemaFile
			}
			return runInspect(cmd.OutOrStdout(), cfg.SchemaFile, cfg.IndexPrefix, args, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "Schema file (GRAPHIDX_SCHEMA_FILE)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runInspect(out io.Writer, schemaFile, prefix string, classes []string, jsonOutput bool) error {
	reg, err := loadRegistry(schemaFile, prefix)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		classes = reg.Classes()
	}

	reports := make([]classReport, 0, len(classes))
	for _, name := range classes {
		desc, err := reg.Describe(name)
		if err != nil {
			return err
		}
		parent, _ := reg.Parent(name)
		reports = append(reports, classReport{Name: name, Parent: parent, Config: desc})
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
