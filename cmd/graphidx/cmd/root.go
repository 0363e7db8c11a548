// Package cmd provides the CLI commands for graphidx.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-graph-index/pkg/config"
	"github.com/adfharrison1/go-graph-index/pkg/registry"
)

var envFile string

// NewRootCmd creates the root command for the graphidx CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphidx",
		Short: "Schema driven index server for graph entities",
		Long: `graphidx keeps exact, numeric and fulltext indexes for graph nodes and
relationships. Which fields are indexed, and which entities trigger a class
index, comes from a YAML schema.

Configuration is read from GRAPHIDX_* environment variables and an optional
.env file. Flags override both.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Read configuration from this .env file if it exists")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newInspectCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func loadConfig() (config.Config, error) {
	return config.Load(envFile)
}

// loadRegistry builds a registry from the schema file. A non-empty prefix
// overrides the prefix declared in the schema.
func loadRegistry(schemaFile, prefix string) (*registry.Registry, error) {
	schema, err := registry.LoadSchema(schemaFile)
	if err != nil {
		return nil, err
	}
	reg := registry.NewRegistry()
	if err := reg.Apply(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema %s: %w", schemaFile, err)
	}
	if prefix != "" {
		reg.SetNamePrefix(prefix)
	}
	return reg, nil
}
