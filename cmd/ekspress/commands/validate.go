package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kallt/ekspress/cmd/ekspress/handlers"
)

// Validate returns the command that checks a configuration without
// touching AWS.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long: `Validate the configuration, the provisioning graph, and the generated
manifest bundle without contacting AWS.

Examples:
  ekspress validate
  ekspress validate -c production.yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(configPath, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ekspress.yaml)")

	return cmd
}
