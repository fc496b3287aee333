package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kallt/ekspress/cmd/ekspress/handlers"
)

// Plan returns the command that prints the provisioning sequence without
// touching AWS.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file
//	--format, -f: Output format, text or dot
func Plan() *cobra.Command {
	var (
		configPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the provisioning steps for the configuration",
		Long: `Show the ordered provisioning steps the apply command would run.

Conditional steps (database access, external exposure) appear only when
the configuration enables them.

Examples:
  # Print the step list
  ekspress plan

  # Render the dependency graph in Graphviz format
  ekspress plan --format dot | dot -Tpng -o plan.png`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Plan(configPath, format, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ekspress.yaml)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or dot")

	return cmd
}
