package commands

import (
	"github.com/spf13/cobra"

	"github.com/kallt/ekspress/cmd/ekspress/handlers"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "ekspress.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a deployment configuration",
		Long: `Interactively create a deployment configuration file.

The wizard asks about:

  - Cluster name and AWS region
  - Container image (ECR URI)
  - Secrets Manager secret to mount
  - Worker node count and size
  - Optional RDS database access
  - Optional domain with TLS

The generated YAML is the complete input for 'ekspress apply'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "ekspress.yaml", "Output file path")

	return cmd
}
