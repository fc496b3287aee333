package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kallt/ekspress/cmd/ekspress/handlers"
)

// Render returns the command that writes the generated manifests without
// applying them.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file
//	--output, -o: Write manifests to a file instead of stdout
func Render() *cobra.Command {
	var (
		configPath string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the deployment manifests to stdout",
		Long: `Render the Namespace, SecretProviderClass, Deployment, and Service
manifests generated from the configuration.

Rendering is fully offline. The secret reference appears exactly as
configured; during apply it is resolved to the full Secrets Manager ARN.

Examples:
  # Inspect the generated manifests
  ekspress render

  # Write them to a file for GitOps workflows
  ekspress render -o manifests.yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if outputPath != "" {
				return handlers.RenderToFile(configPath, outputPath)
			}
			return handlers.Render(configPath, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ekspress.yaml)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write manifests to this file instead of stdout")

	return cmd
}
