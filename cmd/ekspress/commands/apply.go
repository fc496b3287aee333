package commands

import (
	"github.com/spf13/cobra"

	"github.com/kallt/ekspress/cmd/ekspress/handlers"
)

// Apply returns the command that provisions everything and deploys the
// workload.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect ekspress.yaml)
//
// AWS credentials are resolved from the environment the usual way
// (env vars, shared config, instance profile).
func Apply() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision the cluster and deploy the workload",
		Long: `Provision all AWS infrastructure and deploy the configured image.

This command creates the VPC, EKS cluster, node group, IAM roles, the
Secrets Manager binding, and the load balancer, then applies the
generated manifests. Re-running converges every resource toward the
configuration, so it is safe after partial failures.

If no config file is specified, it looks for ekspress.yaml in the
current directory and its parents. Use 'ekspress init' to create one.

Examples:
  # Deploy using ekspress.yaml in the current directory
  ekspress apply

  # Deploy using a specific config file
  ekspress apply -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ekspress.yaml)")

	return cmd
}
