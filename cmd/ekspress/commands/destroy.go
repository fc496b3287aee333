package commands

import (
	"github.com/spf13/cobra"

	"github.com/kallt/ekspress/cmd/ekspress/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command removes all cluster resources from AWS in
// dependency order: workload namespace, IAM roles, node group, cluster,
// and network.
func Destroy() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the cluster and all associated AWS resources",
		Long: `Destroy removes every AWS resource the apply command created.

This deletes:
  - The workload namespace (load balancer included)
  - IAM roles and the OIDC provider binding
  - The managed node group and the EKS cluster
  - NAT gateway, subnets, route tables, and the VPC

Resources are deleted in dependency order. The Secrets Manager secret
and any RDS instance are never touched; they were not created by
ekspress.

Example:
  ekspress destroy -c ekspress.yaml

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
