// Package provisioning provides the step graph, shared state, and phase
// execution for deploying a workload onto EKS.
//
// The provisioning domain is organized into focused subpackages:
//   - infrastructure/: VPC, subnets, gateways, routing
//   - cluster/: EKS control plane, node group, OIDC provider
//   - database/: RDS security group ingress
//   - identity/: IRSA role and Kubernetes service account
//   - workload/: CSI driver, SecretProviderClass, Deployment
//   - exposure/: load balancer, TLS listener, DNS alias
//   - destroy/: teardown in reverse dependency order
//
// This root package contains the dependency graph and the shared types used
// across subpackages.
package provisioning

// Phase defines the interface for a provisioning phase. Each phase
// implements exactly one step of the dependency graph.
type Phase interface {
	// ID returns the graph step this phase implements.
	ID() StepID

	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}
