// Package destroy tears a deployment down in reverse dependency order.
package destroy

import (
	"fmt"

	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/util/naming"
)

// Provisioner handles teardown.
type Provisioner struct{}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Provision destroys everything the apply sequence created, in reverse
// order: workload namespace, IRSA role, node group, cluster, cluster roles,
// network. Resources that are already gone are skipped.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	name := ctx.Config.Name
	ctx.Observer.Printf("[destroy] tearing down %s", name)

	// Deleting the namespace removes the Service, which releases the NLB
	// the cluster provisioned. Skipped when the cluster is already gone.
	if kubeconfig, err := ctx.Cloud.Kubeconfig(ctx, name); err == nil {
		kube, err := ctx.NewKubeClient(kubeconfig)
		if err != nil {
			return fmt.Errorf("failed to build cluster client: %w", err)
		}
		provisioning.LogResourceDeleting(ctx.Observer, "destroy", "namespace", ctx.Config.Namespace)
		if err := kube.DeleteNamespace(ctx, ctx.Config.Namespace); err != nil {
			return err
		}
	} else {
		ctx.Observer.Printf("[destroy] cluster unreachable, skipping namespace cleanup: %v", err)
	}

	provisioning.LogResourceDeleting(ctx.Observer, "destroy", "IAM role", naming.SecretAccessRole(name))
	if err := ctx.Cloud.DeleteSecretAccessRole(ctx, name); err != nil {
		return err
	}

	provisioning.LogResourceDeleting(ctx.Observer, "destroy", "node group", naming.NodeGroup(name))
	if err := ctx.Cloud.DeleteNodeGroup(ctx, name, naming.NodeGroup(name)); err != nil {
		return err
	}

	provisioning.LogResourceDeleting(ctx.Observer, "destroy", "cluster", name)
	if err := ctx.Cloud.DeleteCluster(ctx, name); err != nil {
		return err
	}

	provisioning.LogResourceDeleting(ctx.Observer, "destroy", "IAM roles", name)
	if err := ctx.Cloud.DeleteClusterRoles(ctx, name); err != nil {
		return err
	}

	provisioning.LogResourceDeleting(ctx.Observer, "destroy", "network", naming.VPC(name))
	if err := ctx.Cloud.DeleteNetwork(ctx, name); err != nil {
		return err
	}

	ctx.Observer.Printf("[destroy] %s destroyed", name)
	return nil
}
