// Package cluster provisions the EKS control plane, the managed node group,
// and the IAM OIDC provider for workload identity.
package cluster

import (
	"errors"
	"fmt"

	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/util/naming"
	"github.com/kallt/ekspress/internal/util/tags"
)

// Provisioner handles cluster provisioning.
type Provisioner struct{}

// NewProvisioner creates a new cluster provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *Provisioner) ID() provisioning.StepID {
	return provisioning.StepCluster
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "Cluster"
}

// Provision creates the IAM roles, the control plane, and the node group,
// then stores cluster credentials in state.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.Network == nil {
		return errors.New("network state missing; infrastructure step must run first")
	}

	name := ctx.Config.Name
	roleTags := tags.NewBuilder(name).WithRole(tags.RoleIdentity).Build()

	accountID, err := ctx.Cloud.AccountID(ctx)
	if err != nil {
		return err
	}
	ctx.State.AccountID = accountID

	clusterRoleARN, err := ctx.Cloud.EnsureClusterRole(ctx, name, roleTags)
	if err != nil {
		return fmt.Errorf("failed to ensure cluster role: %w", err)
	}
	ctx.State.ClusterRoleARN = clusterRoleARN

	nodeRoleARN, err := ctx.Cloud.EnsureNodeRole(ctx, name, roleTags)
	if err != nil {
		return fmt.Errorf("failed to ensure node role: %w", err)
	}
	ctx.State.NodeRoleARN = nodeRoleARN

	provisioning.LogResourceCreating(ctx.Observer, p.ID(), "EKS cluster", name)

	// The control plane spans both subnet tiers so it can place ENIs next
	// to the nodes and still reach the public load balancer targets.
	clusterSubnets := append([]string{}, ctx.State.Network.PrivateSubnetIDs...)
	clusterSubnets = append(clusterSubnets, ctx.State.Network.PublicSubnetIDs...)

	cluster, err := ctx.Cloud.EnsureCluster(ctx, aws.ClusterOpts{
		Name:      name,
		RoleARN:   clusterRoleARN,
		SubnetIDs: clusterSubnets,
		Tags:      tags.NewBuilder(name).WithRole(tags.RoleCluster).Build(),
	})
	if err != nil {
		return fmt.Errorf("failed to provision cluster: %w", err)
	}
	ctx.State.Cluster = cluster
	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "EKS cluster", name, cluster.ARN)

	provisioning.LogResourceCreating(ctx.Observer, p.ID(), "node group", naming.NodeGroup(name))
	err = ctx.Cloud.EnsureNodeGroup(ctx, aws.NodeGroupOpts{
		ClusterName:  name,
		Name:         naming.NodeGroup(name),
		RoleARN:      nodeRoleARN,
		SubnetIDs:    ctx.State.Network.PrivateSubnetIDs,
		InstanceType: string(ctx.Config.Nodes.Size),
		Count:        ctx.Config.Nodes.Count,
		Tags:         tags.NewBuilder(name).WithRole(tags.RoleCluster).Build(),
	})
	if err != nil {
		return fmt.Errorf("failed to provision node group: %w", err)
	}
	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "node group", naming.NodeGroup(name), "")

	kubeconfig, err := ctx.Cloud.Kubeconfig(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to build kubeconfig: %w", err)
	}
	ctx.State.Kubeconfig = kubeconfig

	return nil
}
