// Package infrastructure provisions the VPC tier: subnets, gateways, and
// routing.
package infrastructure

import (
	"fmt"

	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/util/naming"
	"github.com/kallt/ekspress/internal/util/tags"
)

// vpcCIDR is the address space every deployment gets. Nothing peers these
// VPCs, so the range never needs to vary.
const vpcCIDR = "10.0.0.0/16"

// Provisioner handles network provisioning.
type Provisioner struct{}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *Provisioner) ID() provisioning.StepID {
	return provisioning.StepInfrastructure
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "Infrastructure"
}

// Provision verifies the image exists, then creates the VPC tier.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// Fail before any resources exist if the image was never pushed.
	if err := ctx.Cloud.VerifyImage(ctx, ctx.Config.Image); err != nil {
		return err
	}

	provisioning.LogResourceCreating(ctx.Observer, p.ID(), "VPC", naming.VPC(ctx.Config.Name))

	network, err := ctx.Cloud.EnsureNetwork(ctx, ctx.Config.Name, aws.NetworkOpts{
		CIDR: vpcCIDR,
		Tags: tags.NewBuilder(ctx.Config.Name).WithRole(tags.RoleNetwork).Build(),
	})
	if err != nil {
		return fmt.Errorf("failed to provision network: %w", err)
	}

	ctx.State.Network = network
	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "VPC", naming.VPC(ctx.Config.Name), network.VpcID)
	return nil
}
