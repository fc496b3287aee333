package cluster

import (
	"errors"
	"fmt"

	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/util/tags"
)

// OIDCProvisioner registers the cluster's OIDC issuer with IAM.
type OIDCProvisioner struct{}

// NewOIDCProvisioner creates a new OIDC provisioner.
func NewOIDCProvisioner() *OIDCProvisioner {
	return &OIDCProvisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *OIDCProvisioner) ID() provisioning.StepID {
	return provisioning.StepOIDC
}

// Name implements the provisioning.Phase interface.
func (p *OIDCProvisioner) Name() string {
	return "OIDC Provider"
}

// Provision creates the IAM OIDC provider for the cluster issuer, enabling
// service accounts to assume IAM roles.
func (p *OIDCProvisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.Cluster == nil || ctx.State.Cluster.OIDCIssuer == "" {
		return errors.New("cluster OIDC issuer missing; cluster step must run first")
	}

	issuer := ctx.State.Cluster.OIDCIssuer
	provisioning.LogResourceCreating(ctx.Observer, p.ID(), "OIDC provider", issuer)

	arn, err := ctx.Cloud.EnsureOIDCProvider(ctx, issuer,
		tags.NewBuilder(ctx.Config.Name).WithRole(tags.RoleIdentity).Build())
	if err != nil {
		return fmt.Errorf("failed to ensure OIDC provider: %w", err)
	}

	ctx.State.OIDCProviderARN = arn
	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "OIDC provider", issuer, arn)
	return nil
}
