// Package identity binds one Kubernetes service account to one IAM role
// scoped to one secret.
package identity

import (
	"errors"
	"fmt"

	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/util/naming"
	"github.com/kallt/ekspress/internal/util/tags"
)

// Provisioner handles workload identity.
type Provisioner struct{}

// NewProvisioner creates a new identity provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *Provisioner) ID() provisioning.StepID {
	return provisioning.StepServiceAccount
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "Service Account"
}

// Provision resolves the secret, creates the IRSA role trusted by exactly
// one service account, and creates that service account with the role
// annotation.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.Cluster == nil || ctx.State.OIDCProviderARN == "" {
		return errors.New("OIDC provider missing; oidc step must run first")
	}

	secretARN, err := ctx.Cloud.ResolveSecretARN(ctx, ctx.Config.Secret.Name)
	if err != nil {
		return err
	}
	ctx.State.SecretARN = secretARN

	saName := naming.ServiceAccount(ctx.Config.AppName())
	roleARN, err := ctx.Cloud.EnsureSecretAccessRole(ctx, aws.SecretRoleOpts{
		ClusterName:    ctx.Config.Name,
		Namespace:      ctx.Config.Namespace,
		ServiceAccount: saName,
		SecretARN:      secretARN,
		OIDCIssuer:     ctx.State.Cluster.OIDCIssuer,
		AccountID:      ctx.State.AccountID,
		Tags:           tags.NewBuilder(ctx.Config.Name).WithRole(tags.RoleIdentity).Build(),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure secret access role: %w", err)
	}
	ctx.State.SecretRoleARN = roleARN

	kube, err := ctx.KubeClient()
	if err != nil {
		return fmt.Errorf("failed to build cluster client: %w", err)
	}

	// The namespace must exist before a service account can live in it.
	nsManifest := fmt.Sprintf("apiVersion: v1\nkind: Namespace\nmetadata:\n  name: %s\n", ctx.Config.Namespace)
	if err := kube.Apply(ctx, nsManifest); err != nil {
		return err
	}

	if err := kube.EnsureServiceAccount(ctx, ctx.Config.Namespace, saName, roleARN); err != nil {
		return err
	}

	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "service account",
		ctx.Config.Namespace+"/"+saName, roleARN)
	return nil
}
