package workload

import (
	"fmt"

	"github.com/kallt/ekspress/internal/manifest"
	"github.com/kallt/ekspress/internal/provisioning"
)

// SecretClassProvisioner applies the namespace and the SecretProviderClass.
type SecretClassProvisioner struct{}

// NewSecretClassProvisioner creates a new SecretProviderClass provisioner.
func NewSecretClassProvisioner() *SecretClassProvisioner {
	return &SecretClassProvisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *SecretClassProvisioner) ID() provisioning.StepID {
	return provisioning.StepSecretProviderClass
}

// Name implements the provisioning.Phase interface.
func (p *SecretClassProvisioner) Name() string {
	return "Secret Provider Class"
}

// Provision applies the namespace and SecretProviderClass so pods created by
// the workload step can mount the secret immediately.
func (p *SecretClassProvisioner) Provision(ctx *provisioning.Context) error {
	bundle, err := buildBundle(ctx)
	if err != nil {
		return err
	}
	if err := bundle.Validate(); err != nil {
		return err
	}

	docs, err := manifest.RenderDocs(bundle.Namespace, bundle.SecretProviderClass)
	if err != nil {
		return err
	}

	kube, err := ctx.KubeClient()
	if err != nil {
		return fmt.Errorf("failed to build cluster client: %w", err)
	}
	if err := kube.Apply(ctx, string(docs)); err != nil {
		return err
	}

	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "SecretProviderClass",
		bundle.SecretProviderClass.Namespace+"/"+bundle.SecretProviderClass.Name, "")
	return nil
}
