package workload

import (
	"errors"
	"fmt"

	"github.com/kallt/ekspress/internal/helm"
	"github.com/kallt/ekspress/internal/provisioning"
)

// CSIDriverProvisioner installs the secrets-store CSI driver and its AWS
// provider plugin.
type CSIDriverProvisioner struct{}

// NewCSIDriverProvisioner creates a new CSI driver provisioner.
func NewCSIDriverProvisioner() *CSIDriverProvisioner {
	return &CSIDriverProvisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *CSIDriverProvisioner) ID() provisioning.StepID {
	return provisioning.StepCSIDriver
}

// Name implements the provisioning.Phase interface.
func (p *CSIDriverProvisioner) Name() string {
	return "Secrets Store CSI Driver"
}

// Provision installs both charts into kube-system. Installs are idempotent;
// existing releases are upgraded in place.
func (p *CSIDriverProvisioner) Provision(ctx *provisioning.Context) error {
	if len(ctx.State.Kubeconfig) == 0 {
		return errors.New("kubeconfig missing; cluster step must run first")
	}

	client, err := ctx.HelmClient(helm.KubeSystemNamespace)
	if err != nil {
		return fmt.Errorf("failed to build helm client: %w", err)
	}

	for _, chart := range []helm.Chart{helm.SecretsStoreCSIDriver(), helm.AWSSecretsProvider()} {
		provisioning.LogResourceCreating(ctx.Observer, p.ID(), "helm release", chart.ReleaseName)
		if err := client.InstallOrUpgrade(ctx, chart); err != nil {
			return err
		}
		provisioning.LogResourceCreated(ctx.Observer, p.ID(), "helm release", chart.ReleaseName, "")
	}

	return nil
}
