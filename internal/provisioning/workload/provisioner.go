package workload

import (
	"fmt"

	"github.com/kallt/ekspress/internal/manifest"
	"github.com/kallt/ekspress/internal/provisioning"
)

// Provisioner deploys the workload Deployment and Service and waits for
// both to come up.
type Provisioner struct{}

// NewProvisioner creates a new workload provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *Provisioner) ID() provisioning.StepID {
	return provisioning.StepWorkload
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "Workload"
}

// Provision applies the Deployment and Service, blocks until every replica
// is available, then waits for the load balancer hostname. A pod that
// cannot mount its secret never becomes ready, so a broken secret binding
// fails here rather than silently.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	bundle, err := buildBundle(ctx)
	if err != nil {
		return err
	}

	docs, err := manifest.RenderDocs(bundle.Deployment, bundle.Service)
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

	name := bundle.Deployment.Name
	ctx.Observer.Printf("[workload] waiting for rollout of %s/%s", ctx.Config.Namespace, name)
	if err := kube.WaitForRollout(ctx, ctx.Config.Namespace, name, ctx.Timeouts.Rollout); err != nil {
		return err
	}
	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "deployment",
		ctx.Config.Namespace+"/"+name, "")

	ctx.Observer.Printf("[workload] waiting for load balancer hostname on %s/%s",
		ctx.Config.Namespace, bundle.Service.Name)
	hostname, err := kube.ServiceHostname(ctx, ctx.Config.Namespace, bundle.Service.Name, ctx.Timeouts.LoadBalancer)
	if err != nil {
		return err
	}
	ctx.State.LoadBalancerHostname = hostname
	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "load balancer", hostname, "")

	return nil
}
