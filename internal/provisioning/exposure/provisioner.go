// Package exposure adds TLS termination and a DNS alias to the provisioned
// load balancer.
package exposure

import (
	"errors"
	"fmt"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/provisioning"
)

// Provisioner handles external exposure.
type Provisioner struct{}

// NewProvisioner creates a new exposure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *Provisioner) ID() provisioning.StepID {
	return provisioning.StepExposure
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "External Exposure"
}

// Provision locates the NLB the cluster created for the Service, adds a TLS
// listener with the configured certificate, and points the domain at it.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	domain := ctx.Config.Domain
	if domain == nil {
		return nil
	}
	if ctx.State.LoadBalancerHostname == "" {
		return errors.New("load balancer hostname missing; workload step must run first")
	}

	lb, err := ctx.Cloud.FindByDNSName(ctx, ctx.State.LoadBalancerHostname)
	if err != nil {
		return err
	}
	ctx.State.LoadBalancer = lb

	if err := ctx.Cloud.EnsureTLSListener(ctx, lb.ARN, domain.CertificateARN, config.TLSListenerPort); err != nil {
		return err
	}
	ctx.Observer.Printf("[exposure] TLS listener active on port %d", config.TLSListenerPort)

	if err := ctx.Cloud.UpsertAlias(ctx, domain.HostedZoneID, domain.Name, lb); err != nil {
		return fmt.Errorf("failed to point %s at the load balancer: %w", domain.Name, err)
	}

	provisioning.LogResourceCreated(ctx.Observer, p.ID(), "DNS alias", domain.Name, lb.DNSName)
	return nil
}
