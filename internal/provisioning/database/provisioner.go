// Package database opens network access from the node group to an existing
// RDS instance.
package database

import (
	"fmt"

	"github.com/kallt/ekspress/internal/provisioning"
)

// Provisioner handles database network access.
type Provisioner struct{}

// NewProvisioner creates a new database access provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// ID implements the provisioning.Phase interface.
func (p *Provisioner) ID() provisioning.StepID {
	return provisioning.StepDatabaseAccess
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "Database Access"
}

// Provision authorizes ingress from the node security group to the RDS
// instance's security group on the database port. The instance itself is
// never modified.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	db := ctx.Config.Database
	if db == nil {
		return nil
	}

	dbSG, err := ctx.Cloud.InstanceSecurityGroup(ctx, db.Identifier)
	if err != nil {
		return err
	}

	nodeSG, err := ctx.Cloud.NodeSecurityGroup(ctx, ctx.Config.Name)
	if err != nil {
		return err
	}

	if err := ctx.Cloud.AuthorizeIngress(ctx, dbSG, nodeSG, db.Port); err != nil {
		return fmt.Errorf("failed to open database port %d: %w", db.Port, err)
	}

	ctx.Observer.Printf("[database-access] nodes (%s) may reach %s on port %d", nodeSG, db.Identifier, db.Port)
	return nil
}
