package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/huh"

	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/provisioning/destroy"
)

// Provisioner interface for testing - matches the destroy provisioner.
type Provisioner interface {
	Provision(ctx *provisioning.Context) error
}

// Factory function variables for destroy - can be replaced in tests.
var (
	// newDestroyProvisioner creates a new destroy provisioner.
	newDestroyProvisioner = func() Provisioner {
		return destroy.NewProvisioner()
	}

	// confirmDestroy asks the user to confirm the teardown.
	confirmDestroy = func(ctx context.Context, clusterName string) (bool, error) {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Destroy cluster %q and all its AWS resources?", clusterName)).
				Description("This cannot be undone.").
				Value(&confirmed),
		))
		if err := form.RunWithContext(ctx); err != nil {
			return false, err
		}
		return confirmed, nil
	}
)

// Destroy tears down every AWS resource the apply command created.
//
// Resources are deleted in dependency order: workload namespace first
// (which releases the load balancer), then IAM roles, node group,
// cluster, and finally the network. The Secrets Manager secret and any
// RDS instance are left untouched.
func Destroy(ctx context.Context, configPath string, skipConfirm bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if !skipConfirm {
		ok, err := confirmDestroy(ctx, cfg.Name)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	log.Printf("Destroying cluster: %s", cfg.Name)

	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}

	pCtx := newProvisioningContext(ctx, cfg, cloud)

	destroyer := newDestroyProvisioner()
	if err := destroyer.Provision(pCtx); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	log.Printf("Cluster %s destroyed successfully", cfg.Name)
	return nil
}
