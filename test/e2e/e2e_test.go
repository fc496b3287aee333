package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/provisioning/cluster"
	"github.com/kallt/ekspress/internal/provisioning/destroy"
	"github.com/kallt/ekspress/internal/provisioning/identity"
	"github.com/kallt/ekspress/internal/provisioning/infrastructure"
	"github.com/kallt/ekspress/internal/provisioning/workload"
)

// TestE2E_FullLifecycle provisions a real cluster, deploys the image, and
// tears everything down again. It needs AWS credentials in the environment
// plus:
//
//	EKSPRESS_E2E_IMAGE   ECR image URI to deploy
//	EKSPRESS_E2E_SECRET  Secrets Manager secret to mount
//	EKSPRESS_E2E_REGION  region (default eu-central-1)
//
// Budget roughly 30 minutes; EKS cluster creation dominates.
func TestE2E_FullLifecycle(t *testing.T) {
	image := os.Getenv("EKSPRESS_E2E_IMAGE")
	secret := os.Getenv("EKSPRESS_E2E_SECRET")
	if image == "" || secret == "" {
		t.Skip("EKSPRESS_E2E_IMAGE or EKSPRESS_E2E_SECRET not set, skipping E2E test")
	}
	region := os.Getenv("EKSPRESS_E2E_REGION")
	if region == "" {
		region = "eu-central-1"
	}

	cfg := &config.Config{
		Name:   fmt.Sprintf("e2e-%d", time.Now().Unix()),
		Region: region,
		Image:  image,
		Nodes:  config.NodePool{Count: 1, Size: config.SizeT3Medium},
		Secret: config.SecretMount{Name: secret},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	cloud, err := aws.NewRealClient(ctx, cfg.Region)
	if err != nil {
		t.Fatalf("failed to create AWS client: %v", err)
	}

	pCtx := provisioning.NewContext(ctx, cfg, cloud)
	graph := provisioning.NewGraph(provisioning.DefaultSteps(false, false)...)
	phases := []provisioning.Phase{
		infrastructure.NewProvisioner(),
		cluster.NewProvisioner(),
		cluster.NewOIDCProvisioner(),
		identity.NewProvisioner(),
		workload.NewCSIDriverProvisioner(),
		workload.NewSecretClassProvisioner(),
		workload.NewProvisioner(),
	}

	// Teardown runs even when provisioning fails partway; every delete
	// tolerates missing resources.
	defer func() {
		t.Log("Destroying cluster...")
		if err := destroy.NewProvisioner().Provision(pCtx); err != nil {
			t.Errorf("Destroy failed: %v", err)
		}
	}()

	// 1. Apply
	t.Logf("Applying cluster %s...", cfg.Name)
	if err := provisioning.RunPhases(pCtx, graph, phases); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// 2. Verify
	t.Log("Verifying deployment...")
	if pCtx.State.LoadBalancerHostname == "" {
		t.Error("load balancer hostname not recorded")
	}
	if len(pCtx.State.Kubeconfig) == 0 {
		t.Error("kubeconfig not recorded")
	}
	if pCtx.State.SecretRoleARN == "" {
		t.Error("secret access role not recorded")
	}

	// 3. Idempotency: a second run must converge without changes.
	t.Log("Re-applying to verify idempotency...")
	if err := provisioning.RunPhases(pCtx, graph, phases); err != nil {
		t.Fatalf("Re-apply failed: %v", err)
	}
}
