// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/provisioning/cluster"
	"github.com/kallt/ekspress/internal/provisioning/database"
	"github.com/kallt/ekspress/internal/provisioning/exposure"
	"github.com/kallt/ekspress/internal/provisioning/identity"
	"github.com/kallt/ekspress/internal/provisioning/infrastructure"
	"github.com/kallt/ekspress/internal/provisioning/workload"
	"github.com/kallt/ekspress/internal/ui/tui"
	"github.com/kallt/ekspress/internal/util/prerequisites"
)

const kubeconfigPath = "kubeconfig"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newCloudClient creates an AWS client for the configured region.
	newCloudClient = func(ctx context.Context, region string) (aws.CloudManager, error) {
		return aws.NewRealClient(ctx, region)
	}

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// loadConfigFile loads and validates a config file.
	loadConfigFile = config.Load

	// findConfigFile locates ekspress.yaml when no path is given.
	findConfigFile = config.FindConfigFile

	// writeFile writes data to a file.
	writeFile = os.WriteFile

	// checkCredentials verifies AWS credentials are resolvable.
	checkCredentials = prerequisites.CheckCredentials

	// isTerminal reports whether stdout is a terminal.
	isTerminal = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }

	// runDashboard wraps a provisioning run with the terminal dashboard.
	runDashboard = tui.RunApply
)

// Apply provisions the AWS infrastructure and deploys the workload.
//
// The full sequence: network, EKS cluster and node group, OIDC provider,
// optional database access, the secret access role and service account,
// the secrets CSI driver, the manifest bundle, and optional TLS/DNS
// exposure. Each step is idempotent, so re-running after a partial
// failure resumes where the previous run stopped.
//
// When stdout is a terminal the run is wrapped in a live dashboard;
// otherwise plain log output is used.
func Apply(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	creds, err := checkCredentials(ctx)
	if err != nil {
		return err
	}
	log.Printf("Using AWS credentials from %s", creds.Source)

	log.Printf("Applying configuration for cluster: %s (%s)", cfg.Name, cfg.Region)

	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}

	pCtx := newProvisioningContext(ctx, cfg, cloud)
	graph := provisioning.NewGraph(provisioning.DefaultSteps(cfg.HasDatabase(), cfg.HasDomain())...)
	phases := buildPhases()

	if err := runProvisioning(ctx, cfg, pCtx, graph, phases); err != nil {
		return err
	}

	if err := writeKubeconfig(pCtx.State.Kubeconfig); err != nil {
		return err
	}

	printApplySuccess(cfg, pCtx.State)
	return nil
}

// buildPhases returns every phase implementation. Phases whose step is
// not in the graph are simply never run.
func buildPhases() []provisioning.Phase {
	return []provisioning.Phase{
		infrastructure.NewProvisioner(),
		cluster.NewProvisioner(),
		cluster.NewOIDCProvisioner(),
		database.NewProvisioner(),
		identity.NewProvisioner(),
		workload.NewCSIDriverProvisioner(),
		workload.NewSecretClassProvisioner(),
		workload.NewProvisioner(),
		exposure.NewProvisioner(),
	}
}

// runProvisioning executes the graph, under the dashboard when stdout is
// a terminal.
func runProvisioning(ctx context.Context, cfg *config.Config, pCtx *provisioning.Context, graph *provisioning.Graph, phases []provisioning.Phase) error {
	if !isTerminal() {
		return provisioning.RunPhases(pCtx, graph, phases)
	}

	steps, err := graph.Sort()
	if err != nil {
		return err
	}

	return runDashboard(ctx, cfg.Name, cfg.Region, steps, func(obs provisioning.Observer) (string, error) {
		pCtx.Observer = obs
		if err := provisioning.RunPhases(pCtx, graph, phases); err != nil {
			return "", err
		}
		return pCtx.State.LoadBalancerHostname, nil
	})
}

// loadConfig loads and validates the configuration. If configPath is
// empty, ekspress.yaml is searched for in the current directory and its
// parents.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'ekspress init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// writeKubeconfig persists the cluster credentials to disk. The embedded
// token is short-lived; the file mainly pins the endpoint and CA.
func writeKubeconfig(kubeconfig []byte) error {
	if len(kubeconfig) == 0 {
		return nil
	}

	if err := writeFile(kubeconfigPath, kubeconfig, 0600); err != nil {
		return fmt.Errorf("failed to write kubeconfig: %w", err)
	}
	return nil
}

// printApplySuccess outputs the completion message and next steps.
func printApplySuccess(cfg *config.Config, state *provisioning.State) {
	fmt.Printf("\nDeployment complete!\n")

	if len(state.Kubeconfig) > 0 {
		fmt.Printf("Kubeconfig saved to: %s\n", kubeconfigPath)
		fmt.Printf("\nYou can inspect your workload with:\n")
		fmt.Printf("  export KUBECONFIG=%s\n", kubeconfigPath)
		fmt.Printf("  kubectl -n %s get pods\n", cfg.Namespace)
	}

	if state.LoadBalancerHostname != "" {
		fmt.Printf("\nLoad balancer: http://%s\n", state.LoadBalancerHostname)
	}
	if cfg.Domain != nil {
		fmt.Printf("Application URL: https://%s\n", cfg.Domain.Name)
	}
}
