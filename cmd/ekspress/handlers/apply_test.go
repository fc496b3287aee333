package handlers

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/helm"
	"github.com/kallt/ekspress/internal/k8s"
	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/util/prerequisites"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Name:   "demo",
		Region: "eu-central-1",
		Image:  "123456789012.dkr.ecr.eu-central-1.amazonaws.com/demo:v1",
		Nodes:  config.NodePool{Count: 2, Size: config.SizeT3Medium},
		Secret: config.SecretMount{Name: "prod/demo/env"},
	}
	cfg.ApplyDefaults()
	return cfg
}

type fakeHelm struct {
	installed []string
}

func (f *fakeHelm) InstallOrUpgrade(_ context.Context, chart helm.Chart) error {
	f.installed = append(f.installed, chart.ReleaseName)
	return nil
}

// stubFactories wires every factory var to in-memory fakes and returns a
// restore function plus the recorded writes.
func stubFactories(t *testing.T, cfg *config.Config) (written map[string][]byte, kube *k8s.MockClient) {
	t.Helper()

	origLoad := loadConfigFile
	origFind := findConfigFile
	origCloud := newCloudClient
	origCtx := newProvisioningContext
	origWrite := writeFile
	origTerm := isTerminal
	origCreds := checkCredentials
	t.Cleanup(func() {
		loadConfigFile = origLoad
		findConfigFile = origFind
		newCloudClient = origCloud
		newProvisioningContext = origCtx
		writeFile = origWrite
		isTerminal = origTerm
		checkCredentials = origCreds
	})

	written = make(map[string][]byte)
	kube = &k8s.MockClient{}

	loadConfigFile = func(_ string) (*config.Config, error) { return cfg, nil }
	findConfigFile = func() (string, error) { return "ekspress.yaml", nil }
	newCloudClient = func(_ context.Context, _ string) (aws.CloudManager, error) {
		return &aws.MockClient{}, nil
	}
	newProvisioningContext = func(ctx context.Context, c *config.Config, cloud aws.CloudManager) *provisioning.Context {
		pCtx := provisioning.NewContext(ctx, c, cloud)
		pCtx.NewKubeClient = func(_ []byte) (k8s.Client, error) { return kube, nil }
		pCtx.NewHelmClient = func(_ []byte, _ string) (helm.Client, error) { return &fakeHelm{}, nil }
		return pCtx
	}
	writeFile = func(name string, data []byte, _ fs.FileMode) error {
		written[name] = data
		return nil
	}
	isTerminal = func() bool { return false }
	checkCredentials = func(_ context.Context) (*prerequisites.Result, error) {
		return &prerequisites.Result{Source: "StaticCredentials", Region: "eu-central-1"}, nil
	}

	return written, kube
}

func TestApplyMissingCredentials(t *testing.T) {
	stubFactories(t, testConfig())
	checkCredentials = func(_ context.Context) (*prerequisites.Result, error) {
		return nil, assert.AnError
	}

	err := Apply(context.Background(), "ekspress.yaml")
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	written, kube := stubFactories(t, testConfig())

	err := Apply(context.Background(), "ekspress.yaml")
	require.NoError(t, err)

	assert.Contains(t, written, kubeconfigPath, "kubeconfig is persisted after provisioning")
	assert.NotEmpty(t, kube.Applied, "manifests were applied to the cluster")
}

func TestApplyNoConfigFound(t *testing.T) {
	stubFactories(t, testConfig())
	findConfigFile = func() (string, error) { return "", assert.AnError }

	err := Apply(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")
}

func TestApplyRunsConditionalSteps(t *testing.T) {
	cfg := testConfig()
	cfg.Database = &config.Database{Identifier: "demo-db", Port: 5432}
	cfg.Domain = &config.Domain{
		Name:           "app.example.com",
		CertificateARN: "arn:aws:acm:eu-central-1:123456789012:certificate/abc",
		HostedZoneID:   "Z123",
	}
	stubFactories(t, cfg)

	var openedPort int32
	var aliasRecord string
	cloud := &aws.MockClient{
		AuthorizeIngressFunc: func(_ context.Context, _, _ string, port int32) error {
			openedPort = port
			return nil
		},
		UpsertAliasFunc: func(_ context.Context, _, recordName string, _ *aws.LoadBalancer) error {
			aliasRecord = recordName
			return nil
		},
	}
	newCloudClient = func(_ context.Context, _ string) (aws.CloudManager, error) { return cloud, nil }

	err := Apply(context.Background(), "ekspress.yaml")
	require.NoError(t, err)

	assert.EqualValues(t, 5432, openedPort, "database access step ran")
	assert.Equal(t, "app.example.com", aliasRecord, "exposure step ran")
}

func TestApplyDashboardPathUsed(t *testing.T) {
	stubFactories(t, testConfig())
	isTerminal = func() bool { return true }

	origDash := runDashboard
	t.Cleanup(func() { runDashboard = origDash })

	var dashboardSteps int
	runDashboard = func(_ context.Context, _, _ string, steps []provisioning.Step, run func(obs provisioning.Observer) (string, error)) error {
		dashboardSteps = len(steps)
		hostname, err := run(provisioning.NewConsoleObserver())
		if err != nil {
			return err
		}
		assert.NotEmpty(t, hostname)
		return nil
	}

	err := Apply(context.Background(), "ekspress.yaml")
	require.NoError(t, err)
	assert.Equal(t, 7, dashboardSteps, "base sequence has seven steps")
}

func TestBuildPhasesCoversAllSteps(t *testing.T) {
	graph := provisioning.NewGraph(provisioning.DefaultSteps(true, true)...)
	byID := make(map[provisioning.StepID]bool)
	for _, p := range buildPhases() {
		byID[p.ID()] = true
	}
	for _, step := range graph.Steps() {
		assert.True(t, byID[step.ID], "phase registered for %s", step.ID)
	}
}
