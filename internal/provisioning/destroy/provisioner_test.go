package destroy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/k8s"
	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
)

func testContext(t *testing.T, cloud *aws.MockClient, kube *k8s.MockClient) *provisioning.Context {
	t.Helper()
	cfg := &config.Config{
		Name:   "demo",
		Region: "us-east-1",
		Image:  "123456789012.dkr.ecr.us-east-1.amazonaws.com/demo:v1",
		Secret: config.SecretMount{Name: "prod/demo"},
	}
	cfg.ApplyDefaults()

	ctx := provisioning.NewContext(context.Background(), cfg, cloud)
	ctx.NewKubeClient = func(_ []byte) (k8s.Client, error) { return kube, nil }
	return ctx
}

func TestProvision_TearsDownEverything(t *testing.T) {
	t.Parallel()
	var calls []string
	record := func(name string) { calls = append(calls, name) }

	namespaceDeleted := ""
	kube := &k8s.MockClient{
		DeleteNamespaceFunc: func(_ context.Context, name string) error {
			namespaceDeleted = name
			record("namespace")
			return nil
		},
	}
	cloud := &aws.MockClient{
		DeleteSecretAccessRoleFunc: func(_ context.Context, _ string) error { record("irsa"); return nil },
		DeleteNodeGroupFunc:        func(_ context.Context, _, _ string) error { record("nodegroup"); return nil },
		DeleteClusterFunc:          func(_ context.Context, _ string) error { record("cluster"); return nil },
		DeleteClusterRolesFunc:     func(_ context.Context, _ string) error { record("roles"); return nil },
		DeleteNetworkFunc:          func(_ context.Context, _ string) error { record("network"); return nil },
	}
	ctx := testContext(t, cloud, kube)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, []string{"namespace", "irsa", "nodegroup", "cluster", "roles", "network"}, calls)
	assert.Equal(t, "demo", namespaceDeleted)
}

func TestProvision_SkipsNamespaceWhenClusterGone(t *testing.T) {
	t.Parallel()
	kubeCalled := false
	kube := &k8s.MockClient{
		DeleteNamespaceFunc: func(_ context.Context, _ string) error {
			kubeCalled = true
			return nil
		},
	}
	cloud := &aws.MockClient{
		KubeconfigFunc: func(_ context.Context, _ string) ([]byte, error) {
			return nil, errors.New("cluster not found")
		},
	}
	ctx := testContext(t, cloud, kube)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.False(t, kubeCalled)
}

func TestProvision_StopsOnDeleteFailure(t *testing.T) {
	t.Parallel()
	boom := errors.New("dependency violation")
	networkCalled := false
	cloud := &aws.MockClient{
		DeleteClusterFunc: func(_ context.Context, _ string) error { return boom },
		DeleteNetworkFunc: func(_ context.Context, _ string) error {
			networkCalled = true
			return nil
		},
	}
	ctx := testContext(t, cloud, &k8s.MockClient{})

	err := NewProvisioner().Provision(ctx)
	assert.ErrorIs(t, err, boom)
	assert.False(t, networkCalled, "network must survive when the cluster fails to delete")
}
