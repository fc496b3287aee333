package helm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"
)

func TestSecretsStoreCSIDriverChart(t *testing.T) {
	chart := SecretsStoreCSIDriver()

	assert.Equal(t, "secrets-store-csi-driver", chart.ReleaseName)
	assert.Equal(t, "secrets-store-csi-driver", chart.Name)
	assert.Contains(t, chart.RepoURL, "kubernetes-sigs.github.io")

	syncSecret, ok := chart.Values["syncSecret"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, syncSecret["enabled"])
}

func TestAWSSecretsProviderChart(t *testing.T) {
	chart := AWSSecretsProvider()

	assert.Equal(t, "secrets-provider-aws", chart.ReleaseName)
	assert.Equal(t, "secrets-store-csi-driver-provider-aws", chart.Name)
	assert.Contains(t, chart.RepoURL, "aws.github.io")
}

func TestNewClient_InvalidKubeconfig(t *testing.T) {
	_, err := NewClient([]byte("not a kubeconfig"), "kube-system")
	assert.Error(t, err)
}

func TestRESTClientGetter(t *testing.T) {
	getter := &restClientGetter{
		config:    &rest.Config{Host: "https://example.invalid"},
		namespace: "kube-system",
	}

	cfg, err := getter.ToRESTConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.invalid", cfg.Host)

	assert.NotNil(t, getter.ToRawKubeConfigLoader())
}
