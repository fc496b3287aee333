package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardResultToConfig(t *testing.T) {
	t.Parallel()

	result := &WizardResult{
		Name:       "demo",
		Region:     "eu-central-1",
		Image:      "123456789012.dkr.ecr.eu-central-1.amazonaws.com/demo:v1",
		SecretName: "prod/demo/env",
		NodeCount:  3,
		NodeSize:   SizeM5Large,
	}

	cfg := result.ToConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, "demo", cfg.Namespace, "namespace defaults to the cluster name")
	assert.Equal(t, 3, cfg.Nodes.Count)
	assert.Equal(t, SizeM5Large, cfg.Nodes.Size)
	assert.Equal(t, DefaultMountPath, cfg.Secret.MountPath)
	assert.Equal(t, "env", cfg.Secret.Alias)
	assert.Nil(t, cfg.Database)
	assert.Nil(t, cfg.Domain)
}

func TestWizardResultToConfigOptionals(t *testing.T) {
	t.Parallel()

	result := &WizardResult{
		Name:               "demo",
		Region:             "us-east-1",
		Image:              "123456789012.dkr.ecr.us-east-1.amazonaws.com/demo:v1",
		SecretName:         "demo-secret",
		NodeCount:          2,
		NodeSize:           SizeT3Medium,
		Database:           "demo-db",
		Domain:             "app.example.com",
		DomainCertARN:      "arn:aws:acm:us-east-1:123456789012:certificate/abc",
		DomainHostedZoneID: "Z123",
	}

	cfg := result.ToConfig()
	require.NoError(t, cfg.Validate())

	require.NotNil(t, cfg.Database)
	assert.Equal(t, "demo-db", cfg.Database.Identifier)
	assert.EqualValues(t, DefaultDBPort, cfg.Database.Port)

	require.NotNil(t, cfg.Domain)
	assert.Equal(t, "app.example.com", cfg.Domain.Name)
	assert.Equal(t, "Z123", cfg.Domain.HostedZoneID)
}

func TestWizardValidators(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateWizardName("my-app"))
	assert.Error(t, validateWizardName(""))
	assert.Error(t, validateWizardName("My-App"))
	assert.Error(t, validateWizardName("1app"))

	assert.NoError(t, validateWizardImage("123456789012.dkr.ecr.eu-central-1.amazonaws.com/demo:v1"))
	assert.Error(t, validateWizardImage("nginx:latest"))
	assert.Error(t, validateWizardImage(""))

	assert.NoError(t, validateWizardSecret("prod/demo/env"))
	assert.Error(t, validateWizardSecret("  "))
}
