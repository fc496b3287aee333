package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/config"
)

func TestInit(t *testing.T) {
	origExists := fileExists
	origWizard := runWizard
	origSave := saveConfig
	t.Cleanup(func() {
		fileExists = origExists
		runWizard = origWizard
		saveConfig = origSave
	})

	fileExists = func(_ string) bool { return false }
	runWizard = func(_ context.Context) (*config.WizardResult, error) {
		return &config.WizardResult{
			Name:       "demo",
			Region:     "eu-central-1",
			Image:      "123456789012.dkr.ecr.eu-central-1.amazonaws.com/demo:v1",
			SecretName: "prod/demo/env",
			NodeCount:  2,
			NodeSize:   config.SizeT3Medium,
		}, nil
	}

	var savedPath string
	var savedCfg *config.Config
	saveConfig = func(cfg *config.Config, path string) error {
		savedPath = path
		savedCfg = cfg
		return nil
	}

	err := Init(context.Background(), "ekspress.yaml")
	require.NoError(t, err)

	assert.Equal(t, "ekspress.yaml", savedPath)
	require.NotNil(t, savedCfg)
	assert.Equal(t, "demo", savedCfg.Name)
	assert.Equal(t, config.DefaultMountPath, savedCfg.Secret.MountPath, "defaults are applied before saving")
}

func TestInitWizardCanceled(t *testing.T) {
	origWizard := runWizard
	origExists := fileExists
	t.Cleanup(func() {
		runWizard = origWizard
		fileExists = origExists
	})

	fileExists = func(_ string) bool { return false }
	runWizard = func(_ context.Context) (*config.WizardResult, error) {
		return nil, assert.AnError
	}

	err := Init(context.Background(), "ekspress.yaml")
	require.Error(t, err)
}
