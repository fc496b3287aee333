package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
)

type destroyMock struct {
	called bool
	err    error
}

func (m *destroyMock) Provision(_ *provisioning.Context) error {
	m.called = true
	return m.err
}

func stubDestroyFactories(t *testing.T, mock *destroyMock) {
	t.Helper()

	origLoad := loadConfigFile
	origCloud := newCloudClient
	origCtx := newProvisioningContext
	origDestroy := newDestroyProvisioner
	origConfirm := confirmDestroy
	t.Cleanup(func() {
		loadConfigFile = origLoad
		newCloudClient = origCloud
		newProvisioningContext = origCtx
		newDestroyProvisioner = origDestroy
		confirmDestroy = origConfirm
	})

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	newCloudClient = func(_ context.Context, _ string) (aws.CloudManager, error) {
		return &aws.MockClient{}, nil
	}
	newProvisioningContext = provisioning.NewContext
	newDestroyProvisioner = func() Provisioner { return mock }
}

func TestDestroy(t *testing.T) {
	mock := &destroyMock{}
	stubDestroyFactories(t, mock)

	err := Destroy(context.Background(), "ekspress.yaml", true)
	require.NoError(t, err)
	assert.True(t, mock.called)
}

func TestDestroyConfirmationDeclined(t *testing.T) {
	mock := &destroyMock{}
	stubDestroyFactories(t, mock)
	confirmDestroy = func(_ context.Context, _ string) (bool, error) { return false, nil }

	err := Destroy(context.Background(), "ekspress.yaml", false)
	require.NoError(t, err)
	assert.False(t, mock.called, "declined confirmation aborts without touching AWS")
}

func TestDestroyConfirmationAccepted(t *testing.T) {
	mock := &destroyMock{}
	stubDestroyFactories(t, mock)
	confirmDestroy = func(_ context.Context, _ string) (bool, error) { return true, nil }

	err := Destroy(context.Background(), "ekspress.yaml", false)
	require.NoError(t, err)
	assert.True(t, mock.called)
}

func TestDestroyFailure(t *testing.T) {
	mock := &destroyMock{err: assert.AnError}
	stubDestroyFactories(t, mock)

	err := Destroy(context.Background(), "ekspress.yaml", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destroy failed")
}
