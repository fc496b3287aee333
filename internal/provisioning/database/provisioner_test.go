package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
)

func testContext(t *testing.T, cloud *aws.MockClient, db *config.Database) *provisioning.Context {
	t.Helper()
	cfg := &config.Config{
		Name:     "demo",
		Region:   "us-east-1",
		Image:    "123456789012.dkr.ecr.us-east-1.amazonaws.com/demo:v1",
		Secret:   config.SecretMount{Name: "prod/demo"},
		Database: db,
	}
	cfg.ApplyDefaults()
	return provisioning.NewContext(context.Background(), cfg, cloud)
}

func TestProvision_SkipsWithoutDatabase(t *testing.T) {
	t.Parallel()
	called := false
	mock := &aws.MockClient{
		InstanceSecurityGroupFunc: func(_ context.Context, _ string) (string, error) {
			called = true
			return "", nil
		},
	}
	ctx := testContext(t, mock, nil)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.False(t, called)
}

func TestProvision_OpensDatabasePort(t *testing.T) {
	t.Parallel()
	var gotSG, gotSource string
	var gotPort int32
	mock := &aws.MockClient{
		InstanceSecurityGroupFunc: func(_ context.Context, identifier string) (string, error) {
			assert.Equal(t, "prod-db", identifier)
			return "sg-db", nil
		},
		NodeSecurityGroupFunc: func(_ context.Context, clusterName string) (string, error) {
			assert.Equal(t, "demo", clusterName)
			return "sg-nodes", nil
		},
		AuthorizeIngressFunc: func(_ context.Context, securityGroupID, sourceSecurityGroupID string, port int32) error {
			gotSG, gotSource, gotPort = securityGroupID, sourceSecurityGroupID, port
			return nil
		},
	}
	ctx := testContext(t, mock, &config.Database{Identifier: "prod-db"})

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, "sg-db", gotSG)
	assert.Equal(t, "sg-nodes", gotSource)
	assert.Equal(t, int32(5432), gotPort)
}

func TestProvisioner_ID(t *testing.T) {
	var _ provisioning.Phase = (*Provisioner)(nil)
	assert.Equal(t, provisioning.StepDatabaseAccess, NewProvisioner().ID())
}
