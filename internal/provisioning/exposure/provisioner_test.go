package exposure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/platform/aws"
	"github.com/kallt/ekspress/internal/provisioning"
)

func testContext(t *testing.T, cloud *aws.MockClient, domain *config.Domain) *provisioning.Context {
	t.Helper()
	cfg := &config.Config{
		Name:   "demo",
		Region: "us-east-1",
		Image:  "123456789012.dkr.ecr.us-east-1.amazonaws.com/demo:v1",
		Secret: config.SecretMount{Name: "prod/demo"},
		Domain: domain,
	}
	cfg.ApplyDefaults()

	ctx := provisioning.NewContext(context.Background(), cfg, cloud)
	ctx.State.LoadBalancerHostname = "abc.elb.us-east-1.amazonaws.com"
	return ctx
}

func TestProvision_SkipsWithoutDomain(t *testing.T) {
	t.Parallel()
	called := false
	mock := &aws.MockClient{
		FindByDNSNameFunc: func(_ context.Context, _ string) (*aws.LoadBalancer, error) {
			called = true
			return nil, nil
		},
	}
	ctx := testContext(t, mock, nil)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.False(t, called)
}

func TestProvision_AddsTLSAndAlias(t *testing.T) {
	t.Parallel()
	var listenerCert string
	var listenerPort int32
	var aliasZone, aliasName string
	mock := &aws.MockClient{
		EnsureTLSListenerFunc: func(_ context.Context, lbARN, certificateARN string, port int32) error {
			assert.NotEmpty(t, lbARN)
			listenerCert, listenerPort = certificateARN, port
			return nil
		},
		UpsertAliasFunc: func(_ context.Context, hostedZoneID, recordName string, lb *aws.LoadBalancer) error {
			aliasZone, aliasName = hostedZoneID, recordName
			assert.NotNil(t, lb)
			return nil
		},
	}
	ctx := testContext(t, mock, &config.Domain{
		Name:           "app.example.com",
		CertificateARN: "arn:aws:acm:us-east-1:123456789012:certificate/abc",
		HostedZoneID:   "Z123",
	})

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, "arn:aws:acm:us-east-1:123456789012:certificate/abc", listenerCert)
	assert.Equal(t, int32(443), listenerPort)
	assert.Equal(t, "Z123", aliasZone)
	assert.Equal(t, "app.example.com", aliasName)
	assert.NotNil(t, ctx.State.LoadBalancer)
}

func TestProvision_RequiresHostname(t *testing.T) {
	t.Parallel()
	ctx := testContext(t, &aws.MockClient{}, &config.Domain{
		Name:           "app.example.com",
		CertificateARN: "arn:aws:acm:us-east-1:123456789012:certificate/abc",
		HostedZoneID:   "Z123",
	})
	ctx.State.LoadBalancerHostname = ""

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hostname")
}

func TestProvisioner_ID(t *testing.T) {
	var _ provisioning.Phase = (*Provisioner)(nil)
	assert.Equal(t, provisioning.StepExposure, NewProvisioner().ID())
}
