package handlers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/config"
)

func stubLoadConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	orig := loadConfigFile
	t.Cleanup(func() { loadConfigFile = orig })
	loadConfigFile = func(_ string) (*config.Config, error) { return cfg, nil }
}

func TestPlanText(t *testing.T) {
	stubLoadConfig(t, testConfig())

	var out bytes.Buffer
	err := Plan("ekspress.yaml", "text", &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Provisioning plan for demo (7 steps)")
	assert.Contains(t, text, "1. Infrastructure")
	assert.Contains(t, text, "7. Workload")
	assert.NotContains(t, text, "Database Access")
	assert.NotContains(t, text, "External Exposure")
}

func TestPlanTextConditionalSteps(t *testing.T) {
	cfg := testConfig()
	cfg.Database = &config.Database{Identifier: "demo-db", Port: 5432}
	cfg.Domain = &config.Domain{
		Name:           "app.example.com",
		CertificateARN: "arn:aws:acm:eu-central-1:123456789012:certificate/abc",
		HostedZoneID:   "Z123",
	}
	stubLoadConfig(t, cfg)

	var out bytes.Buffer
	require.NoError(t, Plan("ekspress.yaml", "text", &out))

	assert.Contains(t, out.String(), "Database Access")
	assert.Contains(t, out.String(), "External Exposure")
	assert.Contains(t, out.String(), "9 steps")
}

func TestPlanDot(t *testing.T) {
	stubLoadConfig(t, testConfig())

	var out bytes.Buffer
	require.NoError(t, Plan("ekspress.yaml", "dot", &out))

	assert.Contains(t, out.String(), "digraph")
	assert.Contains(t, out.String(), "infrastructure")
}

func TestPlanUnknownFormat(t *testing.T) {
	stubLoadConfig(t, testConfig())

	var out bytes.Buffer
	err := Plan("ekspress.yaml", "json", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "json"`)
}
