package handlers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/config"
)

func TestValidate(t *testing.T) {
	stubLoadConfig(t, testConfig())

	var out bytes.Buffer
	require.NoError(t, Validate("ekspress.yaml", &out))

	text := out.String()
	assert.Contains(t, text, "Configuration is valid")
	assert.Contains(t, text, "demo (eu-central-1)")
	assert.Contains(t, text, "Steps:     7")
}

func TestValidateWithOptionals(t *testing.T) {
	cfg := testConfig()
	cfg.Database = &config.Database{Identifier: "demo-db", Port: 5432}
	cfg.Domain = &config.Domain{
		Name:           "app.example.com",
		CertificateARN: "arn:aws:acm:eu-central-1:123456789012:certificate/abc",
		HostedZoneID:   "Z123",
	}
	stubLoadConfig(t, cfg)

	var out bytes.Buffer
	require.NoError(t, Validate("ekspress.yaml", &out))

	assert.Contains(t, out.String(), "demo-db (port 5432)")
	assert.Contains(t, out.String(), "app.example.com")
	assert.Contains(t, out.String(), "Steps:     9")
}

func TestValidateLoadFailure(t *testing.T) {
	orig := loadConfigFile
	t.Cleanup(func() { loadConfigFile = orig })
	loadConfigFile = func(_ string) (*config.Config, error) { return nil, assert.AnError }

	var out bytes.Buffer
	err := Validate("broken.yaml", &out)
	require.Error(t, err)
}
