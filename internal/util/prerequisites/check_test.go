package prerequisites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCredentialsFromEnvironment(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "eu-central-1")

	result, err := CheckCredentials(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Source)
	assert.Equal(t, "eu-central-1", result.Region)
}
