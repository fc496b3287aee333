package aws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePrincipalTrust(t *testing.T) {
	var doc policyDocument
	require.NoError(t, json.Unmarshal([]byte(servicePrincipalTrust("eks.amazonaws.com")), &doc))

	assert.Equal(t, "2012-10-17", doc.Version)
	require.Len(t, doc.Statement, 1)
	assert.Equal(t, "Allow", doc.Statement[0].Effect)
	assert.Equal(t, "eks.amazonaws.com", doc.Statement[0].Principal["Service"])
	assert.Equal(t, []string{"sts:AssumeRole"}, doc.Statement[0].Action)
}

func TestIRSATrustPolicy(t *testing.T) {
	opts := SecretRoleOpts{
		ClusterName:    "demo",
		Namespace:      "demo",
		ServiceAccount: "demo-sa",
		SecretARN:      "arn:aws:secretsmanager:us-east-1:123456789012:secret:prod/demo-AbCdEf",
		OIDCIssuer:     "https://oidc.eks.us-east-1.amazonaws.com/id/EXAMPLE",
		AccountID:      "123456789012",
	}

	raw, err := irsaTrustPolicy(opts)
	require.NoError(t, err)

	var doc policyDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Statement, 1)

	stmt := doc.Statement[0]
	assert.Equal(t, []string{"sts:AssumeRoleWithWebIdentity"}, stmt.Action)
	assert.Equal(t,
		"arn:aws:iam::123456789012:oidc-provider/oidc.eks.us-east-1.amazonaws.com/id/EXAMPLE",
		stmt.Principal["Federated"])

	conditions, ok := stmt.Condition["StringEquals"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "system:serviceaccount:demo:demo-sa",
		conditions["oidc.eks.us-east-1.amazonaws.com/id/EXAMPLE:sub"])
	assert.Equal(t, "sts.amazonaws.com",
		conditions["oidc.eks.us-east-1.amazonaws.com/id/EXAMPLE:aud"])
}

func TestIRSATrustPolicy_InvalidIssuer(t *testing.T) {
	for _, issuer := range []string{"", "not-a-url"} {
		_, err := irsaTrustPolicy(SecretRoleOpts{OIDCIssuer: issuer})
		assert.Error(t, err, "issuer %q", issuer)
	}
}

func TestSecretReadPolicy(t *testing.T) {
	arn := "arn:aws:secretsmanager:us-east-1:123456789012:secret:prod/demo-AbCdEf"

	raw, err := secretReadPolicy(arn)
	require.NoError(t, err)

	var doc policyDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Statement, 1)
	assert.ElementsMatch(t,
		[]string{"secretsmanager:GetSecretValue", "secretsmanager:DescribeSecret"},
		doc.Statement[0].Action)
	assert.Equal(t, []string{arn}, doc.Statement[0].Resource)
}

func TestOIDCProviderARN(t *testing.T) {
	arn := oidcProviderARN("123456789012", "https://oidc.eks.eu-west-1.amazonaws.com/id/ABC")
	assert.Equal(t, "arn:aws:iam::123456789012:oidc-provider/oidc.eks.eu-west-1.amazonaws.com/id/ABC", arn)
}
