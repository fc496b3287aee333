package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ResolveSecretARN resolves a Secrets Manager name or ARN to the full ARN,
// verifying the secret exists. The SecretProviderClass and the IAM policy
// both need the exact ARN with its random suffix.
func (c *RealClient) ResolveSecretARN(ctx context.Context, nameOrARN string) (string, error) {
	out, err := c.secrets.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: &nameOrARN,
	})
	if err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf("secret %s not found in Secrets Manager", nameOrARN)
		}
		return "", fmt.Errorf("failed to describe secret %s: %w", nameOrARN, err)
	}
	return awssdk.ToString(out.ARN), nil
}
