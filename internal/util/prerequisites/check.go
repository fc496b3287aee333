// Package prerequisites verifies the environment before provisioning
// starts, so credential problems surface immediately instead of minutes
// into a cluster build.
package prerequisites

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// Result describes the resolved credentials.
type Result struct {
	// Source names the provider the credentials came from (environment,
	// shared config, IMDS, ...).
	Source string

	// Region is the resolved default region, empty if none is configured.
	Region string
}

// CheckCredentials resolves the default AWS credential chain and retrieves
// a credential set. It makes no API calls; expired or invalid keys still
// fail later, but a completely unconfigured environment is caught here.
func CheckCredentials(ctx context.Context) (*Result, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("no AWS credentials found: %w\n"+
			"Configure credentials via environment variables, ~/.aws/credentials, or an instance profile", err)
	}

	return &Result{
		Source: creds.Source,
		Region: cfg.Region,
	}, nil
}
