package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// commonRegions are the regions offered by the wizard. Any valid region
// can still be set by editing the config file afterwards.
var commonRegions = []huh.Option[string]{
	huh.NewOption("N. Virginia (us-east-1)", "us-east-1"),
	huh.NewOption("Ohio (us-east-2)", "us-east-2"),
	huh.NewOption("Oregon (us-west-2)", "us-west-2"),
	huh.NewOption("Ireland (eu-west-1)", "eu-west-1"),
	huh.NewOption("Frankfurt (eu-central-1)", "eu-central-1"),
	huh.NewOption("Stockholm (eu-north-1)", "eu-north-1"),
	huh.NewOption("Singapore (ap-southeast-1)", "ap-southeast-1"),
	huh.NewOption("Tokyo (ap-northeast-1)", "ap-northeast-1"),
}

// nodeSizeOptions returns the selector options for worker instance types.
func nodeSizeOptions() []huh.Option[NodeSize] {
	return []huh.Option[NodeSize]{
		huh.NewOption("t3.small - 2 vCPU, 2GB RAM (burstable)", SizeT3Small),
		huh.NewOption("t3.medium - 2 vCPU, 4GB RAM (burstable)", SizeT3Medium),
		huh.NewOption("t3.large - 2 vCPU, 8GB RAM (burstable)", SizeT3Large),
		huh.NewOption("m5.large - 2 vCPU, 8GB RAM", SizeM5Large),
		huh.NewOption("m5.xlarge - 4 vCPU, 16GB RAM", SizeM5XLarge),
	}
}

// WizardResult holds the user's choices from the wizard.
type WizardResult struct {
	Name       string
	Region     string
	Image      string
	SecretName string
	NodeCount  int
	NodeSize   NodeSize

	Database           string
	Domain             string
	DomainCertARN      string
	DomainHostedZoneID string
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Region:    "eu-central-1",
		NodeCount: DefaultNodeCount,
		NodeSize:  DefaultNodeSize,
	}

	form := huh.NewForm(
		// Deployment identity
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster name").
				Description("Used for every AWS resource name and tag (DNS-safe, lowercase)").
				Placeholder("my-app").
				Value(&result.Name).
				Validate(validateWizardName),

			huh.NewSelect[string]().
				Title("Region").
				Description("AWS region everything is provisioned in").
				Options(commonRegions...).
				Value(&result.Region),
		),

		// Workload
		huh.NewGroup(
			huh.NewInput().
				Title("Container image").
				Description("Full ECR image URI, e.g. 123456789012.dkr.ecr.eu-central-1.amazonaws.com/my-app:v1").
				Value(&result.Image).
				Validate(validateWizardImage),

			huh.NewInput().
				Title("Secret name").
				Description("Secrets Manager secret mounted into the pods").
				Placeholder("prod/my-app/env").
				Value(&result.SecretName).
				Validate(validateWizardSecret),
		),

		// Node group
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Number of worker nodes").
				Options(
					huh.NewOption("1 node", 1),
					huh.NewOption("2 nodes", 2),
					huh.NewOption("3 nodes", 3),
					huh.NewOption("4 nodes", 4),
					huh.NewOption("5 nodes", 5),
				).
				Value(&result.NodeCount),

			huh.NewSelect[NodeSize]().
				Title("Node size").
				Options(nodeSizeOptions()...).
				Value(&result.NodeSize),
		),

		// Optional database access
		huh.NewGroup(
			huh.NewInput().
				Title("RDS instance (optional)").
				Description("DB instance identifier whose security group is opened to the nodes. Leave empty to skip.").
				Value(&result.Database),
		),

		// Optional exposure
		huh.NewGroup(
			huh.NewInput().
				Title("Domain (optional)").
				Description("Fully qualified record name for HTTPS exposure. Leave empty to skip.").
				Placeholder("app.example.com").
				Value(&result.Domain),

			huh.NewInput().
				Title("ACM certificate ARN").
				Description("Required when a domain is set").
				Value(&result.DomainCertARN),

			huh.NewInput().
				Title("Route 53 hosted zone ID").
				Description("Required when a domain is set").
				Value(&result.DomainHostedZoneID),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	if result.Domain != "" {
		if result.DomainCertARN == "" || result.DomainHostedZoneID == "" {
			return nil, fmt.Errorf("domain %s requires both a certificate ARN and a hosted zone ID", result.Domain)
		}
	}

	return result, nil
}

// ToConfig converts the wizard result to a Config with defaults applied.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		Name:   r.Name,
		Region: r.Region,
		Image:  r.Image,
		Nodes: NodePool{
			Count: r.NodeCount,
			Size:  r.NodeSize,
		},
		Secret: SecretMount{Name: r.SecretName},
	}

	if r.Database != "" {
		cfg.Database = &Database{Identifier: r.Database}
	}
	if r.Domain != "" {
		cfg.Domain = &Domain{
			Name:           r.Domain,
			CertificateARN: r.DomainCertARN,
			HostedZoneID:   r.DomainHostedZoneID,
		}
	}

	cfg.ApplyDefaults()
	return cfg
}

func validateWizardName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if !isValidDNSName(name) {
		return fmt.Errorf("must be lowercase alphanumeric with hyphens, starting with a letter")
	}
	return nil
}

func validateWizardImage(image string) error {
	if image == "" {
		return fmt.Errorf("image is required")
	}
	if !imageRegex.MatchString(image) {
		return fmt.Errorf("must be a full ECR image URI")
	}
	return nil
}

func validateWizardSecret(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("secret name is required")
	}
	if !secretRegex.MatchString(name) {
		return fmt.Errorf("not a valid Secrets Manager name or ARN")
	}
	return nil
}
