// Package config provides the deployment configuration schema.
//
// The config file is the single source of truth for every value that the
// manifest bundle and the provisioning pipeline consume: cluster name,
// region, image URI, secret reference, namespace. Nothing is hand-edited
// into rendered manifests.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	regionRegex = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
	imageRegex  = regexp.MustCompile(`^\d{12}\.dkr\.ecr\.[a-z0-9-]+\.amazonaws\.com/[a-z0-9._/-]+(:[A-Za-z0-9._-]+)?$`)
	secretRegex = regexp.MustCompile(`^(arn:aws:secretsmanager:[a-z0-9-]+:\d{12}:secret:)?[A-Za-z0-9/_+=.@-]+$`)
)

// Config is the deployment configuration for ekspress.
type Config struct {
	// Name is the cluster name, used for resource naming and tagging.
	// Must be DNS-safe: lowercase alphanumeric and hyphens, must start with a letter.
	Name string `yaml:"name"`

	// Region is the AWS region everything is provisioned in.
	Region string `yaml:"region"`

	// Image is the full ECR image URI deployed by the workload phase.
	Image string `yaml:"image"`

	// Namespace is the Kubernetes namespace the bundle is deployed into.
	// Defaults to the cluster name.
	Namespace string `yaml:"namespace,omitempty"`

	// Replicas is the Deployment replica count. Defaults to 2.
	Replicas int `yaml:"replicas,omitempty"`

	// Nodes defines the managed node group.
	Nodes NodePool `yaml:"nodes"`

	// Secret binds a Secrets Manager entry into the pods.
	Secret SecretMount `yaml:"secret"`

	// Database optionally names an existing RDS instance whose security
	// group is opened to the node group.
	Database *Database `yaml:"database,omitempty"`

	// Domain optionally enables a TLS listener on the NLB and a Route 53
	// alias record.
	Domain *Domain `yaml:"domain,omitempty"`
}

// NodePool defines the managed node group.
type NodePool struct {
	// Count is the desired node count (1-10).
	Count int `yaml:"count"`

	// Size is the EC2 instance type for the nodes.
	Size NodeSize `yaml:"size"`
}

// SecretMount binds one Secrets Manager object to a pod volume.
type SecretMount struct {
	// Name is the Secrets Manager secret name or full ARN.
	Name string `yaml:"name"`

	// Alias is the filename the secret is mounted as. Defaults to the
	// last path element of Name.
	Alias string `yaml:"alias,omitempty"`

	// MountPath is the directory the CSI volume is mounted at.
	// Defaults to /mnt/secrets.
	MountPath string `yaml:"mountPath,omitempty"`
}

// Database names an existing RDS instance to grant network access to.
type Database struct {
	// Identifier is the RDS DB instance identifier.
	Identifier string `yaml:"identifier"`

	// Port is the database port. Defaults to 5432.
	Port int32 `yaml:"port,omitempty"`
}

// Domain enables external exposure with TLS and DNS.
type Domain struct {
	// Name is the fully qualified record name (e.g. app.example.com).
	Name string `yaml:"name"`

	// CertificateARN is the ACM certificate for the TLS listener.
	CertificateARN string `yaml:"certificateArn"`

	// HostedZoneID is the Route 53 hosted zone for the record.
	HostedZoneID string `yaml:"hostedZoneId"`
}

// NodeSize is an EC2 instance type for worker nodes.
type NodeSize string

const (
	// SizeT3Small is 2 vCPU, 2GB RAM burstable.
	SizeT3Small NodeSize = "t3.small"
	// SizeT3Medium is 2 vCPU, 4GB RAM burstable.
	SizeT3Medium NodeSize = "t3.medium"
	// SizeT3Large is 2 vCPU, 8GB RAM burstable.
	SizeT3Large NodeSize = "t3.large"
	// SizeM5Large is 2 vCPU, 8GB RAM general purpose.
	SizeM5Large NodeSize = "m5.large"
	// SizeM5XLarge is 4 vCPU, 16GB RAM general purpose.
	SizeM5XLarge NodeSize = "m5.xlarge"
)

// ValidNodeSizes returns all supported instance types.
func ValidNodeSizes() []NodeSize {
	return []NodeSize{SizeT3Small, SizeT3Medium, SizeT3Large, SizeM5Large, SizeM5XLarge}
}

// IsValid returns true if the node size is supported.
func (s NodeSize) IsValid() bool {
	switch s {
	case SizeT3Small, SizeT3Medium, SizeT3Large, SizeM5Large, SizeM5XLarge:
		return true
	default:
		return false
	}
}

// Defaults applied by ApplyDefaults.
const (
	DefaultReplicas  = 2
	DefaultMountPath = "/mnt/secrets"
	DefaultDBPort    = 5432
	DefaultNodeCount = 2
	DefaultNodeSize  = SizeT3Medium
	ContainerPort    = 80
	ServicePort      = 80
	TLSListenerPort  = 443
)

// ApplyDefaults fills optional fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Namespace == "" {
		c.Namespace = c.Name
	}
	if c.Replicas == 0 {
		c.Replicas = DefaultReplicas
	}
	if c.Nodes.Count == 0 {
		c.Nodes.Count = DefaultNodeCount
	}
	if c.Nodes.Size == "" {
		c.Nodes.Size = DefaultNodeSize
	}
	if c.Secret.MountPath == "" {
		c.Secret.MountPath = DefaultMountPath
	}
	if c.Secret.Alias == "" {
		c.Secret.Alias = aliasFromSecretName(c.Secret.Name)
	}
	if c.Database != nil && c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
}

// Validate checks the configuration and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	} else if !isValidDNSName(c.Name) {
		errs = append(errs, errors.New("name must be DNS-safe (lowercase alphanumeric and hyphens, must start with letter)"))
	}

	if c.Region == "" {
		errs = append(errs, errors.New("region is required"))
	} else if !regionRegex.MatchString(c.Region) {
		errs = append(errs, fmt.Errorf("region %q is not a valid AWS region name", c.Region))
	}

	if c.Image == "" {
		errs = append(errs, errors.New("image is required"))
	} else if !imageRegex.MatchString(c.Image) {
		errs = append(errs, fmt.Errorf("image %q is not an ECR image URI", c.Image))
	}

	if c.Namespace != "" && !isValidDNSName(c.Namespace) {
		errs = append(errs, errors.New("namespace must be DNS-safe"))
	}

	if c.Replicas < 0 || c.Replicas > 50 {
		errs = append(errs, errors.New("replicas must be 0-50"))
	}

	if c.Nodes.Count < 1 || c.Nodes.Count > 10 {
		errs = append(errs, errors.New("nodes.count must be 1-10"))
	}
	if c.Nodes.Size != "" && !c.Nodes.Size.IsValid() {
		errs = append(errs, fmt.Errorf("nodes.size must be one of: %v", ValidNodeSizes()))
	}

	if c.Secret.Name == "" {
		errs = append(errs, errors.New("secret.name is required"))
	} else if !secretRegex.MatchString(c.Secret.Name) {
		errs = append(errs, fmt.Errorf("secret.name %q is not a valid Secrets Manager name or ARN", c.Secret.Name))
	}
	if c.Secret.MountPath != "" && !strings.HasPrefix(c.Secret.MountPath, "/") {
		errs = append(errs, errors.New("secret.mountPath must be absolute"))
	}

	if c.Database != nil && c.Database.Identifier == "" {
		errs = append(errs, errors.New("database.identifier is required when database is set"))
	}

	if c.Domain != nil {
		if c.Domain.Name == "" {
			errs = append(errs, errors.New("domain.name is required when domain is set"))
		}
		if !strings.HasPrefix(c.Domain.CertificateARN, "arn:aws:acm:") {
			errs = append(errs, errors.New("domain.certificateArn must be an ACM certificate ARN"))
		}
		if c.Domain.HostedZoneID == "" {
			errs = append(errs, errors.New("domain.hostedZoneId is required when domain is set"))
		}
	}

	return errors.Join(errs...)
}

// AppName returns the workload name used for labels and manifest metadata.
// It is the repository part of the image URI, sanitized to a valid
// Kubernetes object name, falling back to the cluster name.
func (c *Config) AppName() string {
	slash := strings.Index(c.Image, "/")
	if slash < 0 {
		return c.Name
	}
	repo := c.Image[slash+1:]
	if colon := strings.LastIndex(repo, ":"); colon >= 0 {
		repo = repo[:colon]
	}
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		repo = repo[i+1:]
	}
	repo = sanitizeDNSName(repo)
	if !isValidDNSName(repo) {
		return c.Name
	}
	return repo
}

// sanitizeDNSName maps characters that are legal in ECR repository names
// but not in Kubernetes object names (underscores and dots) onto hyphens,
// then strips the hyphen runs that leaves behind.
func sanitizeDNSName(s string) string {
	s = strings.NewReplacer("_", "-", ".", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// HasDatabase returns true if an RDS instance is configured.
func (c *Config) HasDatabase() bool {
	return c.Database != nil
}

// HasDomain returns true if external exposure is configured.
func (c *Config) HasDomain() bool {
	return c.Domain != nil
}

// aliasFromSecretName derives the mounted filename from a secret name or ARN.
func aliasFromSecretName(name string) string {
	if name == "" {
		return ""
	}
	trimmed := name
	if i := strings.LastIndex(trimmed, ":"); strings.HasPrefix(trimmed, "arn:") && i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}

// isValidDNSName checks DNS-label validity: lowercase alphanumeric with
// hyphens, starts with a letter, no doubled hyphens, max 63 chars.
func isValidDNSName(name string) bool {
	if len(name) == 0 || len(name) > 63 {
		return false
	}
	if name[0] < 'a' || name[0] > 'z' {
		return false
	}
	last := name[len(name)-1]
	if (last < 'a' || last > 'z') && (last < '0' || last > '9') {
		return false
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return !strings.Contains(name, "--")
}
