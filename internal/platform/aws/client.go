// Package aws wraps the AWS service APIs behind per-concern interfaces.
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/kallt/ekspress/internal/config"
)

// Network holds the identifiers produced by the network tier.
type Network struct {
	VpcID            string
	PublicSubnetIDs  []string
	PrivateSubnetIDs []string
}

// NetworkOpts parameterizes network creation.
type NetworkOpts struct {
	CIDR string
	Tags map[string]string
}

// Cluster holds the identifiers produced by cluster creation.
type Cluster struct {
	Name                 string
	ARN                  string
	Endpoint             string
	CertificateAuthority []byte
	OIDCIssuer           string
	Status               string
}

// ClusterOpts parameterizes EKS cluster creation.
type ClusterOpts struct {
	Name      string
	RoleARN   string
	SubnetIDs []string
	Tags      map[string]string
}

// NodeGroupOpts parameterizes managed node group creation.
type NodeGroupOpts struct {
	ClusterName  string
	Name         string
	RoleARN      string
	SubnetIDs    []string
	InstanceType string
	Count        int
	Tags         map[string]string
}

// SecretRoleOpts parameterizes the IRSA role that lets one service account
// read one secret.
type SecretRoleOpts struct {
	ClusterName    string
	Namespace      string
	ServiceAccount string
	SecretARN      string
	OIDCIssuer     string
	AccountID      string
	Tags           map[string]string
}

// LoadBalancer identifies a provisioned network load balancer.
type LoadBalancer struct {
	ARN          string
	DNSName      string
	HostedZoneID string
}

// NetworkManager manages the VPC tier.
type NetworkManager interface {
	// EnsureNetwork creates (or finds) the VPC, public/private subnets,
	// internet gateway, NAT gateway, and route tables for the deployment.
	EnsureNetwork(ctx context.Context, clusterName string, opts NetworkOpts) (*Network, error)

	// DeleteNetwork tears the VPC tier down, tolerating absent resources.
	DeleteNetwork(ctx context.Context, clusterName string) error

	// AuthorizeIngress opens port from one security group to another.
	// Duplicate rules are treated as success.
	AuthorizeIngress(ctx context.Context, securityGroupID, sourceSecurityGroupID string, port int32) error
}

// ClusterManager manages the EKS control plane and node groups.
type ClusterManager interface {
	EnsureCluster(ctx context.Context, opts ClusterOpts) (*Cluster, error)
	EnsureNodeGroup(ctx context.Context, opts NodeGroupOpts) error

	// NodeSecurityGroup returns the cluster security group attached to the
	// managed nodes.
	NodeSecurityGroup(ctx context.Context, clusterName string) (string, error)

	// Kubeconfig builds client credentials for the cluster, embedding a
	// short-lived bearer token.
	Kubeconfig(ctx context.Context, clusterName string) ([]byte, error)

	DeleteNodeGroup(ctx context.Context, clusterName, name string) error
	DeleteCluster(ctx context.Context, name string) error
}

// IdentityManager manages IAM roles, policies, and the OIDC provider.
type IdentityManager interface {
	AccountID(ctx context.Context) (string, error)

	// EnsureClusterRole returns the role the EKS control plane assumes.
	EnsureClusterRole(ctx context.Context, clusterName string, tags map[string]string) (string, error)

	// EnsureNodeRole returns the role the managed node group assumes.
	EnsureNodeRole(ctx context.Context, clusterName string, tags map[string]string) (string, error)

	// EnsureOIDCProvider associates the cluster's OIDC issuer with IAM,
	// returning the provider ARN.
	EnsureOIDCProvider(ctx context.Context, issuerURL string, tags map[string]string) (string, error)

	// EnsureSecretAccessRole creates the IRSA role and its secret-read
	// policy, returning the role ARN.
	EnsureSecretAccessRole(ctx context.Context, opts SecretRoleOpts) (string, error)

	DeleteSecretAccessRole(ctx context.Context, clusterName string) error
	DeleteClusterRoles(ctx context.Context, clusterName string) error
}

// RegistryManager verifies ECR image references.
type RegistryManager interface {
	// VerifyImage checks that the image URI points at an existing image.
	VerifyImage(ctx context.Context, imageURI string) error
}

// DatabaseManager locates RDS instances.
type DatabaseManager interface {
	// InstanceSecurityGroup returns the active VPC security group of the
	// named DB instance.
	InstanceSecurityGroup(ctx context.Context, identifier string) (string, error)
}

// SecretStore resolves Secrets Manager references.
type SecretStore interface {
	// ResolveSecretARN resolves a secret name or ARN to its full ARN,
	// verifying the secret exists.
	ResolveSecretARN(ctx context.Context, nameOrARN string) (string, error)
}

// LoadBalancerManager manages the NLB the Service provisions.
type LoadBalancerManager interface {
	// FindByDNSName locates the load balancer the cluster created for the
	// Service, by its DNS name.
	FindByDNSName(ctx context.Context, dnsName string) (*LoadBalancer, error)

	// EnsureTLSListener adds a TLS listener forwarding to the same target
	// group as the existing TCP listener.
	EnsureTLSListener(ctx context.Context, lbARN, certificateARN string, port int32) error
}

// DNSManager manages Route 53 records.
type DNSManager interface {
	// UpsertAlias points recordName at the load balancer.
	UpsertAlias(ctx context.Context, hostedZoneID, recordName string, lb *LoadBalancer) error
}

// CloudManager combines all AWS concerns the pipeline needs.
type CloudManager interface {
	NetworkManager
	ClusterManager
	IdentityManager
	RegistryManager
	DatabaseManager
	SecretStore
	LoadBalancerManager
	DNSManager
}

// RealClient implements CloudManager against the AWS APIs.
type RealClient struct {
	region   string
	timeouts *config.Timeouts

	ec2     *ec2.Client
	eks     *eks.Client
	ecr     *ecr.Client
	rds     *rds.Client
	iam     *iam.Client
	secrets *secretsmanager.Client
	elbv2   *elbv2.Client
	route53 *route53.Client
	sts     *sts.Client
}

// NewRealClient loads the default credential chain for the given region.
func NewRealClient(ctx context.Context, region string) (*RealClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newRealClientFromConfig(cfg, region), nil
}

func newRealClientFromConfig(cfg awssdk.Config, region string) *RealClient {
	return &RealClient{
		region:   region,
		timeouts: config.LoadTimeouts(),
		ec2:      ec2.NewFromConfig(cfg),
		eks:      eks.NewFromConfig(cfg),
		ecr:      ecr.NewFromConfig(cfg),
		rds:      rds.NewFromConfig(cfg),
		iam:      iam.NewFromConfig(cfg),
		secrets:  secretsmanager.NewFromConfig(cfg),
		elbv2:    elbv2.NewFromConfig(cfg),
		route53:  route53.NewFromConfig(cfg),
		sts:      sts.NewFromConfig(cfg),
	}
}
