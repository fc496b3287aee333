package aws

import (
	"context"
)

// MockClient is a mock implementation of CloudManager.
type MockClient struct {
	// Network
	EnsureNetworkFunc    func(ctx context.Context, clusterName string, opts NetworkOpts) (*Network, error)
	DeleteNetworkFunc    func(ctx context.Context, clusterName string) error
	AuthorizeIngressFunc func(ctx context.Context, securityGroupID, sourceSecurityGroupID string, port int32) error

	// Cluster
	EnsureClusterFunc     func(ctx context.Context, opts ClusterOpts) (*Cluster, error)
	EnsureNodeGroupFunc   func(ctx context.Context, opts NodeGroupOpts) error
	NodeSecurityGroupFunc func(ctx context.Context, clusterName string) (string, error)
	KubeconfigFunc        func(ctx context.Context, clusterName string) ([]byte, error)
	DeleteNodeGroupFunc   func(ctx context.Context, clusterName, name string) error
	DeleteClusterFunc     func(ctx context.Context, name string) error

	// Identity
	AccountIDFunc              func(ctx context.Context) (string, error)
	EnsureClusterRoleFunc      func(ctx context.Context, clusterName string, tags map[string]string) (string, error)
	EnsureNodeRoleFunc         func(ctx context.Context, clusterName string, tags map[string]string) (string, error)
	EnsureOIDCProviderFunc     func(ctx context.Context, issuerURL string, tags map[string]string) (string, error)
	EnsureSecretAccessRoleFunc func(ctx context.Context, opts SecretRoleOpts) (string, error)
	DeleteSecretAccessRoleFunc func(ctx context.Context, clusterName string) error
	DeleteClusterRolesFunc     func(ctx context.Context, clusterName string) error

	// Registry
	VerifyImageFunc func(ctx context.Context, imageURI string) error

	// Database
	InstanceSecurityGroupFunc func(ctx context.Context, identifier string) (string, error)

	// Secrets
	ResolveSecretARNFunc func(ctx context.Context, nameOrARN string) (string, error)

	// LoadBalancer
	FindByDNSNameFunc     func(ctx context.Context, dnsName string) (*LoadBalancer, error)
	EnsureTLSListenerFunc func(ctx context.Context, lbARN, certificateARN string, port int32) error

	// DNS
	UpsertAliasFunc func(ctx context.Context, hostedZoneID, recordName string, lb *LoadBalancer) error
}

// Ensure interface compliance
var _ CloudManager = (*MockClient)(nil)

// EnsureNetwork mocks network creation.
func (m *MockClient) EnsureNetwork(ctx context.Context, clusterName string, opts NetworkOpts) (*Network, error) {
	if m.EnsureNetworkFunc != nil {
		return m.EnsureNetworkFunc(ctx, clusterName, opts)
	}
	return &Network{
		VpcID:            "vpc-mock",
		PublicSubnetIDs:  []string{"subnet-pub-a", "subnet-pub-b"},
		PrivateSubnetIDs: []string{"subnet-priv-a", "subnet-priv-b"},
	}, nil
}

// DeleteNetwork mocks network deletion.
func (m *MockClient) DeleteNetwork(ctx context.Context, clusterName string) error {
	if m.DeleteNetworkFunc != nil {
		return m.DeleteNetworkFunc(ctx, clusterName)
	}
	return nil
}

// AuthorizeIngress mocks security group rule creation.
func (m *MockClient) AuthorizeIngress(ctx context.Context, securityGroupID, sourceSecurityGroupID string, port int32) error {
	if m.AuthorizeIngressFunc != nil {
		return m.AuthorizeIngressFunc(ctx, securityGroupID, sourceSecurityGroupID, port)
	}
	return nil
}

// EnsureCluster mocks cluster creation.
func (m *MockClient) EnsureCluster(ctx context.Context, opts ClusterOpts) (*Cluster, error) {
	if m.EnsureClusterFunc != nil {
		return m.EnsureClusterFunc(ctx, opts)
	}
	return &Cluster{
		Name:                 opts.Name,
		ARN:                  "arn:aws:eks:us-east-1:123456789012:cluster/" + opts.Name,
		Endpoint:             "https://mock.eks.amazonaws.com",
		CertificateAuthority: []byte("mock-ca"),
		OIDCIssuer:           "https://oidc.eks.us-east-1.amazonaws.com/id/MOCK",
		Status:               "ACTIVE",
	}, nil
}

// EnsureNodeGroup mocks node group creation.
func (m *MockClient) EnsureNodeGroup(ctx context.Context, opts NodeGroupOpts) error {
	if m.EnsureNodeGroupFunc != nil {
		return m.EnsureNodeGroupFunc(ctx, opts)
	}
	return nil
}

// NodeSecurityGroup mocks security group lookup.
func (m *MockClient) NodeSecurityGroup(ctx context.Context, clusterName string) (string, error) {
	if m.NodeSecurityGroupFunc != nil {
		return m.NodeSecurityGroupFunc(ctx, clusterName)
	}
	return "sg-mock-nodes", nil
}

// Kubeconfig mocks kubeconfig generation.
func (m *MockClient) Kubeconfig(ctx context.Context, clusterName string) ([]byte, error) {
	if m.KubeconfigFunc != nil {
		return m.KubeconfigFunc(ctx, clusterName)
	}
	return []byte("apiVersion: v1\nkind: Config\n"), nil
}

// DeleteNodeGroup mocks node group deletion.
func (m *MockClient) DeleteNodeGroup(ctx context.Context, clusterName, name string) error {
	if m.DeleteNodeGroupFunc != nil {
		return m.DeleteNodeGroupFunc(ctx, clusterName, name)
	}
	return nil
}

// DeleteCluster mocks cluster deletion.
func (m *MockClient) DeleteCluster(ctx context.Context, name string) error {
	if m.DeleteClusterFunc != nil {
		return m.DeleteClusterFunc(ctx, name)
	}
	return nil
}

// AccountID mocks caller identity lookup.
func (m *MockClient) AccountID(ctx context.Context) (string, error) {
	if m.AccountIDFunc != nil {
		return m.AccountIDFunc(ctx)
	}
	return "123456789012", nil
}

// EnsureClusterRole mocks control plane role creation.
func (m *MockClient) EnsureClusterRole(ctx context.Context, clusterName string, tags map[string]string) (string, error) {
	if m.EnsureClusterRoleFunc != nil {
		return m.EnsureClusterRoleFunc(ctx, clusterName, tags)
	}
	return "arn:aws:iam::123456789012:role/" + clusterName + "-cluster-role", nil
}

// EnsureNodeRole mocks node role creation.
func (m *MockClient) EnsureNodeRole(ctx context.Context, clusterName string, tags map[string]string) (string, error) {
	if m.EnsureNodeRoleFunc != nil {
		return m.EnsureNodeRoleFunc(ctx, clusterName, tags)
	}
	return "arn:aws:iam::123456789012:role/" + clusterName + "-node-role", nil
}

// EnsureOIDCProvider mocks OIDC provider registration.
func (m *MockClient) EnsureOIDCProvider(ctx context.Context, issuerURL string, tags map[string]string) (string, error) {
	if m.EnsureOIDCProviderFunc != nil {
		return m.EnsureOIDCProviderFunc(ctx, issuerURL, tags)
	}
	return "arn:aws:iam::123456789012:oidc-provider/oidc.eks.us-east-1.amazonaws.com/id/MOCK", nil
}

// EnsureSecretAccessRole mocks IRSA role creation.
func (m *MockClient) EnsureSecretAccessRole(ctx context.Context, opts SecretRoleOpts) (string, error) {
	if m.EnsureSecretAccessRoleFunc != nil {
		return m.EnsureSecretAccessRoleFunc(ctx, opts)
	}
	return "arn:aws:iam::123456789012:role/" + opts.ClusterName + "-secret-access", nil
}

// DeleteSecretAccessRole mocks IRSA role deletion.
func (m *MockClient) DeleteSecretAccessRole(ctx context.Context, clusterName string) error {
	if m.DeleteSecretAccessRoleFunc != nil {
		return m.DeleteSecretAccessRoleFunc(ctx, clusterName)
	}
	return nil
}

// DeleteClusterRoles mocks role deletion.
func (m *MockClient) DeleteClusterRoles(ctx context.Context, clusterName string) error {
	if m.DeleteClusterRolesFunc != nil {
		return m.DeleteClusterRolesFunc(ctx, clusterName)
	}
	return nil
}

// VerifyImage mocks image verification.
func (m *MockClient) VerifyImage(ctx context.Context, imageURI string) error {
	if m.VerifyImageFunc != nil {
		return m.VerifyImageFunc(ctx, imageURI)
	}
	return nil
}

// InstanceSecurityGroup mocks RDS security group lookup.
func (m *MockClient) InstanceSecurityGroup(ctx context.Context, identifier string) (string, error) {
	if m.InstanceSecurityGroupFunc != nil {
		return m.InstanceSecurityGroupFunc(ctx, identifier)
	}
	return "sg-mock-db", nil
}

// ResolveSecretARN mocks secret resolution.
func (m *MockClient) ResolveSecretARN(ctx context.Context, nameOrARN string) (string, error) {
	if m.ResolveSecretARNFunc != nil {
		return m.ResolveSecretARNFunc(ctx, nameOrARN)
	}
	return "arn:aws:secretsmanager:us-east-1:123456789012:secret:" + nameOrARN + "-AbCdEf", nil
}

// FindByDNSName mocks load balancer lookup.
func (m *MockClient) FindByDNSName(ctx context.Context, dnsName string) (*LoadBalancer, error) {
	if m.FindByDNSNameFunc != nil {
		return m.FindByDNSNameFunc(ctx, dnsName)
	}
	return &LoadBalancer{
		ARN:          "arn:aws:elasticloadbalancing:us-east-1:123456789012:loadbalancer/net/mock/abc",
		DNSName:      dnsName,
		HostedZoneID: "Z26RNL4JYFTOTI",
	}, nil
}

// EnsureTLSListener mocks TLS listener creation.
func (m *MockClient) EnsureTLSListener(ctx context.Context, lbARN, certificateARN string, port int32) error {
	if m.EnsureTLSListenerFunc != nil {
		return m.EnsureTLSListenerFunc(ctx, lbARN, certificateARN, port)
	}
	return nil
}

// UpsertAlias mocks Route 53 record upsert.
func (m *MockClient) UpsertAlias(ctx context.Context, hostedZoneID, recordName string, lb *LoadBalancer) error {
	if m.UpsertAliasFunc != nil {
		return m.UpsertAliasFunc(ctx, hostedZoneID, recordName, lb)
	}
	return nil
}
