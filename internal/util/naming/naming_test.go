package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	cluster := "demo"
	app := "payments"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "VPC", got: VPC(cluster), expected: "demo-vpc"},
		{name: "PublicSubnet", got: PublicSubnet(cluster, 0), expected: "demo-public-0"},
		{name: "PrivateSubnet", got: PrivateSubnet(cluster, 1), expected: "demo-private-1"},
		{name: "InternetGateway", got: InternetGateway(cluster), expected: "demo-igw"},
		{name: "NATGateway", got: NATGateway(cluster), expected: "demo-nat"},
		{name: "PublicRouteTable", got: PublicRouteTable(cluster), expected: "demo-public-rt"},
		{name: "PrivateRouteTable", got: PrivateRouteTable(cluster), expected: "demo-private-rt"},
		{name: "NodeGroup", got: NodeGroup(cluster), expected: "demo-nodes"},
		{name: "ClusterRole", got: ClusterRole(cluster), expected: "demo-cluster-role"},
		{name: "NodeRole", got: NodeRole(cluster), expected: "demo-node-role"},
		{name: "SecretAccessPolicy", got: SecretAccessPolicy(cluster), expected: "demo-secret-reader"},
		{name: "SecretAccessRole", got: SecretAccessRole(cluster), expected: "demo-secret-reader-role"},
		{name: "ServiceAccount", got: ServiceAccount(app), expected: "payments-sa"},
		{name: "SecretProviderClass", got: SecretProviderClass(app), expected: "payments-secrets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, expected %q", tt.got, tt.expected)
			}
		})
	}
}
