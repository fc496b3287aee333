// Package naming derives deterministic AWS resource names from the cluster name.
//
// Every resource ekspress creates follows these patterns so that a second
// apply finds what the first one made, and destroy can locate everything
// without persisted state.
package naming

import "fmt"

func VPC(cluster string) string {
	return fmt.Sprintf("%s-vpc", cluster)
}

func PublicSubnet(cluster string, index int) string {
	return fmt.Sprintf("%s-public-%d", cluster, index)
}

func PrivateSubnet(cluster string, index int) string {
	return fmt.Sprintf("%s-private-%d", cluster, index)
}

func InternetGateway(cluster string) string {
	return fmt.Sprintf("%s-igw", cluster)
}

func NATGateway(cluster string) string {
	return fmt.Sprintf("%s-nat", cluster)
}

func PublicRouteTable(cluster string) string {
	return fmt.Sprintf("%s-public-rt", cluster)
}

func PrivateRouteTable(cluster string) string {
	return fmt.Sprintf("%s-private-rt", cluster)
}

func NodeGroup(cluster string) string {
	return fmt.Sprintf("%s-nodes", cluster)
}

func ClusterRole(cluster string) string {
	return fmt.Sprintf("%s-cluster-role", cluster)
}

func NodeRole(cluster string) string {
	return fmt.Sprintf("%s-node-role", cluster)
}

func SecretAccessPolicy(cluster string) string {
	return fmt.Sprintf("%s-secret-reader", cluster)
}

func SecretAccessRole(cluster string) string {
	return fmt.Sprintf("%s-secret-reader-role", cluster)
}

func ServiceAccount(app string) string {
	return fmt.Sprintf("%s-sa", app)
}

func SecretProviderClass(app string) string {
	return fmt.Sprintf("%s-secrets", app)
}
