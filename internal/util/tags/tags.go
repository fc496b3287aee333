// Package tags provides consistent tagging for AWS resources.
//
// Every resource ekspress creates carries the same tag set so that
// resources belonging to one deployment can be discovered, grouped, and
// torn down without persisted state.
//
// Standard tag keys use the ekspress.dev prefix for namespacing.
package tags

// Standard tag keys.
const (
	// KeyCluster identifies which deployment a resource belongs to.
	KeyCluster = "ekspress.dev/cluster"

	// KeyRole identifies the role of a resource (network, cluster, workload).
	KeyRole = "ekspress.dev/role"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "ekspress.dev/managed-by"

	// KeyName is the conventional AWS display-name tag.
	KeyName = "Name"
)

// Role values.
const (
	RoleNetwork  = "network"
	RoleCluster  = "cluster"
	RoleIdentity = "identity"
	RoleWorkload = "workload"
)

// ManagedByEkspress is the value stamped on every managed resource.
const ManagedByEkspress = "ekspress"

// Builder accumulates AWS resource tags.
type Builder struct {
	tags map[string]string
}

// NewBuilder returns a builder with the cluster and managed-by tags pre-set.
func NewBuilder(clusterName string) *Builder {
	return &Builder{
		tags: map[string]string{
			KeyCluster:   clusterName,
			KeyManagedBy: ManagedByEkspress,
		},
	}
}

// WithName sets the AWS Name tag.
func (b *Builder) WithName(name string) *Builder {
	b.tags[KeyName] = name
	return b
}

// WithRole sets the role tag.
func (b *Builder) WithRole(role string) *Builder {
	b.tags[KeyRole] = role
	return b
}

// Merge adds all tags from the provided map.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the tag map.
func (b *Builder) Build() map[string]string {
	out := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		out[k] = v
	}
	return out
}

// ClusterFilter returns the tag key/value pair that selects every resource
// belonging to the named deployment.
func ClusterFilter(clusterName string) (string, string) {
	return KeyCluster, clusterName
}
