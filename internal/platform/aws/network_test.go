package aws

import (
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubnetBlock(t *testing.T) {
	assert.Equal(t, "10.0.0.0/20", subnetBlock("10.0.0.0/16", 0))
	assert.Equal(t, "10.0.16.0/20", subnetBlock("10.0.0.0/16", 1))
	assert.Equal(t, "10.0.32.0/20", subnetBlock("10.0.0.0/16", 2))
	assert.Equal(t, "10.0.48.0/20", subnetBlock("10.0.0.0/16", 3))
	assert.Equal(t, "172.31.16.0/20", subnetBlock("172.31.0.0/16", 1))
}

func TestClusterFilter(t *testing.T) {
	filters := clusterFilter("demo")
	require.Len(t, filters, 1)
	assert.Equal(t, "tag:ekspress.dev/cluster", awssdk.ToString(filters[0].Name))
	assert.Equal(t, []string{"demo"}, filters[0].Values)
}

func TestTagSpec(t *testing.T) {
	specs := tagSpec(ec2types.ResourceTypeVpc, map[string]string{
		"Name":                 "demo-vpc",
		"ekspress.dev/cluster": "demo",
	})
	require.Len(t, specs, 1)
	assert.Equal(t, ec2types.ResourceTypeVpc, specs[0].ResourceType)

	got := map[string]string{}
	for _, tag := range specs[0].Tags {
		got[awssdk.ToString(tag.Key)] = awssdk.ToString(tag.Value)
	}
	assert.Equal(t, "demo-vpc", got["Name"])
	assert.Equal(t, "demo", got["ekspress.dev/cluster"])
}
