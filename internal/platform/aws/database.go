package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
)

// InstanceSecurityGroup returns the active VPC security group of an existing
// RDS instance. The instance itself is never created or modified; only its
// ingress rules change.
func (c *RealClient) InstanceSecurityGroup(ctx context.Context, identifier string) (string, error) {
	out, err := c.rds.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: &identifier,
	})
	if err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf("database instance %s not found", identifier)
		}
		return "", fmt.Errorf("failed to describe database instance %s: %w", identifier, err)
	}
	if len(out.DBInstances) == 0 {
		return "", fmt.Errorf("database instance %s not found", identifier)
	}

	for _, sg := range out.DBInstances[0].VpcSecurityGroups {
		if awssdk.ToString(sg.Status) == "active" {
			return awssdk.ToString(sg.VpcSecurityGroupId), nil
		}
	}
	return "", fmt.Errorf("database instance %s has no active security group", identifier)
}
