package aws

import (
	"context"
	"encoding/base64"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
)

// EnsureCluster creates the EKS control plane if it does not exist and waits
// until it is active. Creation takes on the order of ten minutes.
func (c *RealClient) EnsureCluster(ctx context.Context, opts ClusterOpts) (*Cluster, error) {
	existing, err := c.describeCluster(ctx, opts.Name)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}

	if existing == nil {
		_, err := c.eks.CreateCluster(ctx, &eks.CreateClusterInput{
			Name:    &opts.Name,
			RoleArn: &opts.RoleARN,
			ResourcesVpcConfig: &ekstypes.VpcConfigRequest{
				SubnetIds: opts.SubnetIDs,
			},
			Tags: opts.Tags,
		})
		if err != nil && !IsAlreadyExists(err) {
			return nil, fmt.Errorf("failed to create cluster %s: %w", opts.Name, err)
		}
	}

	waiter := eks.NewClusterActiveWaiter(c.eks)
	if err := waiter.Wait(ctx, &eks.DescribeClusterInput{
		Name: &opts.Name,
	}, c.timeouts.ClusterCreate); err != nil {
		return nil, fmt.Errorf("cluster %s did not become active: %w", opts.Name, err)
	}

	return c.describeCluster(ctx, opts.Name)
}

func (c *RealClient) describeCluster(ctx context.Context, name string) (*Cluster, error) {
	out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: &name})
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to describe cluster %s: %w", name, err)
	}

	cluster := &Cluster{
		Name:     awssdk.ToString(out.Cluster.Name),
		ARN:      awssdk.ToString(out.Cluster.Arn),
		Endpoint: awssdk.ToString(out.Cluster.Endpoint),
		Status:   string(out.Cluster.Status),
	}
	if out.Cluster.CertificateAuthority != nil {
		ca, err := base64.StdEncoding.DecodeString(awssdk.ToString(out.Cluster.CertificateAuthority.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode certificate authority for %s: %w", name, err)
		}
		cluster.CertificateAuthority = ca
	}
	if out.Cluster.Identity != nil && out.Cluster.Identity.Oidc != nil {
		cluster.OIDCIssuer = awssdk.ToString(out.Cluster.Identity.Oidc.Issuer)
	}
	return cluster, nil
}

// EnsureNodeGroup creates the managed node group if it does not exist and
// waits until it is active.
func (c *RealClient) EnsureNodeGroup(ctx context.Context, opts NodeGroupOpts) error {
	_, err := c.eks.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
		ClusterName:   &opts.ClusterName,
		NodegroupName: &opts.Name,
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to describe node group %s: %w", opts.Name, err)
	}

	if err != nil {
		count := int32(opts.Count)
		_, err := c.eks.CreateNodegroup(ctx, &eks.CreateNodegroupInput{
			ClusterName:   &opts.ClusterName,
			NodegroupName: &opts.Name,
			NodeRole:      &opts.RoleARN,
			Subnets:       opts.SubnetIDs,
			InstanceTypes: []string{opts.InstanceType},
			AmiType:       ekstypes.AMITypesAl2023X8664Standard,
			ScalingConfig: &ekstypes.NodegroupScalingConfig{
				MinSize:     &count,
				MaxSize:     &count,
				DesiredSize: &count,
			},
			Tags: opts.Tags,
		})
		if err != nil && !IsAlreadyExists(err) {
			return fmt.Errorf("failed to create node group %s: %w", opts.Name, err)
		}
	}

	waiter := eks.NewNodegroupActiveWaiter(c.eks)
	if err := waiter.Wait(ctx, &eks.DescribeNodegroupInput{
		ClusterName:   &opts.ClusterName,
		NodegroupName: &opts.Name,
	}, c.timeouts.NodeGroupCreate); err != nil {
		return fmt.Errorf("node group %s did not become active: %w", opts.Name, err)
	}
	return nil
}

// NodeSecurityGroup returns the cluster security group the managed nodes
// share. EKS creates it with the cluster; RDS ingress rules reference it.
func (c *RealClient) NodeSecurityGroup(ctx context.Context, clusterName string) (string, error) {
	out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: &clusterName})
	if err != nil {
		return "", fmt.Errorf("failed to describe cluster %s: %w", clusterName, err)
	}
	if out.Cluster.ResourcesVpcConfig == nil || out.Cluster.ResourcesVpcConfig.ClusterSecurityGroupId == nil {
		return "", fmt.Errorf("cluster %s has no cluster security group", clusterName)
	}
	return awssdk.ToString(out.Cluster.ResourcesVpcConfig.ClusterSecurityGroupId), nil
}

// DeleteNodeGroup removes the managed node group and waits for deletion.
func (c *RealClient) DeleteNodeGroup(ctx context.Context, clusterName, name string) error {
	_, err := c.eks.DeleteNodegroup(ctx, &eks.DeleteNodegroupInput{
		ClusterName:   &clusterName,
		NodegroupName: &name,
	})
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete node group %s: %w", name, err)
	}

	waiter := eks.NewNodegroupDeletedWaiter(c.eks)
	if err := waiter.Wait(ctx, &eks.DescribeNodegroupInput{
		ClusterName:   &clusterName,
		NodegroupName: &name,
	}, c.timeouts.Delete); err != nil {
		return fmt.Errorf("node group %s did not finish deleting: %w", name, err)
	}
	return nil
}

// DeleteCluster removes the EKS control plane and waits for deletion.
func (c *RealClient) DeleteCluster(ctx context.Context, name string) error {
	_, err := c.eks.DeleteCluster(ctx, &eks.DeleteClusterInput{Name: &name})
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete cluster %s: %w", name, err)
	}

	waiter := eks.NewClusterDeletedWaiter(c.eks)
	if err := waiter.Wait(ctx, &eks.DescribeClusterInput{
		Name: &name,
	}, c.timeouts.Delete); err != nil {
		return fmt.Errorf("cluster %s did not finish deleting: %w", name, err)
	}
	return nil
}
