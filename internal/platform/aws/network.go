package aws

import (
	"context"
	"fmt"
	"net"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/kallt/ekspress/internal/util/naming"
	"github.com/kallt/ekspress/internal/util/retry"
	"github.com/kallt/ekspress/internal/util/tags"
)

// The VPC is carved into /20 subnets: two public (for the NLB and NAT
// gateway) and two private (for the nodes), spread over two availability
// zones the way the EKS networking requirements prescribe.
const (
	publicSubnetCount  = 2
	privateSubnetCount = 2

	// Subnet role tags consumed by the in-cluster load balancer controller.
	tagKeyELB         = "kubernetes.io/role/elb"
	tagKeyInternalELB = "kubernetes.io/role/internal-elb"
)

// EnsureNetwork creates or finds the full VPC tier.
func (c *RealClient) EnsureNetwork(ctx context.Context, clusterName string, opts NetworkOpts) (*Network, error) {
	vpcID, err := c.ensureVPC(ctx, clusterName, opts)
	if err != nil {
		return nil, err
	}

	zones, err := c.availabilityZones(ctx)
	if err != nil {
		return nil, err
	}

	public, private, err := c.ensureSubnets(ctx, clusterName, vpcID, opts.CIDR, zones)
	if err != nil {
		return nil, err
	}

	igwID, err := c.ensureInternetGateway(ctx, clusterName, vpcID)
	if err != nil {
		return nil, err
	}

	natID, err := c.ensureNATGateway(ctx, clusterName, public[0])
	if err != nil {
		return nil, err
	}

	if err := c.ensureRouting(ctx, clusterName, vpcID, igwID, natID, public, private); err != nil {
		return nil, err
	}

	return &Network{
		VpcID:            vpcID,
		PublicSubnetIDs:  public,
		PrivateSubnetIDs: private,
	}, nil
}

func (c *RealClient) ensureVPC(ctx context.Context, clusterName string, opts NetworkOpts) (string, error) {
	existing, err := c.findVPC(ctx, clusterName)
	if err != nil {
		return "", err
	}
	if existing != "" {
		return existing, nil
	}

	vpcTags := tags.NewBuilder(clusterName).
		WithName(naming.VPC(clusterName)).
		WithRole(tags.RoleNetwork).
		Merge(opts.Tags).
		Build()

	out, err := c.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         awssdk.String(opts.CIDR),
		TagSpecifications: tagSpec(ec2types.ResourceTypeVpc, vpcTags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create VPC: %w", err)
	}
	vpcID := awssdk.ToString(out.Vpc.VpcId)

	// EKS requires DNS support and hostnames on the cluster VPC.
	for _, attr := range []ec2.ModifyVpcAttributeInput{
		{VpcId: &vpcID, EnableDnsSupport: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)}},
		{VpcId: &vpcID, EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)}},
	} {
		if _, err := c.ec2.ModifyVpcAttribute(ctx, &attr); err != nil {
			return "", fmt.Errorf("failed to set VPC attributes: %w", err)
		}
	}

	return vpcID, nil
}

func (c *RealClient) findVPC(ctx context.Context, clusterName string) (string, error) {
	out, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: clusterFilter(clusterName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe VPCs: %w", err)
	}
	if len(out.Vpcs) == 0 {
		return "", nil
	}
	return awssdk.ToString(out.Vpcs[0].VpcId), nil
}

func (c *RealClient) availabilityZones(ctx context.Context) ([]string, error) {
	out, err := c.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("state"),
			Values: []string{"available"},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe availability zones: %w", err)
	}
	if len(out.AvailabilityZones) < 2 {
		return nil, fmt.Errorf("region %s has fewer than two availability zones", c.region)
	}

	zones := make([]string, 0, 2)
	for _, az := range out.AvailabilityZones[:2] {
		zones = append(zones, awssdk.ToString(az.ZoneName))
	}
	return zones, nil
}

func (c *RealClient) ensureSubnets(ctx context.Context, clusterName, vpcID, vpcCIDR string, zones []string) (public, private []string, err error) {
	for i := 0; i < publicSubnetCount; i++ {
		name := naming.PublicSubnet(clusterName, i)
		extra := map[string]string{tagKeyELB: "1"}
		id, err := c.ensureSubnet(ctx, clusterName, vpcID, name, zones[i%len(zones)], subnetBlock(vpcCIDR, i), extra)
		if err != nil {
			return nil, nil, err
		}
		// Public subnets hand out public IPs so the NAT gateway and NLB
		// targets are reachable.
		if _, err := c.ec2.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            &id,
			MapPublicIpOnLaunch: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)},
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to enable public IPs on subnet %s: %w", name, err)
		}
		public = append(public, id)
	}

	for i := 0; i < privateSubnetCount; i++ {
		name := naming.PrivateSubnet(clusterName, i)
		extra := map[string]string{tagKeyInternalELB: "1"}
		id, err := c.ensureSubnet(ctx, clusterName, vpcID, name, zones[i%len(zones)], subnetBlock(vpcCIDR, publicSubnetCount+i), extra)
		if err != nil {
			return nil, nil, err
		}
		private = append(private, id)
	}

	return public, private, nil
}

func (c *RealClient) ensureSubnet(ctx context.Context, clusterName, vpcID, name, zone, cidr string, extra map[string]string) (string, error) {
	out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: append(clusterFilter(clusterName), ec2types.Filter{
			Name:   awssdk.String("tag:Name"),
			Values: []string{name},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe subnets: %w", err)
	}
	if len(out.Subnets) > 0 {
		return awssdk.ToString(out.Subnets[0].SubnetId), nil
	}

	subnetTags := tags.NewBuilder(clusterName).
		WithName(name).
		WithRole(tags.RoleNetwork).
		Merge(extra).
		Build()

	created, err := c.ec2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             &vpcID,
		AvailabilityZone:  &zone,
		CidrBlock:         &cidr,
		TagSpecifications: tagSpec(ec2types.ResourceTypeSubnet, subnetTags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create subnet %s: %w", name, err)
	}
	return awssdk.ToString(created.Subnet.SubnetId), nil
}

func (c *RealClient) ensureInternetGateway(ctx context.Context, clusterName, vpcID string) (string, error) {
	out, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{
		Filters: clusterFilter(clusterName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe internet gateways: %w", err)
	}
	if len(out.InternetGateways) > 0 {
		return awssdk.ToString(out.InternetGateways[0].InternetGatewayId), nil
	}

	igwTags := tags.NewBuilder(clusterName).
		WithName(naming.InternetGateway(clusterName)).
		WithRole(tags.RoleNetwork).
		Build()

	created, err := c.ec2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
		TagSpecifications: tagSpec(ec2types.ResourceTypeInternetGateway, igwTags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create internet gateway: %w", err)
	}
	igwID := awssdk.ToString(created.InternetGateway.InternetGatewayId)

	if _, err := c.ec2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		InternetGatewayId: &igwID,
		VpcId:             &vpcID,
	}); err != nil && !IsAlreadyExists(err) {
		return "", fmt.Errorf("failed to attach internet gateway: %w", err)
	}

	return igwID, nil
}

func (c *RealClient) ensureNATGateway(ctx context.Context, clusterName, publicSubnetID string) (string, error) {
	existing, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
		Filter: append(clusterFilter(clusterName), ec2types.Filter{
			Name:   awssdk.String("state"),
			Values: []string{"pending", "available"},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe NAT gateways: %w", err)
	}
	if len(existing.NatGateways) > 0 {
		return awssdk.ToString(existing.NatGateways[0].NatGatewayId), nil
	}

	natTags := tags.NewBuilder(clusterName).
		WithName(naming.NATGateway(clusterName)).
		WithRole(tags.RoleNetwork).
		Build()

	eip, err := c.ec2.AllocateAddress(ctx, &ec2.AllocateAddressInput{
		Domain:            ec2types.DomainTypeVpc,
		TagSpecifications: tagSpec(ec2types.ResourceTypeElasticIp, natTags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate elastic IP: %w", err)
	}

	created, err := c.ec2.CreateNatGateway(ctx, &ec2.CreateNatGatewayInput{
		SubnetId:          &publicSubnetID,
		AllocationId:      eip.AllocationId,
		TagSpecifications: tagSpec(ec2types.ResourceTypeNatgateway, natTags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create NAT gateway: %w", err)
	}
	natID := awssdk.ToString(created.NatGateway.NatGatewayId)

	waiter := ec2.NewNatGatewayAvailableWaiter(c.ec2)
	if err := waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{
		NatGatewayIds: []string{natID},
	}, c.timeouts.NATGateway); err != nil {
		return "", fmt.Errorf("NAT gateway %s did not become available: %w", natID, err)
	}

	return natID, nil
}

func (c *RealClient) ensureRouting(ctx context.Context, clusterName, vpcID, igwID, natID string, public, private []string) error {
	publicRT, err := c.ensureRouteTable(ctx, clusterName, vpcID, naming.PublicRouteTable(clusterName))
	if err != nil {
		return err
	}
	if err := c.ensureRoute(ctx, publicRT, &ec2.CreateRouteInput{
		RouteTableId:         &publicRT,
		DestinationCidrBlock: awssdk.String("0.0.0.0/0"),
		GatewayId:            &igwID,
	}); err != nil {
		return err
	}
	for _, subnetID := range public {
		if err := c.associateRouteTable(ctx, publicRT, subnetID); err != nil {
			return err
		}
	}

	privateRT, err := c.ensureRouteTable(ctx, clusterName, vpcID, naming.PrivateRouteTable(clusterName))
	if err != nil {
		return err
	}
	if err := c.ensureRoute(ctx, privateRT, &ec2.CreateRouteInput{
		RouteTableId:         &privateRT,
		DestinationCidrBlock: awssdk.String("0.0.0.0/0"),
		NatGatewayId:         &natID,
	}); err != nil {
		return err
	}
	for _, subnetID := range private {
		if err := c.associateRouteTable(ctx, privateRT, subnetID); err != nil {
			return err
		}
	}

	return nil
}

func (c *RealClient) ensureRouteTable(ctx context.Context, clusterName, vpcID, name string) (string, error) {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		Filters: append(clusterFilter(clusterName), ec2types.Filter{
			Name:   awssdk.String("tag:Name"),
			Values: []string{name},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe route tables: %w", err)
	}
	if len(out.RouteTables) > 0 {
		return awssdk.ToString(out.RouteTables[0].RouteTableId), nil
	}

	rtTags := tags.NewBuilder(clusterName).
		WithName(name).
		WithRole(tags.RoleNetwork).
		Build()

	created, err := c.ec2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
		VpcId:             &vpcID,
		TagSpecifications: tagSpec(ec2types.ResourceTypeRouteTable, rtTags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create route table %s: %w", name, err)
	}
	return awssdk.ToString(created.RouteTable.RouteTableId), nil
}

func (c *RealClient) ensureRoute(ctx context.Context, routeTableID string, input *ec2.CreateRouteInput) error {
	if _, err := c.ec2.CreateRoute(ctx, input); err != nil && !IsAlreadyExists(err) && !isRouteExists(err) {
		return fmt.Errorf("failed to create route in %s: %w", routeTableID, err)
	}
	return nil
}

func (c *RealClient) associateRouteTable(ctx context.Context, routeTableID, subnetID string) error {
	if _, err := c.ec2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
		RouteTableId: &routeTableID,
		SubnetId:     &subnetID,
	}); err != nil && !IsAlreadyExists(err) && !isAPIErrorCode(err, "Resource.AlreadyAssociated") {
		return fmt.Errorf("failed to associate route table %s with subnet %s: %w", routeTableID, subnetID, err)
	}
	return nil
}

// AuthorizeIngress opens port from sourceSecurityGroupID to securityGroupID.
func (c *RealClient) AuthorizeIngress(ctx context.Context, securityGroupID, sourceSecurityGroupID string, port int32) error {
	_, err := c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId: &securityGroupID,
		IpPermissions: []ec2types.IpPermission{{
			IpProtocol: awssdk.String("tcp"),
			FromPort:   awssdk.Int32(port),
			ToPort:     awssdk.Int32(port),
			UserIdGroupPairs: []ec2types.UserIdGroupPair{{
				GroupId: &sourceSecurityGroupID,
			}},
		}},
	})
	if err != nil && !IsAlreadyExists(err) {
		return fmt.Errorf("failed to authorize ingress on %s: %w", securityGroupID, err)
	}
	return nil
}

// DeleteNetwork tears the VPC tier down in dependency order.
func (c *RealClient) DeleteNetwork(ctx context.Context, clusterName string) error {
	vpcID, err := c.findVPC(ctx, clusterName)
	if err != nil {
		return err
	}
	if vpcID == "" {
		return nil
	}

	if err := c.deleteNATGateways(ctx, clusterName); err != nil {
		return err
	}
	if err := c.releaseAddresses(ctx, clusterName); err != nil {
		return err
	}
	if err := c.deleteSubnets(ctx, clusterName); err != nil {
		return err
	}
	if err := c.deleteRouteTables(ctx, clusterName); err != nil {
		return err
	}
	if err := c.deleteInternetGateways(ctx, clusterName, vpcID); err != nil {
		return err
	}

	return retry.Do(ctx, func() error {
		_, err := c.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: &vpcID})
		if err == nil || IsNotFound(err) {
			return nil
		}
		if isRetryable(err) {
			return err
		}
		return retry.Permanent(err)
	}, retry.WithMaxAttempts(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
}

func (c *RealClient) deleteNATGateways(ctx context.Context, clusterName string) error {
	out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
		Filter: clusterFilter(clusterName),
	})
	if err != nil {
		return fmt.Errorf("failed to describe NAT gateways: %w", err)
	}

	for _, nat := range out.NatGateways {
		if nat.State == ec2types.NatGatewayStateDeleted || nat.State == ec2types.NatGatewayStateDeleting {
			continue
		}
		natID := awssdk.ToString(nat.NatGatewayId)
		if _, err := c.ec2.DeleteNatGateway(ctx, &ec2.DeleteNatGatewayInput{NatGatewayId: &natID}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to delete NAT gateway %s: %w", natID, err)
		}

		waiter := ec2.NewNatGatewayDeletedWaiter(c.ec2)
		if err := waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{
			NatGatewayIds: []string{natID},
		}, c.timeouts.Delete); err != nil {
			return fmt.Errorf("NAT gateway %s did not finish deleting: %w", natID, err)
		}
	}
	return nil
}

func (c *RealClient) releaseAddresses(ctx context.Context, clusterName string) error {
	out, err := c.ec2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{
		Filters: clusterFilter(clusterName),
	})
	if err != nil {
		return fmt.Errorf("failed to describe addresses: %w", err)
	}
	for _, addr := range out.Addresses {
		if _, err := c.ec2.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{
			AllocationId: addr.AllocationId,
		}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to release address: %w", err)
		}
	}
	return nil
}

func (c *RealClient) deleteSubnets(ctx context.Context, clusterName string) error {
	out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: clusterFilter(clusterName),
	})
	if err != nil {
		return fmt.Errorf("failed to describe subnets: %w", err)
	}
	for _, subnet := range out.Subnets {
		subnetID := awssdk.ToString(subnet.SubnetId)
		err := retry.Do(ctx, func() error {
			_, err := c.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: &subnetID})
			if err == nil || IsNotFound(err) {
				return nil
			}
			if isRetryable(err) {
				return err
			}
			return retry.Permanent(err)
		}, retry.WithMaxAttempts(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
		if err != nil {
			return fmt.Errorf("failed to delete subnet %s: %w", subnetID, err)
		}
	}
	return nil
}

func (c *RealClient) deleteRouteTables(ctx context.Context, clusterName string) error {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		Filters: clusterFilter(clusterName),
	})
	if err != nil {
		return fmt.Errorf("failed to describe route tables: %w", err)
	}
	for _, rt := range out.RouteTables {
		for _, assoc := range rt.Associations {
			if awssdk.ToBool(assoc.Main) {
				continue
			}
			if _, err := c.ec2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
				AssociationId: assoc.RouteTableAssociationId,
			}); err != nil && !IsNotFound(err) {
				return fmt.Errorf("failed to disassociate route table: %w", err)
			}
		}
		if _, err := c.ec2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{
			RouteTableId: rt.RouteTableId,
		}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to delete route table: %w", err)
		}
	}
	return nil
}

func (c *RealClient) deleteInternetGateways(ctx context.Context, clusterName, vpcID string) error {
	out, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{
		Filters: clusterFilter(clusterName),
	})
	if err != nil {
		return fmt.Errorf("failed to describe internet gateways: %w", err)
	}
	for _, igw := range out.InternetGateways {
		igwID := awssdk.ToString(igw.InternetGatewayId)
		if _, err := c.ec2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
			InternetGatewayId: &igwID,
			VpcId:             &vpcID,
		}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to detach internet gateway %s: %w", igwID, err)
		}
		if _, err := c.ec2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{
			InternetGatewayId: &igwID,
		}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to delete internet gateway %s: %w", igwID, err)
		}
	}
	return nil
}

// isRouteExists covers the EC2-specific duplicate-route code.
func isRouteExists(err error) bool {
	return isAPIErrorCode(err, "RouteAlreadyExists")
}

// clusterFilter selects resources tagged as belonging to the deployment.
func clusterFilter(clusterName string) []ec2types.Filter {
	key, value := tags.ClusterFilter(clusterName)
	return []ec2types.Filter{{
		Name:   awssdk.String("tag:" + key),
		Values: []string{value},
	}}
}

// tagSpec converts a tag map into an EC2 tag specification.
func tagSpec(resourceType ec2types.ResourceType, tagMap map[string]string) []ec2types.TagSpecification {
	ec2Tags := make([]ec2types.Tag, 0, len(tagMap))
	for k, v := range tagMap {
		ec2Tags = append(ec2Tags, ec2types.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return []ec2types.TagSpecification{{
		ResourceType: resourceType,
		Tags:         ec2Tags,
	}}
}

// subnetBlock carves the nth /20 block out of a /16 VPC CIDR.
func subnetBlock(vpcCIDR string, index int) string {
	_, network, err := net.ParseCIDR(vpcCIDR)
	if err != nil {
		return vpcCIDR
	}
	ip := network.IP.To4()
	if ip == nil {
		return vpcCIDR
	}
	return fmt.Sprintf("%d.%d.%d.0/20", ip[0], ip[1], int(ip[2])+index*16)
}
