package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// FindByDNSName locates a load balancer by the DNS name Kubernetes reported
// on the Service. The in-cluster controller names load balancers after a
// generated hash, so the DNS name is the only stable join key.
func (c *RealClient) FindByDNSName(ctx context.Context, dnsName string) (*LoadBalancer, error) {
	paginator := elbv2.NewDescribeLoadBalancersPaginator(c.elbv2, &elbv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list load balancers: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			if strings.EqualFold(awssdk.ToString(lb.DNSName), dnsName) {
				return &LoadBalancer{
					ARN:          awssdk.ToString(lb.LoadBalancerArn),
					DNSName:      awssdk.ToString(lb.DNSName),
					HostedZoneID: awssdk.ToString(lb.CanonicalHostedZoneId),
				}, nil
			}
		}
	}
	return nil, fmt.Errorf("no load balancer with DNS name %s", dnsName)
}

// EnsureTLSListener adds a TLS listener terminating with the given
// certificate and forwarding to the target group already served by the
// plain TCP listener.
func (c *RealClient) EnsureTLSListener(ctx context.Context, lbARN, certificateARN string, port int32) error {
	listeners, err := c.elbv2.DescribeListeners(ctx, &elbv2.DescribeListenersInput{
		LoadBalancerArn: &lbARN,
	})
	if err != nil {
		return fmt.Errorf("failed to list listeners on %s: %w", lbARN, err)
	}

	var targetGroupARN string
	for _, l := range listeners.Listeners {
		if awssdk.ToInt32(l.Port) == port {
			return nil
		}
		if l.Protocol == elbv2types.ProtocolEnumTcp && len(l.DefaultActions) > 0 {
			targetGroupARN = awssdk.ToString(l.DefaultActions[0].TargetGroupArn)
		}
	}
	if targetGroupARN == "" {
		return fmt.Errorf("load balancer %s has no TCP listener to forward from", lbARN)
	}

	_, err = c.elbv2.CreateListener(ctx, &elbv2.CreateListenerInput{
		LoadBalancerArn: &lbARN,
		Protocol:        elbv2types.ProtocolEnumTls,
		Port:            &port,
		Certificates: []elbv2types.Certificate{{
			CertificateArn: &certificateARN,
		}},
		DefaultActions: []elbv2types.Action{{
			Type:           elbv2types.ActionTypeEnumForward,
			TargetGroupArn: &targetGroupARN,
		}},
	})
	if err != nil && !IsAlreadyExists(err) {
		return fmt.Errorf("failed to create TLS listener on %s: %w", lbARN, err)
	}
	return nil
}
