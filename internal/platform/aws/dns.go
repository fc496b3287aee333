package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	route53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// UpsertAlias points recordName at the load balancer with a Route 53 alias
// record. UPSERT makes re-runs idempotent.
func (c *RealClient) UpsertAlias(ctx context.Context, hostedZoneID, recordName string, lb *LoadBalancer) error {
	_, err := c.route53.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: &hostedZoneID,
		ChangeBatch: &route53types.ChangeBatch{
			Comment: awssdk.String("managed by ekspress"),
			Changes: []route53types.Change{{
				Action: route53types.ChangeActionUpsert,
				ResourceRecordSet: &route53types.ResourceRecordSet{
					Name: &recordName,
					Type: route53types.RRTypeA,
					AliasTarget: &route53types.AliasTarget{
						HostedZoneId:         &lb.HostedZoneID,
						DNSName:              &lb.DNSName,
						EvaluateTargetHealth: false,
					},
				},
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert alias %s: %w", recordName, err)
	}
	return nil
}
