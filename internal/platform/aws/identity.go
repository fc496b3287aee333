package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/kallt/ekspress/internal/util/naming"
)

// Managed policies attached to the node role so kubelets can join the
// cluster, configure pod networking, and pull from ECR.
var nodeRolePolicies = []string{
	"arn:aws:iam::aws:policy/AmazonEKSWorkerNodePolicy",
	"arn:aws:iam::aws:policy/AmazonEKS_CNI_Policy",
	"arn:aws:iam::aws:policy/AmazonEC2ContainerRegistryReadOnly",
}

const clusterRolePolicy = "arn:aws:iam::aws:policy/AmazonEKSClusterPolicy"

// oidcRootCAThumbprint is ignored by IAM for issuers backed by trusted
// certificate authorities, but the API still requires a value.
const oidcRootCAThumbprint = "9e99a48a9960b14926bb7f3b02e22da2b0ab7280"

// AccountID returns the caller's AWS account ID.
func (c *RealClient) AccountID(ctx context.Context) (string, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return awssdk.ToString(out.Account), nil
}

// EnsureClusterRole creates the role the EKS control plane assumes.
func (c *RealClient) EnsureClusterRole(ctx context.Context, clusterName string, tagMap map[string]string) (string, error) {
	trust := servicePrincipalTrust("eks.amazonaws.com")
	arn, err := c.ensureRole(ctx, naming.ClusterRole(clusterName), trust, tagMap)
	if err != nil {
		return "", err
	}
	if err := c.attachPolicy(ctx, naming.ClusterRole(clusterName), clusterRolePolicy); err != nil {
		return "", err
	}
	return arn, nil
}

// EnsureNodeRole creates the role the managed node group assumes.
func (c *RealClient) EnsureNodeRole(ctx context.Context, clusterName string, tagMap map[string]string) (string, error) {
	trust := servicePrincipalTrust("ec2.amazonaws.com")
	arn, err := c.ensureRole(ctx, naming.NodeRole(clusterName), trust, tagMap)
	if err != nil {
		return "", err
	}
	for _, policy := range nodeRolePolicies {
		if err := c.attachPolicy(ctx, naming.NodeRole(clusterName), policy); err != nil {
			return "", err
		}
	}
	return arn, nil
}

// EnsureOIDCProvider registers the cluster's OIDC issuer with IAM so service
// accounts can assume roles via web identity federation.
func (c *RealClient) EnsureOIDCProvider(ctx context.Context, issuerURL string, tagMap map[string]string) (string, error) {
	out, err := c.iam.CreateOpenIDConnectProvider(ctx, &iam.CreateOpenIDConnectProviderInput{
		Url:            &issuerURL,
		ClientIDList:   []string{"sts.amazonaws.com"},
		ThumbprintList: []string{oidcRootCAThumbprint},
		Tags:           iamTags(tagMap),
	})
	if err == nil {
		return awssdk.ToString(out.OpenIDConnectProviderArn), nil
	}
	if !IsAlreadyExists(err) {
		return "", fmt.Errorf("failed to create OIDC provider for %s: %w", issuerURL, err)
	}

	// Provider exists; its ARN is derived from the account and issuer host
	// path.
	accountID, err := c.AccountID(ctx)
	if err != nil {
		return "", err
	}
	return oidcProviderARN(accountID, issuerURL), nil
}

// EnsureSecretAccessRole creates the IRSA role trusted by exactly one
// service account, with an inline policy granting read access to exactly one
// secret.
func (c *RealClient) EnsureSecretAccessRole(ctx context.Context, opts SecretRoleOpts) (string, error) {
	trust, err := irsaTrustPolicy(opts)
	if err != nil {
		return "", err
	}

	roleName := naming.SecretAccessRole(opts.ClusterName)
	arn, err := c.ensureRole(ctx, roleName, trust, opts.Tags)
	if err != nil {
		return "", err
	}

	policy, err := secretReadPolicy(opts.SecretARN)
	if err != nil {
		return "", err
	}
	if _, err := c.iam.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       &roleName,
		PolicyName:     awssdk.String(naming.SecretAccessPolicy(opts.ClusterName)),
		PolicyDocument: &policy,
	}); err != nil {
		return "", fmt.Errorf("failed to attach secret policy to %s: %w", roleName, err)
	}

	return arn, nil
}

// DeleteSecretAccessRole removes the IRSA role and its inline policy.
func (c *RealClient) DeleteSecretAccessRole(ctx context.Context, clusterName string) error {
	roleName := naming.SecretAccessRole(clusterName)
	if _, err := c.iam.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
		RoleName:   &roleName,
		PolicyName: awssdk.String(naming.SecretAccessPolicy(clusterName)),
	}); err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete secret policy from %s: %w", roleName, err)
	}
	return c.deleteRole(ctx, roleName, nil)
}

// DeleteClusterRoles removes the control plane and node roles.
func (c *RealClient) DeleteClusterRoles(ctx context.Context, clusterName string) error {
	if err := c.deleteRole(ctx, naming.ClusterRole(clusterName), []string{clusterRolePolicy}); err != nil {
		return err
	}
	return c.deleteRole(ctx, naming.NodeRole(clusterName), nodeRolePolicies)
}

func (c *RealClient) ensureRole(ctx context.Context, name, trustPolicy string, tagMap map[string]string) (string, error) {
	out, err := c.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 &name,
		AssumeRolePolicyDocument: &trustPolicy,
		Tags:                     iamTags(tagMap),
	})
	if err == nil {
		return awssdk.ToString(out.Role.Arn), nil
	}
	if !IsAlreadyExists(err) {
		return "", fmt.Errorf("failed to create role %s: %w", name, err)
	}

	existing, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: &name})
	if err != nil {
		return "", fmt.Errorf("failed to get role %s: %w", name, err)
	}
	// Keep the trust policy current so a re-run after a cluster rebuild
	// picks up the new OIDC provider.
	if _, err := c.iam.UpdateAssumeRolePolicy(ctx, &iam.UpdateAssumeRolePolicyInput{
		RoleName:       &name,
		PolicyDocument: &trustPolicy,
	}); err != nil {
		return "", fmt.Errorf("failed to update trust policy on %s: %w", name, err)
	}
	return awssdk.ToString(existing.Role.Arn), nil
}

func (c *RealClient) attachPolicy(ctx context.Context, roleName, policyARN string) error {
	if _, err := c.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  &roleName,
		PolicyArn: &policyARN,
	}); err != nil && !IsAlreadyExists(err) {
		return fmt.Errorf("failed to attach %s to %s: %w", policyARN, roleName, err)
	}
	return nil
}

func (c *RealClient) deleteRole(ctx context.Context, name string, managedPolicies []string) error {
	for _, policy := range managedPolicies {
		if _, err := c.iam.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
			RoleName:  &name,
			PolicyArn: &policy,
		}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to detach %s from %s: %w", policy, name, err)
		}
	}
	if _, err := c.iam.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: &name}); err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete role %s: %w", name, err)
	}
	return nil
}

// policyDocument is the subset of the IAM policy grammar ekspress emits.
type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string            `json:"Effect"`
	Principal map[string]string `json:"Principal,omitempty"`
	Action    []string          `json:"Action"`
	Resource  []string          `json:"Resource,omitempty"`
	Condition map[string]any    `json:"Condition,omitempty"`
}

func servicePrincipalTrust(service string) string {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string]string{"Service": service},
			Action:    []string{"sts:AssumeRole"},
		}},
	}
	raw, _ := json.Marshal(doc)
	return string(raw)
}

// irsaTrustPolicy trusts only the one service account, pinned by subject and
// audience conditions on the OIDC token.
func irsaTrustPolicy(opts SecretRoleOpts) (string, error) {
	issuerHost := strings.TrimPrefix(opts.OIDCIssuer, "https://")
	if issuerHost == "" || issuerHost == opts.OIDCIssuer {
		return "", fmt.Errorf("invalid OIDC issuer %q", opts.OIDCIssuer)
	}

	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string]string{"Federated": oidcProviderARN(opts.AccountID, opts.OIDCIssuer)},
			Action:    []string{"sts:AssumeRoleWithWebIdentity"},
			Condition: map[string]any{
				"StringEquals": map[string]string{
					issuerHost + ":sub": fmt.Sprintf("system:serviceaccount:%s:%s", opts.Namespace, opts.ServiceAccount),
					issuerHost + ":aud": "sts.amazonaws.com",
				},
			},
		}},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal trust policy: %w", err)
	}
	return string(raw), nil
}

func secretReadPolicy(secretARN string) (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:   "Allow",
			Action:   []string{"secretsmanager:GetSecretValue", "secretsmanager:DescribeSecret"},
			Resource: []string{secretARN},
		}},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal secret policy: %w", err)
	}
	return string(raw), nil
}

func oidcProviderARN(accountID, issuerURL string) string {
	return fmt.Sprintf("arn:aws:iam::%s:oidc-provider/%s", accountID, strings.TrimPrefix(issuerURL, "https://"))
}

func iamTags(tagMap map[string]string) []iamtypes.Tag {
	out := make([]iamtypes.Tag, 0, len(tagMap))
	for k, v := range tagMap {
		out = append(out, iamtypes.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}
