package aws

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// tokenPrefix marks an EKS bearer token as a presigned STS request, per the
// aws-iam-authenticator wire format.
const tokenPrefix = "k8s-aws-v1."

// clusterIDHeader binds the presigned request to one cluster so a token
// cannot be replayed against another.
const clusterIDHeader = "x-k8s-aws-id"

// bearerToken presigns an STS GetCallerIdentity call and encodes it as the
// token the EKS API server verifies.
func (c *RealClient) bearerToken(ctx context.Context, clusterName string) (string, error) {
	presigner := sts.NewPresignClient(c.sts)
	out, err := presigner.PresignGetCallerIdentity(ctx, &sts.GetCallerIdentityInput{},
		func(po *sts.PresignOptions) {
			po.ClientOptions = append(po.ClientOptions, sts.WithAPIOptions(func(stack *middleware.Stack) error {
				return stack.Build.Add(middleware.BuildMiddlewareFunc("AddClusterIDHeader",
					func(ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler) (middleware.BuildOutput, middleware.Metadata, error) {
						if req, ok := in.Request.(*smithyhttp.Request); ok {
							req.Header.Set(clusterIDHeader, clusterName)
							req.Header.Set("X-Amz-Expires", "900")
						}
						return next.HandleBuild(ctx, in)
					}), middleware.Before)
			}))
		})
	if err != nil {
		return "", fmt.Errorf("failed to presign STS token for %s: %w", clusterName, err)
	}
	return tokenPrefix + base64.RawURLEncoding.EncodeToString([]byte(out.URL)), nil
}

// Kubeconfig builds in-memory client credentials for the cluster. The
// embedded bearer token is valid for 15 minutes, long enough for one
// provisioning run.
func (c *RealClient) Kubeconfig(ctx context.Context, clusterName string) ([]byte, error) {
	cluster, err := c.describeCluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	token, err := c.bearerToken(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	kcfg := clientcmdapi.NewConfig()
	kcfg.Clusters[clusterName] = &clientcmdapi.Cluster{
		Server:                   cluster.Endpoint,
		CertificateAuthorityData: cluster.CertificateAuthority,
	}
	kcfg.AuthInfos[clusterName] = &clientcmdapi.AuthInfo{
		Token: token,
	}
	kcfg.Contexts[clusterName] = &clientcmdapi.Context{
		Cluster:  clusterName,
		AuthInfo: clusterName,
	}
	kcfg.CurrentContext = clusterName

	raw, err := clientcmd.Write(*kcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize kubeconfig for %s: %w", clusterName, err)
	}
	return raw, nil
}
