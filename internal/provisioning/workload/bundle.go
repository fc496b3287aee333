// Package workload installs the secrets CSI driver and deploys the manifest
// bundle into the cluster.
package workload

import (
	"errors"

	"github.com/kallt/ekspress/internal/manifest"
	"github.com/kallt/ekspress/internal/provisioning"
	"github.com/kallt/ekspress/internal/util/naming"
)

// buildBundle generates the manifest bundle from config and state.
func buildBundle(ctx *provisioning.Context) (*manifest.Bundle, error) {
	if ctx.State.SecretARN == "" {
		return nil, errors.New("secret ARN missing; service-account step must run first")
	}

	return manifest.Build(manifest.Inputs{
		Namespace:      ctx.Config.Namespace,
		AppName:        ctx.Config.AppName(),
		Image:          ctx.Config.Image,
		Replicas:       int32(ctx.Config.Replicas),
		ServiceAccount: naming.ServiceAccount(ctx.Config.AppName()),
		SecretARN:      ctx.State.SecretARN,
		SecretAlias:    ctx.Config.Secret.Alias,
		MountPath:      ctx.Config.Secret.MountPath,
	})
}
