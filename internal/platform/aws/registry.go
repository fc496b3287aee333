package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// VerifyImage checks that an ECR image URI resolves to a pushed image, so a
// typo fails the run before any infrastructure is created.
func (c *RealClient) VerifyImage(ctx context.Context, imageURI string) error {
	registryID, repository, tag, err := parseImageURI(imageURI)
	if err != nil {
		return err
	}

	_, err = c.ecr.DescribeImages(ctx, &ecr.DescribeImagesInput{
		RegistryId:     &registryID,
		RepositoryName: &repository,
		ImageIds:       []ecrtypes.ImageIdentifier{{ImageTag: &tag}},
	})
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("image %s not found in ECR; push it before deploying: %w", imageURI, err)
		}
		return fmt.Errorf("failed to verify image %s: %w", imageURI, err)
	}
	return nil
}

// parseImageURI splits an ECR URI of the form
// <account>.dkr.ecr.<region>.amazonaws.com/<repository>:<tag>.
func parseImageURI(imageURI string) (registryID, repository, tag string, err error) {
	host, rest, ok := strings.Cut(imageURI, "/")
	if !ok {
		return "", "", "", fmt.Errorf("image %q is not an ECR URI", imageURI)
	}
	registryID, _, ok = strings.Cut(host, ".dkr.ecr.")
	if !ok {
		return "", "", "", fmt.Errorf("image %q is not an ECR URI", imageURI)
	}
	repository, tag, ok = strings.Cut(rest, ":")
	if !ok {
		tag = "latest"
	}
	return registryID, repository, tag, nil
}
