package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// isThrottled checks if an error indicates API rate limiting.
// These errors are retryable.
func isThrottled(err error) bool {
	return isAPIErrorCode(err,
		"Throttling",
		"ThrottlingException",
		"RequestLimitExceeded",
		"TooManyRequestsException",
	)
}

// isRetryable reports whether a delete should be attempted again: the
// resource is busy with a concurrent modification, or the API is rate
// limiting us.
func isRetryable(err error) bool {
	return isConflict(err) || isThrottled(err)
}

// isConflict checks if an error indicates a resource is busy with a
// concurrent modification. These errors are retryable.
func isConflict(err error) bool {
	return isAPIErrorCode(err,
		"ResourceInUseException",
		"DependencyViolation",
		"ConcurrentModificationException",
		"InvalidParameterValue.Duplicate",
	)
}

// IsNotFound checks if an error indicates a missing resource.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err,
		"ResourceNotFoundException",
		"NotFoundException",
		"NoSuchEntity",
		"NoSuchHostedZone",
		"DBInstanceNotFound",
		"RepositoryNotFoundException",
		"ImageNotFoundException",
		"InvalidVpcID.NotFound",
		"InvalidSubnetID.NotFound",
		"InvalidInternetGatewayID.NotFound",
		"InvalidRouteTableID.NotFound",
		"NatGatewayNotFound",
		"LoadBalancerNotFound",
	)
}

// IsAlreadyExists checks if an error indicates the resource already exists.
// Ensure operations treat these as success.
func IsAlreadyExists(err error) bool {
	return isAPIErrorCode(err,
		"ResourceAlreadyExistsException",
		"EntityAlreadyExists",
		"AlreadyExistsException",
		"InvalidPermission.Duplicate",
		"DuplicateListener",
	)
}

// isAPIErrorCode checks if the error is an AWS API error with one of the
// given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		got := apiErr.ErrorCode()
		for _, code := range codes {
			if got == code {
				return true
			}
		}
	}
	return false
}
