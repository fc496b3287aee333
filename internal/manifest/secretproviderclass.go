package manifest

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SecretProviderClass group/version/kind served by the Secrets Store CSI driver.
const (
	SecretsStoreGroup     = "secrets-store.csi.x-k8s.io"
	SecretsStoreVersion   = "v1"
	SecretProviderKind    = "SecretProviderClass"
	secretsStoreCSIDriver = "secrets-store.csi.k8s.io"
)

// SecretProviderClass binds a Secrets Manager object to a mountable volume.
// Only the fields the AWS provider consumes are modelled.
type SecretProviderClass struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec SecretProviderClassSpec `json:"spec"`
}

// SecretProviderClassSpec selects the provider and its parameters.
type SecretProviderClassSpec struct {
	// Provider is the secrets store provider name; always "aws" here.
	Provider string `json:"provider"`

	// Parameters carries the provider-specific object list.
	Parameters SecretProviderParameters `json:"parameters"`
}

// SecretProviderParameters holds the AWS provider parameters.
//
// The AWS provider expects `objects` as a YAML string, not a nested list,
// so Objects is serialized before being placed here.
type SecretProviderParameters struct {
	Objects string `json:"objects"`
}

// SecretObject describes one Secrets Manager entry to mount.
type SecretObject struct {
	// ObjectName is the secret ARN (or name, for same-account access).
	ObjectName string `json:"objectName" yaml:"objectName"`

	// ObjectAlias is the filename the secret appears as in the volume.
	ObjectAlias string `json:"objectAlias" yaml:"objectAlias"`
}
