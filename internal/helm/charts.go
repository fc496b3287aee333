package helm

// KubeSystemNamespace is where the CSI driver stack is installed.
const KubeSystemNamespace = "kube-system"

// SecretsStoreCSIDriver is the upstream secrets-store CSI driver chart.
func SecretsStoreCSIDriver() Chart {
	return Chart{
		ReleaseName: "secrets-store-csi-driver",
		RepoURL:     "https://kubernetes-sigs.github.io/secrets-store-csi-driver/charts",
		Name:        "secrets-store-csi-driver",
		Values: map[string]interface{}{
			"syncSecret": map[string]interface{}{
				"enabled": true,
			},
		},
	}
}

// AWSSecretsProvider is the AWS provider plugin that teaches the CSI driver
// to fetch from Secrets Manager.
func AWSSecretsProvider() Chart {
	return Chart{
		ReleaseName: "secrets-provider-aws",
		RepoURL:     "https://aws.github.io/secrets-store-csi-driver-provider-aws",
		Name:        "secrets-store-csi-driver-provider-aws",
	}
}
