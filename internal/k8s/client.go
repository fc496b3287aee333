// Package k8s provides a Kubernetes client wrapper for workload deployment.
package k8s

import (
	"context"
	"fmt"
	"time"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// Client wraps the Kubernetes API operations the provisioning phases need.
type Client interface {
	// Apply applies a multi-document YAML manifest using server-side apply.
	Apply(ctx context.Context, manifest string) error

	// EnsureServiceAccount creates or updates a service account annotated
	// with the IAM role it may assume.
	EnsureServiceAccount(ctx context.Context, namespace, name, roleARN string) error

	// WaitForRollout waits for a deployment to reach its desired replica
	// count.
	WaitForRollout(ctx context.Context, namespace, name string, timeout time.Duration) error

	// ServiceHostname waits for and returns the external hostname of a
	// LoadBalancer service.
	ServiceHostname(ctx context.Context, namespace, name string, timeout time.Duration) (string, error)

	// DeleteNamespace removes a namespace and everything in it.
	DeleteNamespace(ctx context.Context, name string) error
}

type client struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
}

// NewClient creates a Client from kubeconfig bytes. The kubeconfig never
// touches disk; it carries a short-lived bearer token.
func NewClient(kubeconfig []byte) (Client, error) {
	config, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig from bytes: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &client{
		clientset: clientset,
		dynamic:   dynamicClient,
	}, nil
}

// NewFromClients wraps pre-built clients. Used by tests with fakes.
func NewFromClients(clientset kubernetes.Interface, dynamicClient dynamic.Interface) Client {
	return &client{
		clientset: clientset,
		dynamic:   dynamicClient,
	}
}
