package k8s

import (
	"context"
	"time"
)

// MockClient is a mock implementation of Client.
type MockClient struct {
	ApplyFunc                func(ctx context.Context, manifest string) error
	EnsureServiceAccountFunc func(ctx context.Context, namespace, name, roleARN string) error
	WaitForRolloutFunc       func(ctx context.Context, namespace, name string, timeout time.Duration) error
	ServiceHostnameFunc      func(ctx context.Context, namespace, name string, timeout time.Duration) (string, error)
	DeleteNamespaceFunc      func(ctx context.Context, name string) error

	// Applied collects every manifest passed to Apply when ApplyFunc is nil.
	Applied []string
}

// Ensure interface compliance
var _ Client = (*MockClient)(nil)

// Apply mocks manifest application.
func (m *MockClient) Apply(ctx context.Context, manifest string) error {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, manifest)
	}
	m.Applied = append(m.Applied, manifest)
	return nil
}

// EnsureServiceAccount mocks service account creation.
func (m *MockClient) EnsureServiceAccount(ctx context.Context, namespace, name, roleARN string) error {
	if m.EnsureServiceAccountFunc != nil {
		return m.EnsureServiceAccountFunc(ctx, namespace, name, roleARN)
	}
	return nil
}

// WaitForRollout mocks rollout waiting.
func (m *MockClient) WaitForRollout(ctx context.Context, namespace, name string, timeout time.Duration) error {
	if m.WaitForRolloutFunc != nil {
		return m.WaitForRolloutFunc(ctx, namespace, name, timeout)
	}
	return nil
}

// ServiceHostname mocks hostname lookup.
func (m *MockClient) ServiceHostname(ctx context.Context, namespace, name string, timeout time.Duration) (string, error) {
	if m.ServiceHostnameFunc != nil {
		return m.ServiceHostnameFunc(ctx, namespace, name, timeout)
	}
	return "mock-lb.elb.amazonaws.com", nil
}

// DeleteNamespace mocks namespace deletion.
func (m *MockClient) DeleteNamespace(ctx context.Context, name string) error {
	if m.DeleteNamespaceFunc != nil {
		return m.DeleteNamespaceFunc(ctx, name)
	}
	return nil
}
