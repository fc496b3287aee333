package provisioning

import (
	"context"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/helm"
	"github.com/kallt/ekspress/internal/k8s"
	"github.com/kallt/ekspress/internal/platform/aws"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Infrastructure results
	Network *aws.Network

	// Cluster results
	Cluster         *aws.Cluster
	Kubeconfig      []byte
	AccountID       string
	ClusterRoleARN  string
	NodeRoleARN     string
	OIDCProviderARN string

	// Identity results
	SecretARN     string
	SecretRoleARN string

	// Exposure results
	LoadBalancerHostname string
	LoadBalancer         *aws.LoadBalancer
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Cloud    aws.CloudManager
	Observer Observer
	Timeouts *config.Timeouts

	// Factory functions for cluster-side clients. Phases call these after
	// the kubeconfig exists; tests replace them with fakes.
	NewKubeClient func(kubeconfig []byte) (k8s.Client, error)
	NewHelmClient func(kubeconfig []byte, namespace string) (helm.Client, error)
}

// NewContext creates a new provisioning context with real cluster-side
// client factories.
func NewContext(ctx context.Context, cfg *config.Config, cloud aws.CloudManager) *Context {
	return &Context{
		Context:       ctx,
		Config:        cfg,
		State:         NewState(),
		Cloud:         cloud,
		Observer:      NewConsoleObserver(),
		Timeouts:      config.LoadTimeouts(),
		NewKubeClient: k8s.NewClient,
		NewHelmClient: helm.NewClient,
	}
}

// KubeClient builds a cluster-side client from the kubeconfig stored in
// state.
func (c *Context) KubeClient() (k8s.Client, error) {
	return c.NewKubeClient(c.State.Kubeconfig)
}

// HelmClient builds a helm client scoped to the given namespace from the
// kubeconfig stored in state.
func (c *Context) HelmClient(namespace string) (helm.Client, error) {
	return c.NewHelmClient(c.State.Kubeconfig, namespace)
}
