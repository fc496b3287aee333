// Package helm installs charts into the cluster over an in-memory
// kubeconfig, without shelling out to the helm binary.
package helm

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

const installTimeout = 5 * time.Minute

// Chart identifies a chart to install and its values.
type Chart struct {
	ReleaseName string
	RepoURL     string
	Name        string
	Version     string
	Values      map[string]interface{}
}

// Client installs or upgrades charts in one namespace.
type Client interface {
	InstallOrUpgrade(ctx context.Context, chart Chart) error
}

type client struct {
	settings  *cli.EnvSettings
	getter    *restClientGetter
	namespace string
}

// NewClient creates a helm client scoped to a namespace from kubeconfig
// bytes.
func NewClient(kubeconfig []byte, namespace string) (Client, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create rest config: %w", err)
	}

	return &client{
		settings: cli.New(),
		getter: &restClientGetter{
			config:    restConfig,
			namespace: namespace,
		},
		namespace: namespace,
	}, nil
}

// InstallOrUpgrade installs the chart, or upgrades it when the release
// already exists.
func (c *client) InstallOrUpgrade(ctx context.Context, chart Chart) error {
	actionConfig := new(action.Configuration)
	if err := actionConfig.Init(c.getter, c.namespace, os.Getenv("HELM_DRIVER"), log.Printf); err != nil {
		return fmt.Errorf("failed to init helm action config: %w", err)
	}

	cp := &action.ChartPathOptions{
		RepoURL: chart.RepoURL,
		Version: chart.Version,
	}
	chartPath, err := cp.LocateChart(chart.Name, c.settings)
	if err != nil {
		return fmt.Errorf("failed to locate chart %s: %w", chart.Name, err)
	}

	loaded, err := loader.Load(chartPath)
	if err != nil {
		return fmt.Errorf("failed to load chart %s: %w", chart.Name, err)
	}

	hist := action.NewHistory(actionConfig)
	hist.Max = 1
	if _, err := hist.Run(chart.ReleaseName); err == nil {
		upgrade := action.NewUpgrade(actionConfig)
		upgrade.Namespace = c.namespace
		upgrade.Wait = true
		upgrade.Timeout = installTimeout
		if _, err := upgrade.RunWithContext(ctx, chart.ReleaseName, loaded, chart.Values); err != nil {
			return fmt.Errorf("helm upgrade %s failed: %w", chart.ReleaseName, err)
		}
		return nil
	}

	install := action.NewInstall(actionConfig)
	install.Namespace = c.namespace
	install.ReleaseName = chart.ReleaseName
	install.CreateNamespace = true
	install.Wait = true
	install.Timeout = installTimeout
	if _, err := install.RunWithContext(ctx, loaded, chart.Values); err != nil {
		return fmt.Errorf("helm install %s failed: %w", chart.ReleaseName, err)
	}

	return nil
}

// restClientGetter implements a minimal RESTClientGetter for helm backed by
// an in-memory rest config.
type restClientGetter struct {
	config    *rest.Config
	namespace string
}

func (g *restClientGetter) ToRESTConfig() (*rest.Config, error) {
	return g.config, nil
}

func (g *restClientGetter) ToDiscoveryClient() (discovery.CachedDiscoveryInterface, error) {
	discoveryClient, err := discovery.NewDiscoveryClientForConfig(g.config)
	if err != nil {
		return nil, err
	}
	return memory.NewMemCacheClient(discoveryClient), nil
}

func (g *restClientGetter) ToRESTMapper() (meta.RESTMapper, error) {
	discoveryClient, err := g.ToDiscoveryClient()
	if err != nil {
		return nil, err
	}
	return restmapper.NewDeferredDiscoveryRESTMapper(discoveryClient), nil
}

func (g *restClientGetter) ToRawKubeConfigLoader() clientcmd.ClientConfig {
	return clientcmd.NewDefaultClientConfig(*clientcmdapi.NewConfig(), &clientcmd.ConfigOverrides{})
}
