package k8s

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
)

// fieldManager identifies this tool's server-side apply ownership.
const fieldManager = "ekspress"

// Apply applies a multi-document YAML manifest to the cluster using
// server-side apply, which makes repeated runs idempotent and surfaces
// conflicts with other controllers.
func (c *client) Apply(ctx context.Context, manifest string) error {
	decoder := yaml.NewYAMLOrJSONDecoder(strings.NewReader(manifest), 4096)

	for {
		var obj unstructured.Unstructured
		err := decoder.Decode(&obj)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to decode manifest: %w", err)
		}
		if len(obj.Object) == 0 {
			continue
		}

		if err := c.applyObject(ctx, &obj); err != nil {
			return err
		}
	}

	return nil
}

func (c *client) applyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	gvr := schema.GroupVersionResource{
		Group:    gvk.Group,
		Version:  gvk.Version,
		Resource: resourceForKind(gvk.Kind),
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", obj.GetKind(), obj.GetName(), err)
	}

	opts := metav1.PatchOptions{FieldManager: fieldManager, Force: boolPtr(true)}

	var iface = c.dynamic.Resource(gvr)
	if namespace := obj.GetNamespace(); namespace != "" {
		_, err = iface.Namespace(namespace).Patch(ctx, obj.GetName(), types.ApplyPatchType, data, opts)
	} else {
		_, err = iface.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to apply resource %s/%s: %w", obj.GetKind(), obj.GetName(), err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

// resourceForKind maps a Kubernetes kind to its resource name.
// This is a simplified mapping for the kinds ekspress applies.
func resourceForKind(kind string) string {
	switch kind {
	case "Namespace":
		return "namespaces"
	case "Deployment":
		return "deployments"
	case "Service":
		return "services"
	case "ServiceAccount":
		return "serviceaccounts"
	case "SecretProviderClass":
		return "secretproviderclasses"
	case "ConfigMap":
		return "configmaps"
	case "Secret":
		return "secrets"
	case "DaemonSet":
		return "daemonsets"
	default:
		return strings.ToLower(kind) + "s"
	}
}
