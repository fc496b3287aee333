// Package manifest builds the typed deployment descriptor set.
//
// The bundle is generated from the configuration rather than hand-edited:
// image URI, secret ARN, and namespace flow from one source of truth into
// Namespace, SecretProviderClass, Deployment, and Service. Applying the
// rendered bundle repeatedly converges to the same state.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/yaml"

	"github.com/kallt/ekspress/internal/util/naming"
)

// Load balancer annotations required on the Service.
const (
	annotationLBType      = "service.beta.kubernetes.io/aws-load-balancer-type"
	annotationLBInternal  = "service.beta.kubernetes.io/aws-load-balancer-internal"
	annotationLBCrossZone = "service.beta.kubernetes.io/aws-load-balancer-cross-zone-load-balancing-enabled"

	appLabelKey = "app"

	secretVolumeName = "secrets-store"

	// ContainerPort is the single port the workload container listens on.
	ContainerPort int32 = 80

	// ServicePort is the load balancer port.
	ServicePort int32 = 80
)

// Inputs are the values the bundle is generated from.
type Inputs struct {
	Namespace      string
	AppName        string
	Image          string
	Replicas       int32
	ServiceAccount string
	SecretARN      string
	SecretAlias    string
	MountPath      string
}

// Bundle is the deployable unit: one namespace, one secret binding, one
// workload, one network exposure.
type Bundle struct {
	Namespace           *corev1.Namespace
	SecretProviderClass *SecretProviderClass
	Deployment          *appsv1.Deployment
	Service             *corev1.Service
}

// Build generates the bundle from inputs.
func Build(in Inputs) (*Bundle, error) {
	if in.Namespace == "" || in.AppName == "" || in.Image == "" {
		return nil, errors.New("namespace, app name, and image are required")
	}
	if in.SecretARN == "" {
		return nil, errors.New("secret ARN is required")
	}

	spcName := naming.SecretProviderClass(in.AppName)
	labels := map[string]string{appLabelKey: in.AppName}

	objects, err := yaml.Marshal([]SecretObject{{
		ObjectName:  in.SecretARN,
		ObjectAlias: in.SecretAlias,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal secret objects: %w", err)
	}

	return &Bundle{
		Namespace: &corev1.Namespace{
			TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
			ObjectMeta: metav1.ObjectMeta{
				Name: in.Namespace,
			},
		},
		SecretProviderClass: &SecretProviderClass{
			TypeMeta: metav1.TypeMeta{
				APIVersion: SecretsStoreGroup + "/" + SecretsStoreVersion,
				Kind:       SecretProviderKind,
			},
			ObjectMeta: metav1.ObjectMeta{
				Name:      spcName,
				Namespace: in.Namespace,
			},
			Spec: SecretProviderClassSpec{
				Provider: "aws",
				Parameters: SecretProviderParameters{
					Objects: string(objects),
				},
			},
		},
		Deployment: buildDeployment(in, spcName, labels),
		Service:    buildService(in, labels),
	}, nil
}

func buildDeployment(in Inputs, spcName string, labels map[string]string) *appsv1.Deployment {
	readOnly := true

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      in.AppName,
			Namespace: in.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &in.Replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					ServiceAccountName: in.ServiceAccount,
					Containers: []corev1.Container{{
						Name:            in.AppName,
						Image:           in.Image,
						ImagePullPolicy: corev1.PullAlways,
						Ports: []corev1.ContainerPort{{
							ContainerPort: ContainerPort,
						}},
						VolumeMounts: []corev1.VolumeMount{{
							Name:      secretVolumeName,
							MountPath: in.MountPath,
							ReadOnly:  true,
						}},
					}},
					Volumes: []corev1.Volume{{
						Name: secretVolumeName,
						VolumeSource: corev1.VolumeSource{
							CSI: &corev1.CSIVolumeSource{
								Driver:   secretsStoreCSIDriver,
								ReadOnly: &readOnly,
								VolumeAttributes: map[string]string{
									"secretProviderClass": spcName,
								},
							},
						},
					}},
				},
			},
		},
	}
}

func buildService(in Inputs, labels map[string]string) *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      in.AppName,
			Namespace: in.Namespace,
			Labels:    labels,
			Annotations: map[string]string{
				annotationLBType:      "nlb",
				annotationLBInternal:  "false",
				annotationLBCrossZone: "true",
			},
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeLoadBalancer,
			Selector: labels,
			Ports: []corev1.ServicePort{{
				Port:       ServicePort,
				TargetPort: intstr.FromInt32(ContainerPort),
				Protocol:   corev1.ProtocolTCP,
			}},
		},
	}
}

// Validate enforces the structural invariants of the bundle:
// the Service selector matches the pod template labels, the CSI volume
// references the SecretProviderClass by name, and every namespaced
// resource lives in the bundle namespace.
func (b *Bundle) Validate() error {
	var errs []error

	if b.Namespace == nil || b.SecretProviderClass == nil || b.Deployment == nil || b.Service == nil {
		return errors.New("bundle is incomplete")
	}

	ns := b.Namespace.Name
	for _, check := range []struct {
		kind string
		got  string
	}{
		{"SecretProviderClass", b.SecretProviderClass.Namespace},
		{"Deployment", b.Deployment.Namespace},
		{"Service", b.Service.Namespace},
	} {
		if check.got != ns {
			errs = append(errs, fmt.Errorf("%s namespace %q does not match bundle namespace %q", check.kind, check.got, ns))
		}
	}

	podLabels := b.Deployment.Spec.Template.Labels
	for k, v := range b.Service.Spec.Selector {
		if podLabels[k] != v {
			errs = append(errs, fmt.Errorf("service selector %s=%s does not match pod labels", k, v))
		}
	}
	if len(b.Service.Spec.Selector) == 0 {
		errs = append(errs, errors.New("service has no selector"))
	}

	if err := b.validateSecretVolume(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (b *Bundle) validateSecretVolume() error {
	for _, vol := range b.Deployment.Spec.Template.Spec.Volumes {
		if vol.CSI == nil {
			continue
		}
		if vol.CSI.Driver != secretsStoreCSIDriver {
			return fmt.Errorf("CSI volume %q uses driver %q, expected %q", vol.Name, vol.CSI.Driver, secretsStoreCSIDriver)
		}
		if got := vol.CSI.VolumeAttributes["secretProviderClass"]; got != b.SecretProviderClass.Name {
			return fmt.Errorf("CSI volume references SecretProviderClass %q, bundle declares %q", got, b.SecretProviderClass.Name)
		}
		if vol.CSI.ReadOnly == nil || !*vol.CSI.ReadOnly {
			return errors.New("secret volume must be read-only")
		}
		return nil
	}
	return errors.New("deployment has no CSI secret volume")
}

// Render serializes the bundle as a multi-document YAML stream in apply
// order: Namespace, SecretProviderClass, Deployment, Service.
func (b *Bundle) Render() ([]byte, error) {
	return RenderDocs(b.Namespace, b.SecretProviderClass, b.Deployment, b.Service)
}

// RenderDocs serializes the given objects as a multi-document YAML stream,
// preserving order. Phases use it to apply one slice of the bundle at a
// time.
func RenderDocs(objs ...interface{}) ([]byte, error) {
	docs := make([]string, 0, len(objs))
	for _, obj := range objs {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to render manifest: %w", err)
		}
		docs = append(docs, string(data))
	}
	return []byte(strings.Join(docs, "---\n")), nil
}
