package k8s

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestEnsureServiceAccount_Creates(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	c := NewFromClients(clientset, nil)

	err := c.EnsureServiceAccount(context.Background(), "demo", "demo-sa",
		"arn:aws:iam::123456789012:role/demo-secret-access")
	require.NoError(t, err)

	sa, err := clientset.CoreV1().ServiceAccounts("demo").Get(context.Background(), "demo-sa", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::123456789012:role/demo-secret-access",
		sa.Annotations["eks.amazonaws.com/role-arn"])
}

func TestEnsureServiceAccount_UpdatesExisting(t *testing.T) {
	existing := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:        "demo-sa",
			Namespace:   "demo",
			Annotations: map[string]string{"eks.amazonaws.com/role-arn": "arn:aws:iam::123456789012:role/old"},
		},
	}
	clientset := fake.NewSimpleClientset(existing)
	c := NewFromClients(clientset, nil)

	err := c.EnsureServiceAccount(context.Background(), "demo", "demo-sa",
		"arn:aws:iam::123456789012:role/new")
	require.NoError(t, err)

	sa, err := clientset.CoreV1().ServiceAccounts("demo").Get(context.Background(), "demo-sa", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::123456789012:role/new", sa.Annotations["eks.amazonaws.com/role-arn"])
}

func TestWaitForRollout_Ready(t *testing.T) {
	replicas := int32(2)
	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "demo"},
		Spec:       appsv1.DeploymentSpec{Replicas: &replicas},
		Status: appsv1.DeploymentStatus{
			Replicas:          2,
			UpdatedReplicas:   2,
			AvailableReplicas: 2,
			Conditions: []appsv1.DeploymentCondition{{
				Type:   appsv1.DeploymentAvailable,
				Status: corev1.ConditionTrue,
			}},
		},
	}
	c := NewFromClients(fake.NewSimpleClientset(deployment), nil)

	err := c.WaitForRollout(context.Background(), "demo", "demo", 30*time.Second)
	assert.NoError(t, err)
}

func TestServiceHostname(t *testing.T) {
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "demo"},
		Status: corev1.ServiceStatus{
			LoadBalancer: corev1.LoadBalancerStatus{
				Ingress: []corev1.LoadBalancerIngress{{
					Hostname: "abc-123.elb.us-east-1.amazonaws.com",
				}},
			},
		},
	}
	c := NewFromClients(fake.NewSimpleClientset(svc), nil)

	hostname, err := c.ServiceHostname(context.Background(), "demo", "demo", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "abc-123.elb.us-east-1.amazonaws.com", hostname)
}

func TestDeleteNamespace_ToleratesAbsent(t *testing.T) {
	c := NewFromClients(fake.NewSimpleClientset(), nil)
	assert.NoError(t, c.DeleteNamespace(context.Background(), "gone"))
}

func TestResourceForKind(t *testing.T) {
	tests := map[string]string{
		"Namespace":           "namespaces",
		"Deployment":          "deployments",
		"Service":             "services",
		"ServiceAccount":      "serviceaccounts",
		"SecretProviderClass": "secretproviderclasses",
		"Pod":                 "pods",
	}
	for kind, want := range tests {
		assert.Equal(t, want, resourceForKind(kind), "kind %s", kind)
	}
}

func TestIsDeploymentReady(t *testing.T) {
	replicas := int32(3)

	notReady := &appsv1.Deployment{
		Spec:   appsv1.DeploymentSpec{Replicas: &replicas},
		Status: appsv1.DeploymentStatus{Replicas: 3, UpdatedReplicas: 2, AvailableReplicas: 2},
	}
	assert.False(t, isDeploymentReady(notReady))

	noCondition := &appsv1.Deployment{
		Spec:   appsv1.DeploymentSpec{Replicas: &replicas},
		Status: appsv1.DeploymentStatus{Replicas: 3, UpdatedReplicas: 3, AvailableReplicas: 3},
	}
	assert.False(t, isDeploymentReady(noCondition))
}
