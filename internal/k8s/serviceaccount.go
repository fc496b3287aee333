package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// roleAnnotation tells the EKS pod identity webhook which IAM role the
// service account's pods may assume.
const roleAnnotation = "eks.amazonaws.com/role-arn"

// EnsureServiceAccount creates or updates a service account carrying the
// IAM role annotation that activates IRSA for its pods.
func (c *client) EnsureServiceAccount(ctx context.Context, namespace, name, roleARN string) error {
	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Annotations: map[string]string{
				roleAnnotation: roleARN,
			},
		},
	}

	_, err := c.clientset.CoreV1().ServiceAccounts(namespace).Create(ctx, sa, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		existing, getErr := c.clientset.CoreV1().ServiceAccounts(namespace).Get(ctx, name, metav1.GetOptions{})
		if getErr != nil {
			return fmt.Errorf("failed to get service account %s/%s: %w", namespace, name, getErr)
		}
		if existing.Annotations == nil {
			existing.Annotations = map[string]string{}
		}
		existing.Annotations[roleAnnotation] = roleARN
		_, err = c.clientset.CoreV1().ServiceAccounts(namespace).Update(ctx, existing, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("failed to ensure service account %s/%s: %w", namespace, name, err)
	}
	return nil
}
