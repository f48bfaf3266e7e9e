package k8s

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

const revisionAnnotation = "deployment.kubernetes.io/revision"

// Scale sets the replica count via a merge patch on the spec.
func (c *kubernetesClient) Scale(ctx context.Context, namespace, resourceType, name string, replicas int32) error {
	if err := c.checkMutating("scale"); err != nil {
		return err
	}
	c.logOperation("scale", namespace, resourceType, name)

	switch strings.ToLower(resourceType) {
	case "deployment", "deployments", "deploy",
		"replicaset", "replicasets", "rs",
		"statefulset", "statefulsets", "sts":
		// OK, these are scalable
	default:
		return fmt.Errorf("resource type %q is not scalable", resourceType)
	}

	gvr, namespaced, err := c.resolveResourceType(resourceType)
	if err != nil {
		return err
	}

	dyn, err := c.DynamicClient()
	if err != nil {
		return err
	}

	patch := fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas)
	ri := resourceInterface(dyn, gvr, namespaced, namespace)

	if _, err := ri.Patch(ctx, name, types.MergePatchType, []byte(patch), metav1.PatchOptions{}); err != nil {
		return fmt.Errorf("failed to scale %s %q: %w", resourceType, name, err)
	}

	return nil
}

// RolloutRestart stamps the pod template with a restartedAt annotation,
// the same mechanism kubectl rollout restart uses.
func (c *kubernetesClient) RolloutRestart(ctx context.Context, namespace, resourceType, name string) error {
	if err := c.checkMutating("restart"); err != nil {
		return err
	}
	c.logOperation("restart", namespace, resourceType, name)

	switch strings.ToLower(resourceType) {
	case "deployment", "deployments", "deploy",
		"statefulset", "statefulsets", "sts",
		"daemonset", "daemonsets", "ds":
		// OK, these roll their pods
	default:
		return fmt.Errorf("resource type %q does not support rollout restart", resourceType)
	}

	gvr, namespaced, err := c.resolveResourceType(resourceType)
	if err != nil {
		return err
	}

	dyn, err := c.DynamicClient()
	if err != nil {
		return err
	}

	patch := fmt.Sprintf(
		`{"spec":{"template":{"metadata":{"annotations":{"kubectl.kubernetes.io/restartedAt":%q}}}}}`,
		time.Now().Format(time.RFC3339))
	ri := resourceInterface(dyn, gvr, namespaced, namespace)

	if _, err := ri.Patch(ctx, name, types.MergePatchType, []byte(patch), metav1.PatchOptions{}); err != nil {
		return fmt.Errorf("failed to restart %s %q: %w", resourceType, name, err)
	}

	return nil
}

// RollbackDeployment re-applies the pod template of the newest ReplicaSet
// below the deployment's current revision.
func (c *kubernetesClient) RollbackDeployment(ctx context.Context, namespace, name string) error {
	if err := c.checkMutating("rollback"); err != nil {
		return err
	}
	c.logOperation("rollback", namespace, "deployment", name)

	clientset, err := c.Clientset()
	if err != nil {
		return err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	deployment, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get deployment %q: %w", name, err)
	}

	replicaSets, err := c.ownedReplicaSets(ctx, deployment)
	if err != nil {
		return err
	}

	currentRevision := revisionOf(deployment.Annotations)
	var previous *appsv1.ReplicaSet
	previousRevision := int64(-1)
	for i := range replicaSets {
		rs := &replicaSets[i]
		rev := revisionOf(rs.Annotations)
		if rev < currentRevision && rev > previousRevision {
			previous = rs
			previousRevision = rev
		}
	}
	if previous == nil {
		return fmt.Errorf("deployment %q has no previous revision to roll back to", name)
	}

	deployment.Spec.Template = previous.Spec.Template
	// pod-template-hash belongs to the ReplicaSet, not the rollout target.
	delete(deployment.Spec.Template.Labels, "pod-template-hash")

	if _, err := clientset.AppsV1().Deployments(namespace).Update(ctx, deployment, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to roll back deployment %q: %w", name, err)
	}

	return nil
}

// TriggerCronJob creates a Job from the CronJob's job template and returns
// the created Job's name.
func (c *kubernetesClient) TriggerCronJob(ctx context.Context, namespace, name string) (string, error) {
	if err := c.checkMutating("trigger"); err != nil {
		return "", err
	}
	c.logOperation("trigger", namespace, "cronjob", name)

	clientset, err := c.Clientset()
	if err != nil {
		return "", err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	cronJob, err := clientset.BatchV1().CronJobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get cronjob %q: %w", name, err)
	}

	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      fmt.Sprintf("%s-manual-%d", name, time.Now().Unix()),
			Namespace: namespace,
			Labels:    cronJob.Spec.JobTemplate.Labels,
			Annotations: map[string]string{
				"cronjob.kubernetes.io/instantiate": "manual",
			},
			OwnerReferences: []metav1.OwnerReference{
				*metav1.NewControllerRef(cronJob, batchv1.SchemeGroupVersion.WithKind("CronJob")),
			},
		},
		Spec: cronJob.Spec.JobTemplate.Spec,
	}

	created, err := clientset.BatchV1().Jobs(namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create job from cronjob %q: %w", name, err)
	}

	return created.Name, nil
}

// SetCronJobSuspend suspends or resumes a CronJob.
func (c *kubernetesClient) SetCronJobSuspend(ctx context.Context, namespace, name string, suspend bool) error {
	if err := c.checkMutating("suspend"); err != nil {
		return err
	}
	c.logOperation("suspend", namespace, "cronjob", name)

	clientset, err := c.Clientset()
	if err != nil {
		return err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	patch := fmt.Sprintf(`{"spec":{"suspend":%t}}`, suspend)
	if _, err := clientset.BatchV1().CronJobs(namespace).Patch(
		ctx, name, types.MergePatchType, []byte(patch), metav1.PatchOptions{}); err != nil {
		return fmt.Errorf("failed to update cronjob %q: %w", name, err)
	}

	return nil
}

// CronJobJobs lists Jobs owned by a CronJob, newest first.
func (c *kubernetesClient) CronJobJobs(ctx context.Context, namespace, name string) ([]WorkloadRef, error) {
	c.logOperation("list-jobs", namespace, "cronjob", name)

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	cronJob, err := clientset.BatchV1().CronJobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get cronjob %q: %w", name, err)
	}

	jobList, err := clientset.BatchV1().Jobs(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs in %q: %w", namespace, err)
	}

	refs := make([]WorkloadRef, 0, len(jobList.Items))
	for i := range jobList.Items {
		job := &jobList.Items[i]
		if !metav1.IsControlledBy(job, cronJob) {
			continue
		}
		refs = append(refs, WorkloadRef{
			Name:      job.Name,
			Namespace: job.Namespace,
			Kind:      "Job",
			Status:    jobStatus(job),
			Created:   job.CreationTimestamp.Format(time.RFC3339),
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Created > refs[j].Created
	})

	return refs, nil
}

// WorkloadPods lists the pods selected by a workload's label selector.
func (c *kubernetesClient) WorkloadPods(ctx context.Context, namespace, resourceType, name string) ([]corev1.Pod, error) {
	c.logOperation("list-pods", namespace, resourceType, name)

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	var labelSelector *metav1.LabelSelector
	switch strings.ToLower(resourceType) {
	case "deployment", "deployments", "deploy":
		deployment, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get deployment %q: %w", name, err)
		}
		labelSelector = deployment.Spec.Selector
	case "statefulset", "statefulsets", "sts":
		statefulSet, err := clientset.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get statefulset %q: %w", name, err)
		}
		labelSelector = statefulSet.Spec.Selector
	case "daemonset", "daemonsets", "ds":
		daemonSet, err := clientset.AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get daemonset %q: %w", name, err)
		}
		labelSelector = daemonSet.Spec.Selector
	case "replicaset", "replicasets", "rs":
		replicaSet, err := clientset.AppsV1().ReplicaSets(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get replicaset %q: %w", name, err)
		}
		labelSelector = replicaSet.Spec.Selector
	default:
		return nil, fmt.Errorf("resource type %q has no pod selector", resourceType)
	}

	selector, err := metav1.LabelSelectorAsSelector(labelSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to parse selector for %s %q: %w", resourceType, name, err)
	}

	podList, err := clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods for %s %q: %w", resourceType, name, err)
	}

	return podList.Items, nil
}

// DeploymentReplicaSets lists the ReplicaSets owned by a deployment,
// newest revision first.
func (c *kubernetesClient) DeploymentReplicaSets(ctx context.Context, namespace, name string) ([]WorkloadRef, error) {
	c.logOperation("list-replicasets", namespace, "deployment", name)

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	deployment, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment %q: %w", name, err)
	}

	replicaSets, err := c.ownedReplicaSets(ctx, deployment)
	if err != nil {
		return nil, err
	}

	refs := make([]WorkloadRef, 0, len(replicaSets))
	for i := range replicaSets {
		rs := &replicaSets[i]
		refs = append(refs, WorkloadRef{
			Name:      rs.Name,
			Namespace: rs.Namespace,
			Kind:      "ReplicaSet",
			Status:    fmt.Sprintf("%d/%d ready", rs.Status.ReadyReplicas, rs.Status.Replicas),
			Revision:  rs.Annotations[revisionAnnotation],
			Created:   rs.CreationTimestamp.Format(time.RFC3339),
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		ri, _ := strconv.ParseInt(refs[i].Revision, 10, 64)
		rj, _ := strconv.ParseInt(refs[j].Revision, 10, 64)
		return ri > rj
	})

	return refs, nil
}

// ServiceEndpoints returns the endpoint addresses behind a service.
func (c *kubernetesClient) ServiceEndpoints(ctx context.Context, namespace, name string) (*ServiceEndpoints, error) {
	c.logOperation("endpoints", namespace, "service", name)

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	endpoints, err := clientset.CoreV1().Endpoints(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoints for service %q: %w", name, err)
	}

	result := &ServiceEndpoints{
		Service:   name,
		Namespace: namespace,
		Subsets:   make([]EndpointSubset, 0, len(endpoints.Subsets)),
	}

	for _, subset := range endpoints.Subsets {
		es := EndpointSubset{
			Addresses: endpointAddresses(subset.Addresses),
			NotReady:  endpointAddresses(subset.NotReadyAddresses),
			Ports:     make([]EndpointPort, 0, len(subset.Ports)),
		}
		for _, port := range subset.Ports {
			es.Ports = append(es.Ports, EndpointPort{
				Name:     port.Name,
				Port:     port.Port,
				Protocol: string(port.Protocol),
			})
		}
		result.Subsets = append(result.Subsets, es)
	}

	return result, nil
}

// ownedReplicaSets lists the ReplicaSets controlled by a deployment.
func (c *kubernetesClient) ownedReplicaSets(ctx context.Context, deployment *appsv1.Deployment) ([]appsv1.ReplicaSet, error) {
	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}

	selector, err := metav1.LabelSelectorAsSelector(deployment.Spec.Selector)
	if err != nil {
		return nil, fmt.Errorf("failed to parse selector for deployment %q: %w", deployment.Name, err)
	}

	rsList, err := clientset.AppsV1().ReplicaSets(deployment.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list replicasets for deployment %q: %w", deployment.Name, err)
	}

	owned := make([]appsv1.ReplicaSet, 0, len(rsList.Items))
	for i := range rsList.Items {
		if metav1.IsControlledBy(&rsList.Items[i], deployment) {
			owned = append(owned, rsList.Items[i])
		}
	}

	return owned, nil
}

func revisionOf(annotations map[string]string) int64 {
	rev, err := strconv.ParseInt(annotations[revisionAnnotation], 10, 64)
	if err != nil {
		return -1
	}
	return rev
}

func jobStatus(job *batchv1.Job) string {
	for _, cond := range job.Status.Conditions {
		if cond.Status != corev1.ConditionTrue {
			continue
		}
		switch cond.Type {
		case batchv1.JobComplete:
			return "Complete"
		case batchv1.JobFailed:
			return "Failed"
		}
	}
	if job.Status.Active > 0 {
		return "Active"
	}
	return "Pending"
}

func endpointAddresses(addresses []corev1.EndpointAddress) []EndpointAddress {
	result := make([]EndpointAddress, 0, len(addresses))
	for _, addr := range addresses {
		ea := EndpointAddress{IP: addr.IP}
		if addr.NodeName != nil {
			ea.NodeName = *addr.NodeName
		}
		if addr.TargetRef != nil {
			ea.TargetRef = fmt.Sprintf("%s/%s", addr.TargetRef.Kind, addr.TargetRef.Name)
		}
		result = append(result, ea)
	}
	return result
}
