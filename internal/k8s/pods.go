package k8s

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PodManager implementation

// GetPodLogs retrieves container logs as text.
func (c *kubernetesClient) GetPodLogs(ctx context.Context, namespace, podName string, opts LogOptions) (string, error) {
	c.logOperation("get-logs", namespace, "pod", podName)

	clientset, err := c.Clientset()
	if err != nil {
		return "", err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	logOpts := &corev1.PodLogOptions{
		Container:  opts.Container,
		Previous:   opts.Previous,
		Timestamps: opts.Timestamps,
	}
	if opts.TailLines != nil {
		logOpts.TailLines = opts.TailLines
	}

	req := clientset.CoreV1().Pods(namespace).GetLogs(podName, logOpts)

	stream, err := req.Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get logs for pod %s/%s: %w", namespace, podName, err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return "", fmt.Errorf("failed to read logs for pod %s/%s: %w", namespace, podName, err)
	}

	return string(data), nil
}

// GetPodEvents returns events referencing the pod, oldest first.
func (c *kubernetesClient) GetPodEvents(ctx context.Context, namespace, podName string) ([]EventInfo, error) {
	c.logOperation("get-events", namespace, "pod", podName)

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	eventList, err := clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{
		FieldSelector: fmt.Sprintf("involvedObject.name=%s,involvedObject.namespace=%s", podName, namespace),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events for pod %s/%s: %w", namespace, podName, err)
	}

	events := make([]EventInfo, 0, len(eventList.Items))
	for _, event := range eventList.Items {
		events = append(events, EventInfo{
			Type:           event.Type,
			Reason:         event.Reason,
			Message:        event.Message,
			Count:          event.Count,
			FirstTimestamp: formatEventTime(event.FirstTimestamp),
			LastTimestamp:  formatEventTime(event.LastTimestamp),
			Source:         event.Source.Component,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].LastTimestamp < events[j].LastTimestamp
	})

	return events, nil
}

// DeletePod removes a pod. Controller-owned pods come back, which the UI
// presents as a restart.
func (c *kubernetesClient) DeletePod(ctx context.Context, namespace, podName string) error {
	if err := c.checkMutating("delete"); err != nil {
		return err
	}
	c.logOperation("delete", namespace, "pod", podName)

	clientset, err := c.Clientset()
	if err != nil {
		return err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	if err := clientset.CoreV1().Pods(namespace).Delete(ctx, podName, metav1.DeleteOptions{}); err != nil {
		return fmt.Errorf("failed to delete pod %s/%s: %w", namespace, podName, err)
	}

	return nil
}

// DescribePod returns a structured summary of a pod including its recent
// events.
func (c *kubernetesClient) DescribePod(ctx context.Context, namespace, podName string) (*PodDescription, error) {
	c.logOperation("describe", namespace, "pod", podName)

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	pod, err := clientset.CoreV1().Pods(namespace).Get(ctx, podName, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get pod %s/%s: %w", namespace, podName, err)
	}

	description := &PodDescription{
		Name:      pod.Name,
		Namespace: pod.Namespace,
		Node:      pod.Spec.NodeName,
		Phase:     string(pod.Status.Phase),
		PodIP:     pod.Status.PodIP,
		Labels:    pod.Labels,
	}
	if pod.Status.StartTime != nil {
		description.StartTime = pod.Status.StartTime.Format(time.RFC3339)
	}

	for _, status := range pod.Status.ContainerStatuses {
		state, reason := containerState(status)
		description.Containers = append(description.Containers, ContainerStatusInfo{
			Name:         status.Name,
			Image:        status.Image,
			Ready:        status.Ready,
			RestartCount: status.RestartCount,
			State:        state,
			Reason:       reason,
		})
	}

	for _, cond := range pod.Status.Conditions {
		description.Conditions = append(description.Conditions, PodConditionInfo{
			Type:   string(cond.Type),
			Status: string(cond.Status),
			Reason: cond.Reason,
		})
	}

	// Events are best-effort; the summary is useful without them.
	events, err := c.GetPodEvents(ctx, namespace, podName)
	if err == nil {
		description.Events = events
	}

	return description, nil
}

func containerState(status corev1.ContainerStatus) (state, reason string) {
	switch {
	case status.State.Running != nil:
		return "Running", ""
	case status.State.Waiting != nil:
		return "Waiting", status.State.Waiting.Reason
	case status.State.Terminated != nil:
		return "Terminated", status.State.Terminated.Reason
	}
	return "Unknown", ""
}

func formatEventTime(t metav1.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
