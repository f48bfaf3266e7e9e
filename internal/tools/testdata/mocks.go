// Package testdata provides mock implementations for testing the tool packages.
package testdata

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/kubedeck/kubedeck/internal/k8s"
)

// Compile-time interface compliance check.
var _ k8s.Client = (*MockK8sClient)(nil)

// MockK8sClient implements k8s.Client for testing. Behavior is scripted
// through the function fields; unset functions return zero values. The
// context gate mirrors the real client: with an empty Current, Clientset
// and DynamicClient fail with ErrNoActiveContext.
type MockK8sClient struct {
	// Current is the active context name. Empty means no context selected.
	Current string

	ListContextsFunc  func(ctx context.Context) (*k8s.ContextList, error)
	SwitchContextFunc func(ctx context.Context, contextName string) error
	ClientsetFunc     func() (kubernetes.Interface, error)
	DynamicClientFunc func() (dynamic.Interface, error)

	GetResourceFunc        func(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error)
	ListResourcesFunc      func(ctx context.Context, namespace, resourceType string, opts k8s.ListOptions) (*unstructured.UnstructuredList, error)
	DeleteResourceFunc     func(ctx context.Context, namespace, resourceType, name string) error
	GetResourceYAMLFunc    func(ctx context.Context, namespace, resourceType, name string) (string, error)
	UpdateResourceYAMLFunc func(ctx context.Context, namespace, resourceType, name, manifest string) error

	ScaleFunc                 func(ctx context.Context, namespace, resourceType, name string, replicas int32) error
	RolloutRestartFunc        func(ctx context.Context, namespace, resourceType, name string) error
	RollbackDeploymentFunc    func(ctx context.Context, namespace, name string) error
	TriggerCronJobFunc        func(ctx context.Context, namespace, name string) (string, error)
	SetCronJobSuspendFunc     func(ctx context.Context, namespace, name string, suspend bool) error
	CronJobJobsFunc           func(ctx context.Context, namespace, name string) ([]k8s.WorkloadRef, error)
	WorkloadPodsFunc          func(ctx context.Context, namespace, resourceType, name string) ([]corev1.Pod, error)
	DeploymentReplicaSetsFunc func(ctx context.Context, namespace, name string) ([]k8s.WorkloadRef, error)
	ServiceEndpointsFunc      func(ctx context.Context, namespace, name string) (*k8s.ServiceEndpoints, error)

	GetPodLogsFunc   func(ctx context.Context, namespace, podName string, opts k8s.LogOptions) (string, error)
	GetPodEventsFunc func(ctx context.Context, namespace, podName string) ([]k8s.EventInfo, error)
	DeletePodFunc    func(ctx context.Context, namespace, podName string) error
	DescribePodFunc  func(ctx context.Context, namespace, podName string) (*k8s.PodDescription, error)

	GetClusterOverviewFunc func(ctx context.Context) (*k8s.ClusterOverview, error)
	ListNodesFunc          func(ctx context.Context) ([]k8s.NodeDetails, error)
	ListNamespacesFunc     func(ctx context.Context) ([]k8s.NamespaceInfo, error)

	MetricsAvailableFunc      func(ctx context.Context) bool
	GetNodeMetricsFunc        func(ctx context.Context, nodeName string) (*k8s.MetricsPoint, error)
	GetNodeMetricsHistoryFunc func(ctx context.Context, nodeName string, duration time.Duration) (*k8s.MetricsHistory, error)
	GetPodMetricsFunc         func(ctx context.Context, namespace string) ([]k8s.PodMetrics, error)
	GetClusterMetricsFunc     func(ctx context.Context) (*k8s.ClusterMetrics, error)
}

// ListContexts implements k8s.ContextManager.
func (m *MockK8sClient) ListContexts(ctx context.Context) (*k8s.ContextList, error) {
	if m.ListContextsFunc != nil {
		return m.ListContextsFunc(ctx)
	}
	return &k8s.ContextList{CurrentContext: m.Current}, nil
}

// CurrentContext implements k8s.ContextManager.
func (m *MockK8sClient) CurrentContext() string {
	return m.Current
}

// SwitchContext implements k8s.ContextManager.
func (m *MockK8sClient) SwitchContext(ctx context.Context, contextName string) error {
	if m.SwitchContextFunc != nil {
		return m.SwitchContextFunc(ctx, contextName)
	}
	m.Current = contextName
	return nil
}

// Clientset implements k8s.ContextManager.
func (m *MockK8sClient) Clientset() (kubernetes.Interface, error) {
	if m.ClientsetFunc != nil {
		return m.ClientsetFunc()
	}
	if m.Current == "" {
		return nil, k8s.ErrNoActiveContext
	}
	return nil, nil
}

// DynamicClient implements k8s.ContextManager.
func (m *MockK8sClient) DynamicClient() (dynamic.Interface, error) {
	if m.DynamicClientFunc != nil {
		return m.DynamicClientFunc()
	}
	if m.Current == "" {
		return nil, k8s.ErrNoActiveContext
	}
	return nil, nil
}

// GetResource implements k8s.ResourceManager.
func (m *MockK8sClient) GetResource(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error) {
	if m.GetResourceFunc != nil {
		return m.GetResourceFunc(ctx, namespace, resourceType, name)
	}
	return nil, nil
}

// ListResources implements k8s.ResourceManager.
func (m *MockK8sClient) ListResources(ctx context.Context, namespace, resourceType string, opts k8s.ListOptions) (*unstructured.UnstructuredList, error) {
	if m.ListResourcesFunc != nil {
		return m.ListResourcesFunc(ctx, namespace, resourceType, opts)
	}
	return &unstructured.UnstructuredList{}, nil
}

// DeleteResource implements k8s.ResourceManager.
func (m *MockK8sClient) DeleteResource(ctx context.Context, namespace, resourceType, name string) error {
	if m.DeleteResourceFunc != nil {
		return m.DeleteResourceFunc(ctx, namespace, resourceType, name)
	}
	return nil
}

// GetResourceYAML implements k8s.ResourceManager.
func (m *MockK8sClient) GetResourceYAML(ctx context.Context, namespace, resourceType, name string) (string, error) {
	if m.GetResourceYAMLFunc != nil {
		return m.GetResourceYAMLFunc(ctx, namespace, resourceType, name)
	}
	return "", nil
}

// UpdateResourceYAML implements k8s.ResourceManager.
func (m *MockK8sClient) UpdateResourceYAML(ctx context.Context, namespace, resourceType, name, manifest string) error {
	if m.UpdateResourceYAMLFunc != nil {
		return m.UpdateResourceYAMLFunc(ctx, namespace, resourceType, name, manifest)
	}
	return nil
}

// Scale implements k8s.WorkloadManager.
func (m *MockK8sClient) Scale(ctx context.Context, namespace, resourceType, name string, replicas int32) error {
	if m.ScaleFunc != nil {
		return m.ScaleFunc(ctx, namespace, resourceType, name, replicas)
	}
	return nil
}

// RolloutRestart implements k8s.WorkloadManager.
func (m *MockK8sClient) RolloutRestart(ctx context.Context, namespace, resourceType, name string) error {
	if m.RolloutRestartFunc != nil {
		return m.RolloutRestartFunc(ctx, namespace, resourceType, name)
	}
	return nil
}

// RollbackDeployment implements k8s.WorkloadManager.
func (m *MockK8sClient) RollbackDeployment(ctx context.Context, namespace, name string) error {
	if m.RollbackDeploymentFunc != nil {
		return m.RollbackDeploymentFunc(ctx, namespace, name)
	}
	return nil
}

// TriggerCronJob implements k8s.WorkloadManager.
func (m *MockK8sClient) TriggerCronJob(ctx context.Context, namespace, name string) (string, error) {
	if m.TriggerCronJobFunc != nil {
		return m.TriggerCronJobFunc(ctx, namespace, name)
	}
	return "", nil
}

// SetCronJobSuspend implements k8s.WorkloadManager.
func (m *MockK8sClient) SetCronJobSuspend(ctx context.Context, namespace, name string, suspend bool) error {
	if m.SetCronJobSuspendFunc != nil {
		return m.SetCronJobSuspendFunc(ctx, namespace, name, suspend)
	}
	return nil
}

// CronJobJobs implements k8s.WorkloadManager.
func (m *MockK8sClient) CronJobJobs(ctx context.Context, namespace, name string) ([]k8s.WorkloadRef, error) {
	if m.CronJobJobsFunc != nil {
		return m.CronJobJobsFunc(ctx, namespace, name)
	}
	return nil, nil
}

// WorkloadPods implements k8s.WorkloadManager.
func (m *MockK8sClient) WorkloadPods(ctx context.Context, namespace, resourceType, name string) ([]corev1.Pod, error) {
	if m.WorkloadPodsFunc != nil {
		return m.WorkloadPodsFunc(ctx, namespace, resourceType, name)
	}
	return nil, nil
}

// DeploymentReplicaSets implements k8s.WorkloadManager.
func (m *MockK8sClient) DeploymentReplicaSets(ctx context.Context, namespace, name string) ([]k8s.WorkloadRef, error) {
	if m.DeploymentReplicaSetsFunc != nil {
		return m.DeploymentReplicaSetsFunc(ctx, namespace, name)
	}
	return nil, nil
}

// ServiceEndpoints implements k8s.WorkloadManager.
func (m *MockK8sClient) ServiceEndpoints(ctx context.Context, namespace, name string) (*k8s.ServiceEndpoints, error) {
	if m.ServiceEndpointsFunc != nil {
		return m.ServiceEndpointsFunc(ctx, namespace, name)
	}
	return nil, nil
}

// GetPodLogs implements k8s.PodManager.
func (m *MockK8sClient) GetPodLogs(ctx context.Context, namespace, podName string, opts k8s.LogOptions) (string, error) {
	if m.GetPodLogsFunc != nil {
		return m.GetPodLogsFunc(ctx, namespace, podName, opts)
	}
	return "", nil
}

// GetPodEvents implements k8s.PodManager.
func (m *MockK8sClient) GetPodEvents(ctx context.Context, namespace, podName string) ([]k8s.EventInfo, error) {
	if m.GetPodEventsFunc != nil {
		return m.GetPodEventsFunc(ctx, namespace, podName)
	}
	return nil, nil
}

// DeletePod implements k8s.PodManager.
func (m *MockK8sClient) DeletePod(ctx context.Context, namespace, podName string) error {
	if m.DeletePodFunc != nil {
		return m.DeletePodFunc(ctx, namespace, podName)
	}
	return nil
}

// DescribePod implements k8s.PodManager.
func (m *MockK8sClient) DescribePod(ctx context.Context, namespace, podName string) (*k8s.PodDescription, error) {
	if m.DescribePodFunc != nil {
		return m.DescribePodFunc(ctx, namespace, podName)
	}
	return nil, nil
}

// GetClusterOverview implements k8s.ClusterManager.
func (m *MockK8sClient) GetClusterOverview(ctx context.Context) (*k8s.ClusterOverview, error) {
	if m.GetClusterOverviewFunc != nil {
		return m.GetClusterOverviewFunc(ctx)
	}
	return nil, nil
}

// ListNodes implements k8s.ClusterManager.
func (m *MockK8sClient) ListNodes(ctx context.Context) ([]k8s.NodeDetails, error) {
	if m.ListNodesFunc != nil {
		return m.ListNodesFunc(ctx)
	}
	return nil, nil
}

// ListNamespaces implements k8s.ClusterManager.
func (m *MockK8sClient) ListNamespaces(ctx context.Context) ([]k8s.NamespaceInfo, error) {
	if m.ListNamespacesFunc != nil {
		return m.ListNamespacesFunc(ctx)
	}
	return nil, nil
}

// MetricsAvailable implements k8s.MetricsManager.
func (m *MockK8sClient) MetricsAvailable(ctx context.Context) bool {
	if m.MetricsAvailableFunc != nil {
		return m.MetricsAvailableFunc(ctx)
	}
	return false
}

// GetNodeMetrics implements k8s.MetricsManager.
func (m *MockK8sClient) GetNodeMetrics(ctx context.Context, nodeName string) (*k8s.MetricsPoint, error) {
	if m.GetNodeMetricsFunc != nil {
		return m.GetNodeMetricsFunc(ctx, nodeName)
	}
	return nil, nil
}

// GetNodeMetricsHistory implements k8s.MetricsManager.
func (m *MockK8sClient) GetNodeMetricsHistory(ctx context.Context, nodeName string, duration time.Duration) (*k8s.MetricsHistory, error) {
	if m.GetNodeMetricsHistoryFunc != nil {
		return m.GetNodeMetricsHistoryFunc(ctx, nodeName, duration)
	}
	return nil, nil
}

// GetPodMetrics implements k8s.MetricsManager.
func (m *MockK8sClient) GetPodMetrics(ctx context.Context, namespace string) ([]k8s.PodMetrics, error) {
	if m.GetPodMetricsFunc != nil {
		return m.GetPodMetricsFunc(ctx, namespace)
	}
	return nil, nil
}

// GetClusterMetrics implements k8s.MetricsManager.
func (m *MockK8sClient) GetClusterMetrics(ctx context.Context) (*k8s.ClusterMetrics, error) {
	if m.GetClusterMetricsFunc != nil {
		return m.GetClusterMetricsFunc(ctx)
	}
	return nil, nil
}
