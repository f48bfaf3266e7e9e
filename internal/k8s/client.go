package k8s

import (
	"context"
	"errors"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
)

// ErrNoActiveContext is returned by every cluster-bound operation until the
// UI has selected a context. The message text is part of the frontend
// contract and must stay stable.
var ErrNoActiveContext = errors.New("No active context. Please set a context first.")

// Client defines the interface for all cluster operations exposed to the
// tool layer. The backend holds a single active kubeconfig context at a
// time; operations fail with ErrNoActiveContext until one is selected.
type Client interface {
	ContextManager
	ResourceManager
	WorkloadManager
	PodManager
	ClusterManager
	MetricsManager
}

// ContextManager handles kubeconfig context selection and the active
// context gate.
type ContextManager interface {
	// ListContexts returns all contexts from the kubeconfig plus the name
	// of the currently active one (empty until SwitchContext succeeds).
	ListContexts(ctx context.Context) (*ContextList, error)

	// CurrentContext returns the active context name, or empty when none
	// has been selected yet.
	CurrentContext() string

	// SwitchContext makes the named context active, building and caching
	// its clients. The previous context's cached clients stay valid for
	// watches already bound to them.
	SwitchContext(ctx context.Context, contextName string) error

	// Clientset returns the typed clientset for the active context.
	Clientset() (kubernetes.Interface, error)

	// DynamicClient returns the dynamic client for the active context.
	// Watch tasks take this handle at spawn time and keep using it even
	// if the active context changes afterwards.
	DynamicClient() (dynamic.Interface, error)
}

// ResourceManager handles generic resource operations through the dynamic
// client, with resource types resolved against a builtin map and API
// discovery.
type ResourceManager interface {
	// GetResource retrieves a single resource by type and name.
	GetResource(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error)

	// ListResources lists resources of a type with optional selectors.
	ListResources(ctx context.Context, namespace, resourceType string, opts ListOptions) (*unstructured.UnstructuredList, error)

	// DeleteResource removes a resource by type and name.
	DeleteResource(ctx context.Context, namespace, resourceType, name string) error

	// GetResourceYAML renders a resource as YAML.
	GetResourceYAML(ctx context.Context, namespace, resourceType, name string) (string, error)

	// UpdateResourceYAML replaces a resource from a YAML manifest.
	UpdateResourceYAML(ctx context.Context, namespace, resourceType, name, manifest string) error
}

// WorkloadManager handles workload-specific operations through the typed
// clientset (scale subresources, rollout annotations, cronjob control).
type WorkloadManager interface {
	// Scale sets the replica count of a deployment, statefulset or
	// replicaset via the scale subresource.
	Scale(ctx context.Context, namespace, resourceType, name string, replicas int32) error

	// RolloutRestart triggers a rolling restart of a deployment,
	// statefulset or daemonset by stamping the pod template.
	RolloutRestart(ctx context.Context, namespace, resourceType, name string) error

	// RollbackDeployment re-applies the pod template of the previous
	// ReplicaSet revision.
	RollbackDeployment(ctx context.Context, namespace, name string) error

	// TriggerCronJob creates a Job from the CronJob's job template.
	TriggerCronJob(ctx context.Context, namespace, name string) (string, error)

	// SetCronJobSuspend suspends or resumes a CronJob.
	SetCronJobSuspend(ctx context.Context, namespace, name string, suspend bool) error

	// CronJobJobs lists Jobs owned by a CronJob.
	CronJobJobs(ctx context.Context, namespace, name string) ([]WorkloadRef, error)

	// WorkloadPods lists the pods selected by a deployment, statefulset,
	// daemonset or replicaset.
	WorkloadPods(ctx context.Context, namespace, resourceType, name string) ([]corev1.Pod, error)

	// DeploymentReplicaSets lists the ReplicaSets owned by a deployment.
	DeploymentReplicaSets(ctx context.Context, namespace, name string) ([]WorkloadRef, error)

	// ServiceEndpoints returns the endpoint addresses behind a service.
	ServiceEndpoints(ctx context.Context, namespace, name string) (*ServiceEndpoints, error)
}

// PodManager handles pod-specific operations.
type PodManager interface {
	// GetPodLogs returns container logs as text.
	GetPodLogs(ctx context.Context, namespace, podName string, opts LogOptions) (string, error)

	// GetPodEvents returns events referencing the pod.
	GetPodEvents(ctx context.Context, namespace, podName string) ([]EventInfo, error)

	// DeletePod removes a pod. Controller-owned pods are recreated, which
	// the UI surfaces as a restart.
	DeletePod(ctx context.Context, namespace, podName string) error

	// DescribePod returns a structured summary of a pod.
	DescribePod(ctx context.Context, namespace, podName string) (*PodDescription, error)
}

// ClusterManager handles cluster-level aggregate operations.
type ClusterManager interface {
	// GetClusterOverview returns resource counts and version info,
	// cached briefly to keep dashboard refreshes cheap.
	GetClusterOverview(ctx context.Context) (*ClusterOverview, error)

	// ListNodes returns node summaries.
	ListNodes(ctx context.Context) ([]NodeDetails, error)

	// ListNamespaces returns namespace names with status.
	ListNamespaces(ctx context.Context) ([]NamespaceInfo, error)
}

// MetricsManager handles usage metrics from the metrics.k8s.io API, with
// synthesized fallback data when no metrics server is installed.
type MetricsManager interface {
	// MetricsAvailable reports whether the metrics API responds.
	MetricsAvailable(ctx context.Context) bool

	// GetNodeMetrics returns a current usage sample for one node.
	GetNodeMetrics(ctx context.Context, nodeName string) (*MetricsPoint, error)

	// GetNodeMetricsHistory returns a usage timeline for one node.
	GetNodeMetricsHistory(ctx context.Context, nodeName string, duration time.Duration) (*MetricsHistory, error)

	// GetPodMetrics returns current usage samples for pods in a namespace.
	GetPodMetrics(ctx context.Context, namespace string) ([]PodMetrics, error)

	// GetClusterMetrics aggregates capacity and usage across all nodes.
	GetClusterMetrics(ctx context.Context) (*ClusterMetrics, error)
}

// ContextInfo represents one kubeconfig context.
type ContextInfo struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	User      string `json:"user"`
	Namespace string `json:"namespace,omitempty"`
	Current   bool   `json:"current"`
}

// ContextList is the response shape for context listing.
type ContextList struct {
	Contexts       []ContextInfo `json:"contexts"`
	CurrentContext string        `json:"currentContext,omitempty"`
}

// ListOptions provides configuration for list operations.
type ListOptions struct {
	LabelSelector string `json:"labelSelector,omitempty"`
	FieldSelector string `json:"fieldSelector,omitempty"`
	AllNamespaces bool   `json:"allNamespaces,omitempty"`
	Limit         int64  `json:"limit,omitempty"`
	Continue      string `json:"continue,omitempty"`
}

// LogOptions configures log retrieval.
type LogOptions struct {
	Container  string `json:"container,omitempty"`
	Previous   bool   `json:"previous,omitempty"`
	Timestamps bool   `json:"timestamps,omitempty"`
	TailLines  *int64 `json:"tailLines,omitempty"`
}

// EventInfo is a UI-friendly event summary.
type EventInfo struct {
	Type           string `json:"type"`
	Reason         string `json:"reason"`
	Message        string `json:"message"`
	Count          int32  `json:"count"`
	FirstTimestamp string `json:"firstTimestamp,omitempty"`
	LastTimestamp  string `json:"lastTimestamp,omitempty"`
	Source         string `json:"source,omitempty"`
}

// WorkloadRef identifies a related workload object (a Job under a CronJob,
// a ReplicaSet under a Deployment).
type WorkloadRef struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Kind      string `json:"kind"`
	Status    string `json:"status,omitempty"`
	Revision  string `json:"revision,omitempty"`
	Created   string `json:"created,omitempty"`
}

// ServiceEndpoints describes the addresses behind a service.
type ServiceEndpoints struct {
	Service   string           `json:"service"`
	Namespace string           `json:"namespace"`
	Subsets   []EndpointSubset `json:"subsets"`
}

// EndpointSubset groups addresses that share a port list.
type EndpointSubset struct {
	Addresses []EndpointAddress `json:"addresses"`
	NotReady  []EndpointAddress `json:"notReadyAddresses,omitempty"`
	Ports     []EndpointPort    `json:"ports"`
}

// EndpointAddress is one endpoint target.
type EndpointAddress struct {
	IP        string `json:"ip"`
	NodeName  string `json:"nodeName,omitempty"`
	TargetRef string `json:"targetRef,omitempty"`
}

// EndpointPort is one endpoint port.
type EndpointPort struct {
	Name     string `json:"name,omitempty"`
	Port     int32  `json:"port"`
	Protocol string `json:"protocol"`
}

// PodDescription is a structured pod summary for detail views.
type PodDescription struct {
	Name       string                `json:"name"`
	Namespace  string                `json:"namespace"`
	Node       string                `json:"node,omitempty"`
	Phase      string                `json:"phase"`
	PodIP      string                `json:"podIP,omitempty"`
	StartTime  string                `json:"startTime,omitempty"`
	Labels     map[string]string     `json:"labels,omitempty"`
	Containers []ContainerStatusInfo `json:"containers"`
	Conditions []PodConditionInfo    `json:"conditions,omitempty"`
	Events     []EventInfo           `json:"events,omitempty"`
}

// ContainerStatusInfo summarizes one container's state.
type ContainerStatusInfo struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	Ready        bool   `json:"ready"`
	RestartCount int32  `json:"restartCount"`
	State        string `json:"state"`
	Reason       string `json:"reason,omitempty"`
}

// PodConditionInfo summarizes one pod condition.
type PodConditionInfo struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ClusterInfo identifies the connected cluster.
type ClusterInfo struct {
	Name    string `json:"name"`
	Server  string `json:"server"`
	Version string `json:"version,omitempty"`
}

// ClusterOverview is the dashboard landing view: object counts plus
// version and optional usage metrics.
type ClusterOverview struct {
	ClusterInfo       ClusterInfo     `json:"clusterInfo"`
	NodeCount         int             `json:"nodeCount"`
	NamespaceCount    int             `json:"namespaceCount"`
	PodCount          int             `json:"podCount"`
	DeploymentCount   int             `json:"deploymentCount"`
	KubernetesVersion string          `json:"kubernetesVersion,omitempty"`
	ClusterMetrics    *ClusterMetrics `json:"clusterMetrics,omitempty"`
}

// ClusterMetrics aggregates per-node capacity and usage.
type ClusterMetrics struct {
	MaxNodes    int           `json:"maxNodes"`
	ActiveNodes int           `json:"activeNodes"`
	Nodes       []NodeDetails `json:"nodes"`
}

// NodeDetails carries capacity, allocatable and usage data for one node.
type NodeDetails struct {
	Name                   string   `json:"name"`
	Status                 string   `json:"status"`
	MaxCPUCores            float64  `json:"maxCpuCores"`
	MaxMemoryBytes         int64    `json:"maxMemoryBytes"`
	AllocatableCPUCores    float64  `json:"allocatableCpuCores"`
	AllocatableMemoryBytes int64    `json:"allocatableMemoryBytes"`
	CPUUsagePercent        float64  `json:"cpuUsagePercent"`
	MemoryUsagePercent     float64  `json:"memoryUsagePercent"`
	Conditions             []string `json:"conditions,omitempty"`
	KubeletVersion         string   `json:"kubeletVersion,omitempty"`
}

// NamespaceInfo summarizes one namespace.
type NamespaceInfo struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Created string `json:"created,omitempty"`
}

// MetricsPoint is one usage sample for a node.
type MetricsPoint struct {
	Timestamp          int64   `json:"timestamp"`
	CPUUsageCores      float64 `json:"cpuUsageCores"`
	MemoryUsageBytes   int64   `json:"memoryUsageBytes"`
	CPUUsagePercent    float64 `json:"cpuUsagePercent"`
	MemoryUsagePercent float64 `json:"memoryUsagePercent"`
	Mocked             bool    `json:"mocked"`
}

// MetricsHistory is a usage timeline for a node.
type MetricsHistory struct {
	NodeName    string         `json:"nodeName"`
	Points      []MetricsPoint `json:"points"`
	LastUpdated string         `json:"lastUpdated"`
	Mocked      bool           `json:"mocked"`
}

// PodMetrics is one usage sample for a pod.
type PodMetrics struct {
	Name             string  `json:"name"`
	Namespace        string  `json:"namespace"`
	CPUUsageCores    float64 `json:"cpuUsageCores"`
	MemoryUsageBytes int64   `json:"memoryUsageBytes"`
	Mocked           bool    `json:"mocked"`
}
