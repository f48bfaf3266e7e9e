package k8s

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// ClusterManager implementation

// GetClusterOverview returns object counts and version info for the active
// cluster. Results are cached briefly and concurrent refreshes collapse
// into a single upstream fan-out, so dashboard polling stays cheap.
func (c *kubernetesClient) GetClusterOverview(ctx context.Context) (*ClusterOverview, error) {
	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}

	contextName := c.CurrentContext()
	c.logOperation("cluster-overview", "", "", "")

	c.overviewMu.Lock()
	if c.overviewCached != nil && time.Now().Before(c.overviewExpires) {
		cached := c.overviewCached
		c.overviewMu.Unlock()
		return cached, nil
	}
	c.overviewMu.Unlock()

	result, err, _ := c.overviewGroup.Do(contextName, func() (interface{}, error) {
		overview, err := c.buildClusterOverview(ctx, contextName, clientset)
		if err != nil {
			return nil, err
		}

		c.overviewMu.Lock()
		c.overviewCached = overview
		c.overviewExpires = time.Now().Add(OverviewCacheTTL)
		c.overviewMu.Unlock()

		return overview, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*ClusterOverview), nil
}

// buildClusterOverview gathers the overview counts in parallel.
func (c *kubernetesClient) buildClusterOverview(ctx context.Context, contextName string, clientset kubernetes.Interface) (*ClusterOverview, error) {
	overview := &ClusterOverview{
		ClusterInfo: c.clusterInfo(contextName),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("failed to list nodes: %w", err)
		}
		overview.NodeCount = len(nodes.Items)
		return nil
	})

	g.Go(func() error {
		namespaces, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("failed to list namespaces: %w", err)
		}
		overview.NamespaceCount = len(namespaces.Items)
		return nil
	})

	g.Go(func() error {
		pods, err := clientset.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("failed to list pods: %w", err)
		}
		overview.PodCount = len(pods.Items)
		return nil
	})

	g.Go(func() error {
		deployments, err := clientset.AppsV1().Deployments(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("failed to list deployments: %w", err)
		}
		overview.DeploymentCount = len(deployments.Items)
		return nil
	})

	g.Go(func() error {
		serverVersion, err := clientset.Discovery().ServerVersion()
		if err != nil {
			return fmt.Errorf("failed to get cluster version: %w", err)
		}
		overview.KubernetesVersion = serverVersion.GitVersion
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview.ClusterInfo.Version = overview.KubernetesVersion

	// Usage metrics are best-effort; the overview is useful without them.
	if metrics, err := c.GetClusterMetrics(ctx); err == nil {
		overview.ClusterMetrics = metrics
	}

	return overview, nil
}

// clusterInfo resolves the cluster name and server URL for a context from
// the kubeconfig.
func (c *kubernetesClient) clusterInfo(contextName string) ClusterInfo {
	info := ClusterInfo{Name: contextName}

	kubeContext, exists := c.kubeconfigData.Contexts[contextName]
	if !exists {
		return info
	}

	info.Name = kubeContext.Cluster
	if cluster, exists := c.kubeconfigData.Clusters[kubeContext.Cluster]; exists {
		info.Server = cluster.Server
	}

	return info
}

// invalidateOverviewCache drops cached aggregates. Called on context switch
// so data from the previous cluster never leaks into the new one.
func (c *kubernetesClient) invalidateOverviewCache() {
	c.overviewMu.Lock()
	c.overviewCached = nil
	c.overviewExpires = time.Time{}
	c.overviewMu.Unlock()

	c.metricsMu.Lock()
	c.metricsAvailable = nil
	c.metricsChecked = time.Time{}
	c.metricsMu.Unlock()
}

// ListNodes returns node summaries with capacity and allocatable totals.
// Usage percentages stay zero here; the metrics layer fills them in.
func (c *kubernetesClient) ListNodes(ctx context.Context) ([]NodeDetails, error) {
	c.logOperation("list-nodes", "", "", "")

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}

	nodeList, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	nodes := make([]NodeDetails, 0, len(nodeList.Items))
	for i := range nodeList.Items {
		nodes = append(nodes, nodeDetails(&nodeList.Items[i]))
	}

	return nodes, nil
}

// nodeDetails maps a node to its summary form.
func nodeDetails(node *corev1.Node) NodeDetails {
	details := NodeDetails{
		Name:           node.Name,
		Status:         "NotReady",
		KubeletVersion: node.Status.NodeInfo.KubeletVersion,
	}

	capacityCPU := node.Status.Capacity[corev1.ResourceCPU]
	capacityMemory := node.Status.Capacity[corev1.ResourceMemory]
	details.MaxCPUCores = float64(capacityCPU.MilliValue()) / 1000.0
	details.MaxMemoryBytes = capacityMemory.Value()

	allocatableCPU := node.Status.Allocatable[corev1.ResourceCPU]
	allocatableMemory := node.Status.Allocatable[corev1.ResourceMemory]
	details.AllocatableCPUCores = float64(allocatableCPU.MilliValue()) / 1000.0
	details.AllocatableMemoryBytes = allocatableMemory.Value()

	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
			details.Status = "Ready"
		}
		if cond.Status == corev1.ConditionTrue {
			details.Conditions = append(details.Conditions, string(cond.Type))
		}
	}

	return details
}

// ListNamespaces returns namespace names with status.
func (c *kubernetesClient) ListNamespaces(ctx context.Context) ([]NamespaceInfo, error) {
	c.logOperation("list-namespaces", "", "", "")

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}

	namespaceList, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	namespaces := make([]NamespaceInfo, 0, len(namespaceList.Items))
	for _, ns := range namespaceList.Items {
		namespaces = append(namespaces, NamespaceInfo{
			Name:    ns.Name,
			Status:  string(ns.Status.Phase),
			Created: ns.CreationTimestamp.Format(time.RFC3339),
		})
	}

	return namespaces, nil
}
