package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// metricsAPIPath is the base path of the metrics server's resource API.
const metricsAPIPath = "/apis/metrics.k8s.io/v1beta1"

// nodeMetricsPayload is the wire shape of a metrics.k8s.io NodeMetrics
// object, reduced to the fields the dashboard needs.
type nodeMetricsPayload struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Usage map[string]string `json:"usage"`
}

type nodeMetricsList struct {
	Items []nodeMetricsPayload `json:"items"`
}

type podMetricsList struct {
	Items []struct {
		Metadata struct {
			Name      string `json:"name"`
			Namespace string `json:"namespace"`
		} `json:"metadata"`
		Containers []struct {
			Usage map[string]string `json:"usage"`
		} `json:"containers"`
	} `json:"items"`
}

// MetricsAvailable reports whether the metrics API responds. The probe
// result is cached so dashboard polling does not hammer a cluster that has
// no metrics server installed.
func (c *kubernetesClient) MetricsAvailable(ctx context.Context) bool {
	clientset, err := c.Clientset()
	if err != nil {
		return false
	}

	c.metricsMu.Lock()
	if c.metricsAvailable != nil && time.Since(c.metricsChecked) < MetricsCheckTTL {
		available := *c.metricsAvailable
		c.metricsMu.Unlock()
		return available
	}
	c.metricsMu.Unlock()

	_, err = clientset.CoreV1().RESTClient().Get().AbsPath(metricsAPIPath).DoRaw(ctx)
	available := err == nil

	c.metricsMu.Lock()
	c.metricsAvailable = &available
	c.metricsChecked = time.Now()
	c.metricsMu.Unlock()

	if !available && c.config.Logger != nil {
		c.config.Logger.Debug("metrics API not available, usage data will be synthesized",
			"error", err)
	}

	return available
}

// GetNodeMetrics returns a current usage sample for one node. Clusters
// without a metrics server get a synthesized sample instead of an error.
func (c *kubernetesClient) GetNodeMetrics(ctx context.Context, nodeName string) (*MetricsPoint, error) {
	c.logOperation("node-metrics", "", "node", nodeName)

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}

	node, err := clientset.CoreV1().Nodes().Get(ctx, nodeName, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get node %q: %w", nodeName, err)
	}
	details := nodeDetails(node)

	if !c.MetricsAvailable(ctx) {
		point := mockMetricsPoint(nodeName, time.Now(), details)
		return &point, nil
	}

	raw, err := clientset.CoreV1().RESTClient().Get().
		AbsPath(metricsAPIPath + "/nodes/" + nodeName).
		DoRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics for node %q: %w", nodeName, err)
	}

	var payload nodeMetricsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode metrics for node %q: %w", nodeName, err)
	}

	cores := quantityToCores(payload.Usage["cpu"])
	bytes := quantityToBytes(payload.Usage["memory"])

	return &MetricsPoint{
		Timestamp:          time.Now().Unix(),
		CPUUsageCores:      cores,
		MemoryUsageBytes:   bytes,
		CPUUsagePercent:    percentOf(cores, details.MaxCPUCores),
		MemoryUsagePercent: percentOf(float64(bytes), float64(details.MaxMemoryBytes)),
	}, nil
}

// GetNodeMetricsHistory returns a usage timeline for one node. The final
// point is the current sample; earlier points are synthesized around it so
// charts have a trail to draw immediately.
func (c *kubernetesClient) GetNodeMetricsHistory(ctx context.Context, nodeName string, duration time.Duration) (*MetricsHistory, error) {
	c.logOperation("node-metrics-history", "", "node", nodeName)

	if duration <= 0 {
		duration = DefaultMetricsWindow
	}

	current, err := c.GetNodeMetrics(ctx, nodeName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	count := int(duration / MetricsHistoryStep)

	history := &MetricsHistory{
		NodeName:    nodeName,
		Points:      make([]MetricsPoint, 0, count+1),
		LastUpdated: now.Format(time.RFC3339),
		Mocked:      current.Mocked,
	}

	for i := count; i > 0; i-- {
		at := now.Add(-time.Duration(i) * MetricsHistoryStep)
		history.Points = append(history.Points, trailPoint(*current, nodeName, at))
	}
	history.Points = append(history.Points, *current)

	return history, nil
}

// GetPodMetrics returns current usage samples for pods in a namespace.
func (c *kubernetesClient) GetPodMetrics(ctx context.Context, namespace string) ([]PodMetrics, error) {
	c.logOperation("pod-metrics", namespace, "", "")

	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	if !c.MetricsAvailable(ctx) {
		podList, err := clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to list pods in %q: %w", namespace, err)
		}

		now := time.Now()
		metrics := make([]PodMetrics, 0, len(podList.Items))
		for _, pod := range podList.Items {
			cpuPercent, memPercent := mockUsagePercent(pod.Name, now)
			metrics = append(metrics, PodMetrics{
				Name:             pod.Name,
				Namespace:        pod.Namespace,
				CPUUsageCores:    cpuPercent / 100,
				MemoryUsageBytes: int64(memPercent / 100 * float64(512<<20)),
				Mocked:           true,
			})
		}
		return metrics, nil
	}

	raw, err := clientset.CoreV1().RESTClient().Get().
		AbsPath(metricsAPIPath + "/namespaces/" + namespace + "/pods").
		DoRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pod metrics in %q: %w", namespace, err)
	}

	var list podMetricsList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode pod metrics: %w", err)
	}

	metrics := make([]PodMetrics, 0, len(list.Items))
	for _, item := range list.Items {
		var cores float64
		var bytes int64
		for _, container := range item.Containers {
			cores += quantityToCores(container.Usage["cpu"])
			bytes += quantityToBytes(container.Usage["memory"])
		}
		metrics = append(metrics, PodMetrics{
			Name:             item.Metadata.Name,
			Namespace:        item.Metadata.Namespace,
			CPUUsageCores:    cores,
			MemoryUsageBytes: bytes,
		})
	}

	return metrics, nil
}

// GetClusterMetrics aggregates capacity and usage across all nodes.
func (c *kubernetesClient) GetClusterMetrics(ctx context.Context) (*ClusterMetrics, error) {
	c.logOperation("cluster-metrics", "", "", "")

	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	usage := map[string]nodeUsage{}
	if c.MetricsAvailable(ctx) {
		if live, err := c.liveNodeUsage(ctx); err == nil {
			usage = live
		}
	}

	now := time.Now()
	metrics := &ClusterMetrics{
		MaxNodes: len(nodes),
		Nodes:    make([]NodeDetails, 0, len(nodes)),
	}

	for _, node := range nodes {
		if node.Status == "Ready" {
			metrics.ActiveNodes++
		}
		if u, ok := usage[node.Name]; ok {
			node.CPUUsagePercent = percentOf(u.cpuCores, node.MaxCPUCores)
			node.MemoryUsagePercent = percentOf(float64(u.memoryBytes), float64(node.MaxMemoryBytes))
		} else {
			node.CPUUsagePercent, node.MemoryUsagePercent = mockUsagePercent(node.Name, now)
		}
		metrics.Nodes = append(metrics.Nodes, node)
	}

	return metrics, nil
}

type nodeUsage struct {
	cpuCores    float64
	memoryBytes int64
}

// liveNodeUsage fetches usage for every node in one request.
func (c *kubernetesClient) liveNodeUsage(ctx context.Context) (map[string]nodeUsage, error) {
	clientset, err := c.Clientset()
	if err != nil {
		return nil, err
	}

	raw, err := clientset.CoreV1().RESTClient().Get().
		AbsPath(metricsAPIPath + "/nodes").
		DoRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get node metrics: %w", err)
	}

	var list nodeMetricsList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode node metrics: %w", err)
	}

	usage := make(map[string]nodeUsage, len(list.Items))
	for _, item := range list.Items {
		usage[item.Metadata.Name] = nodeUsage{
			cpuCores:    quantityToCores(item.Usage["cpu"]),
			memoryBytes: quantityToBytes(item.Usage["memory"]),
		}
	}

	return usage, nil
}

// mockMetricsPoint synthesizes a plausible usage sample for clusters
// without a metrics server. Values derive from the node name and the clock
// so charts stay smooth across calls.
func mockMetricsPoint(nodeName string, at time.Time, node NodeDetails) MetricsPoint {
	cpuPercent, memPercent := mockUsagePercent(nodeName, at)

	maxCPU := node.MaxCPUCores
	if maxCPU == 0 {
		maxCPU = 4
	}
	maxMemory := node.MaxMemoryBytes
	if maxMemory == 0 {
		maxMemory = 8 << 30
	}

	return MetricsPoint{
		Timestamp:          at.Unix(),
		CPUUsageCores:      maxCPU * cpuPercent / 100,
		MemoryUsageBytes:   int64(float64(maxMemory) * memPercent / 100),
		CPUUsagePercent:    cpuPercent,
		MemoryUsagePercent: memPercent,
		Mocked:             true,
	}
}

// mockUsagePercent derives a baseline from the seed name and wobbles it
// with slow sine waves so consecutive samples form a believable curve.
func mockUsagePercent(seed string, at time.Time) (cpuPercent, memPercent float64) {
	h := fnv.New32a()
	h.Write([]byte(seed))
	base := 20 + float64(h.Sum32()%40)

	t := float64(at.Unix())
	cpuPercent = clampPercent(base + 12*math.Sin(t/300))
	memPercent = clampPercent(base + 8*math.Sin(t/600+1))
	return cpuPercent, memPercent
}

// trailPoint synthesizes a historical point around a current sample.
func trailPoint(current MetricsPoint, seed string, at time.Time) MetricsPoint {
	h := fnv.New32a()
	h.Write([]byte(seed))
	phase := float64(h.Sum32() % 7)

	factor := 1 + 0.1*math.Sin(float64(at.Unix())/240+phase)

	return MetricsPoint{
		Timestamp:          at.Unix(),
		CPUUsageCores:      current.CPUUsageCores * factor,
		MemoryUsageBytes:   int64(float64(current.MemoryUsageBytes) * factor),
		CPUUsagePercent:    clampPercent(current.CPUUsagePercent * factor),
		MemoryUsagePercent: clampPercent(current.MemoryUsagePercent * factor),
		Mocked:             true,
	}
}

func clampPercent(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 95 {
		return 95
	}
	return v
}

func percentOf(used, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return used / capacity * 100
}

func quantityToCores(q string) float64 {
	quantity, err := resource.ParseQuantity(q)
	if err != nil {
		return 0
	}
	return float64(quantity.MilliValue()) / 1000.0
}

func quantityToBytes(q string) int64 {
	quantity, err := resource.ParseQuantity(q)
	if err != nil {
		return 0
	}
	return quantity.Value()
}
