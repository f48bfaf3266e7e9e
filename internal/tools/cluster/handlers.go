// Package cluster implements MCP tools for cluster level inspection.
package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/k8s"
	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools"
)

// nodeMetricsResponse is the node_metrics payload. Either Current or
// History is set, depending on whether a duration was requested.
type nodeMetricsResponse struct {
	NodeName         string              `json:"nodeName"`
	MetricsAvailable bool                `json:"metricsAvailable"`
	Current          *k8s.MetricsPoint   `json:"current,omitempty"`
	History          *k8s.MetricsHistory `json:"history,omitempty"`
}

// podMetricsResponse is the pod_metrics payload.
type podMetricsResponse struct {
	Namespace string           `json:"namespace"`
	Count     int              `json:"count"`
	Pods      []k8s.PodMetrics `json:"pods"`
}

// nodeListResponse is the node_list payload.
type nodeListResponse struct {
	Count int               `json:"count"`
	Nodes []k8s.NodeDetails `json:"nodes"`
}

// namespaceListResponse is the namespace_list payload.
type namespaceListResponse struct {
	Count      int                 `json:"count"`
	Namespaces []k8s.NamespaceInfo `json:"namespaces"`
}

func handleClusterOverview(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	overview, err := sc.K8sClient().GetClusterOverview(ctx)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "cluster", "", instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get cluster overview: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "cluster", "", instrumentation.StatusSuccess, duration)

	jsonData, err := json.MarshalIndent(overview, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal cluster overview: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleClusterMetrics(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	metrics, err := sc.K8sClient().GetClusterMetrics(ctx)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "metrics", "", instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get cluster metrics: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "metrics", "", instrumentation.StatusSuccess, duration)

	jsonData, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal cluster metrics: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleNodeList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	nodes, err := sc.K8sClient().ListNodes(ctx)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationList, "nodes", "", instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list nodes: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationList, "nodes", "", instrumentation.StatusSuccess, duration)

	response := nodeListResponse{Count: len(nodes), Nodes: nodes}
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal nodes: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleNamespaceList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	namespaces, err := sc.K8sClient().ListNamespaces(ctx)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationList, "namespaces", "", instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list namespaces: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationList, "namespaces", "", instrumentation.StatusSuccess, duration)

	response := namespaceListResponse{Count: len(namespaces), Namespaces: namespaces}
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal namespaces: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleNodeMetrics(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	nodeName, ok := args["nodeName"].(string)
	if !ok || nodeName == "" {
		return mcp.NewToolResultError("nodeName is required"), nil
	}

	response := nodeMetricsResponse{
		NodeName:         nodeName,
		MetricsAvailable: sc.K8sClient().MetricsAvailable(ctx),
	}

	durationArg, _ := args["duration"].(string)
	start := time.Now()
	if durationArg != "" {
		window, err := time.ParseDuration(durationArg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid duration %q: %v", durationArg, err)), nil
		}
		history, err := sc.K8sClient().GetNodeMetricsHistory(ctx, nodeName, window)
		elapsed := time.Since(start)
		if err != nil {
			sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "metrics", "", instrumentation.StatusError, elapsed)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get node metrics history: %v", err)), nil
		}
		sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "metrics", "", instrumentation.StatusSuccess, elapsed)
		response.History = history
	} else {
		current, err := sc.K8sClient().GetNodeMetrics(ctx, nodeName)
		elapsed := time.Since(start)
		if err != nil {
			sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "metrics", "", instrumentation.StatusError, elapsed)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get node metrics: %v", err)), nil
		}
		sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "metrics", "", instrumentation.StatusSuccess, elapsed)
		response.Current = current
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal node metrics: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handlePodMetrics(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	namespace := tools.NamespaceOrDefault(sc, args)

	start := time.Now()
	metrics, err := sc.K8sClient().GetPodMetrics(ctx, namespace)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationList, "metrics", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get pod metrics: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationList, "metrics", namespace, instrumentation.StatusSuccess, duration)

	response := podMetricsResponse{Namespace: namespace, Count: len(metrics), Pods: metrics}
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal pod metrics: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
