// Package pod implements MCP tools for pod level inspection and lifecycle.
package pod

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

// eventListResponse is the pod_events payload.
type eventListResponse struct {
	Pod       string          `json:"pod"`
	Namespace string          `json:"namespace"`
	Count     int             `json:"count"`
	Events    []k8s.EventInfo `json:"events"`
}

func handlePodLogs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	namespace := tools.NamespaceOrDefault(sc, args)

	podName, err := request.RequireString("podName")
	if err != nil {
		return mcp.NewToolResultError("podName is required"), nil
	}

	opts := k8s.LogOptions{
		Container: request.GetString("containerName", ""),
	}
	opts.Previous, _ = args["previous"].(bool)
	opts.Timestamps, _ = args["timestamps"].(bool)
	if tailLines, ok := args["tailLines"].(float64); ok {
		lines := int64(tailLines)
		opts.TailLines = &lines
	}

	start := time.Now()
	logs, err := sc.K8sClient().GetPodLogs(ctx, namespace, podName, opts)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationLogs, "pods", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get pod logs: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationLogs, "pods", namespace, instrumentation.StatusSuccess, duration)

	if logs == "" {
		logs = fmt.Sprintf("No logs available for pod %s", podName)
	}

	return mcp.NewToolResultText(logs), nil
}

func handlePodEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	podName, err := request.RequireString("podName")
	if err != nil {
		return mcp.NewToolResultError("podName is required"), nil
	}

	start := time.Now()
	events, err := sc.K8sClient().GetPodEvents(ctx, namespace, podName)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationList, "events", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get pod events: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationList, "events", namespace, instrumentation.StatusSuccess, duration)

	response := eventListResponse{
		Pod:       podName,
		Namespace: namespace,
		Count:     len(events),
		Events:    events,
	}
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal events: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handlePodDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "delete"); result != nil {
		return result, nil
	}

	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	podName, err := request.RequireString("podName")
	if err != nil {
		return mcp.NewToolResultError("podName is required"), nil
	}

	start := time.Now()
	err = sc.K8sClient().DeletePod(ctx, namespace, podName)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationDelete, "pods", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete pod: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationDelete, "pods", namespace, instrumentation.StatusSuccess, duration)

	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted pod: %s", podName)), nil
}

// handlePodRestart deletes the pod and relies on its controller to bring up
// a replacement. Bare pods are gone for good, which the response spells out.
func handlePodRestart(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "restart"); result != nil {
		return result, nil
	}

	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	podName, err := request.RequireString("podName")
	if err != nil {
		return mcp.NewToolResultError("podName is required"), nil
	}

	start := time.Now()
	err = sc.K8sClient().DeletePod(ctx, namespace, podName)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationRestart, "pods", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to restart pod: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationRestart, "pods", namespace, instrumentation.StatusSuccess, duration)

	return mcp.NewToolResultText(fmt.Sprintf("Restarted pod %s: deleted, its controller will recreate it", podName)), nil
}

func handlePodDescribe(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	podName, err := request.RequireString("podName")
	if err != nil {
		return mcp.NewToolResultError("podName is required"), nil
	}

	start := time.Now()
	description, err := sc.K8sClient().DescribePod(ctx, namespace, podName)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "pods", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to describe pod: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "pods", namespace, instrumentation.StatusSuccess, duration)

	jsonData, err := json.MarshalIndent(description, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal pod description: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
