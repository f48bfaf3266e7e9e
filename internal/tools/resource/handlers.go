// Package resource implements the generic resource tools. They work through
// the dynamic client, so any resource type the cluster serves is reachable,
// including custom resources.
package resource

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

// listResponse is the resource_list payload. Continue carries the server's
// pagination token when more pages exist.
type listResponse struct {
	Count    int                      `json:"count"`
	Items    []map[string]interface{} `json:"items"`
	Continue string                   `json:"continue,omitempty"`
}

func handleResourceGet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	resourceType, err := request.RequireString("resourceType")
	if err != nil {
		return mcp.NewToolResultError("resourceType is required"), nil
	}

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	reveal, _ := request.GetArguments()["reveal"].(bool)

	start := time.Now()
	obj, err := sc.K8sClient().GetResource(ctx, namespace, resourceType, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationGet, resourceType, namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get resource: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationGet, resourceType, namespace, instrumentation.StatusSuccess, duration)

	object := obj.Object
	if !reveal {
		object = maskSecret(obj)
	}

	jsonData, err := json.MarshalIndent(object, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal resource: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleResourceList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	namespace := tools.NamespaceOrDefault(sc, args)

	resourceType, err := request.RequireString("resourceType")
	if err != nil {
		return mcp.NewToolResultError("resourceType is required"), nil
	}

	opts := k8s.ListOptions{
		LabelSelector: request.GetString("labelSelector", ""),
		FieldSelector: request.GetString("fieldSelector", ""),
		Continue:      request.GetString("continue", ""),
	}
	opts.AllNamespaces, _ = args["allNamespaces"].(bool)
	if limit, ok := args["limit"].(float64); ok {
		opts.Limit = int64(limit)
	}
	reveal, _ := args["reveal"].(bool)

	metricsNamespace := namespace
	if opts.AllNamespaces {
		metricsNamespace = ""
	}

	start := time.Now()
	list, err := sc.K8sClient().ListResources(ctx, namespace, resourceType, opts)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationList, resourceType, metricsNamespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list resources: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationList, resourceType, metricsNamespace, instrumentation.StatusSuccess, duration)

	response := listResponse{
		Count:    len(list.Items),
		Items:    make([]map[string]interface{}, 0, len(list.Items)),
		Continue: list.GetContinue(),
	}
	for i := range list.Items {
		item := list.Items[i].Object
		if !reveal {
			item = maskSecret(&list.Items[i])
		}
		response.Items = append(response.Items, item)
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal resources: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleResourceDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "delete"); result != nil {
		return result, nil
	}

	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	resourceType, err := request.RequireString("resourceType")
	if err != nil {
		return mcp.NewToolResultError("resourceType is required"), nil
	}

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	start := time.Now()
	err = sc.K8sClient().DeleteResource(ctx, namespace, resourceType, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationDelete, resourceType, namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete resource: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationDelete, resourceType, namespace, instrumentation.StatusSuccess, duration)

	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted %s: %s", resourceType, name)), nil
}

func handleResourceYAMLGet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	resourceType, err := request.RequireString("resourceType")
	if err != nil {
		return mcp.NewToolResultError("resourceType is required"), nil
	}

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	reveal, _ := request.GetArguments()["reveal"].(bool)

	start := time.Now()
	manifest, err := sc.K8sClient().GetResourceYAML(ctx, namespace, resourceType, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationGet, resourceType, namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get resource YAML: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationGet, resourceType, namespace, instrumentation.StatusSuccess, duration)

	if !reveal {
		manifest, err = maskSecretYAML(manifest)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to mask secret data: %v", err)), nil
		}
	}

	return mcp.NewToolResultText(manifest), nil
}

func handleResourceYAMLUpdate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "update"); result != nil {
		return result, nil
	}

	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	resourceType, err := request.RequireString("resourceType")
	if err != nil {
		return mcp.NewToolResultError("resourceType is required"), nil
	}

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	manifest, err := request.RequireString("manifest")
	if err != nil {
		return mcp.NewToolResultError("manifest is required"), nil
	}

	start := time.Now()
	err = sc.K8sClient().UpdateResourceYAML(ctx, namespace, resourceType, name, manifest)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationUpdate, resourceType, namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update resource: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationUpdate, resourceType, namespace, instrumentation.StatusSuccess, duration)

	return mcp.NewToolResultText(fmt.Sprintf("Successfully updated %s: %s", resourceType, name)), nil
}
