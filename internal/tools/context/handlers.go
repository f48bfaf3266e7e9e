// Package contexttools implements MCP tools for kubeconfig context management.
package contexttools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubedeck/kubedeck/internal/server"
)

// handleContextList lists kubeconfig contexts.
func handleContextList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	contexts, err := sc.K8sClient().ListContexts(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list contexts: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(contexts, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal contexts: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleContextCurrent reports the active context name. The name is empty
// until the first successful context_set.
func handleContextCurrent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	response := map[string]string{
		"currentContext": sc.K8sClient().CurrentContext(),
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal current context: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleContextSet switches the active context. Running watch tasks are left
// alone; they keep their streams from the previous context until stopped or
// until the stream fails.
func handleContextSet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	contextName, ok := args["contextName"].(string)
	if !ok || contextName == "" {
		return mcp.NewToolResultError("contextName is required"), nil
	}

	if err := sc.K8sClient().SwitchContext(ctx, contextName); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to switch context: %v", err)), nil
	}

	sc.Logger().Info("switched active context", "context", contextName)

	return mcp.NewToolResultText(fmt.Sprintf("Successfully switched to context: %s", contextName)), nil
}
