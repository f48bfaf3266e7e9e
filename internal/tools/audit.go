// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/server"
)

// WrapWithAuditLogging wraps a tool handler with audit logging, tool metrics
// and a tracing span. The wrapper captures:
//   - Tool invocation timing and success/error status
//   - Resource information from request arguments
//   - OpenTelemetry trace context for correlation
//
// The audit record goes through the server's structured logger, so it is
// written even when instrumentation is disabled; metrics recording degrades
// to a no-op in that case.
func WrapWithAuditLogging(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	auditLogger := instrumentation.NewAuditLogger(sc.Logger())

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)

		extractAuditInfoFromArgs(invocation, request.GetArguments())

		result, err := handler(ctx, request, sc)

		if err != nil {
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		} else if result != nil && result.IsError {
			// MCP tool errors are returned in the result, not as Go errors
			invocation.Complete(false, nil)
			if len(result.Content) > 0 {
				if textContent, ok := result.Content[0].(mcp.TextContent); ok {
					invocation.Error = textContent.Text
				}
			}
		} else {
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		auditLogger.LogInvocation(ctx, invocation)
		sc.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), invocation.Duration)

		return result, err
	}
}

// extractAuditInfoFromArgs extracts namespace and resource information from
// tool request arguments for audit logging.
func extractAuditInfoFromArgs(invocation *instrumentation.ToolInvocation, args map[string]interface{}) {
	namespace, _ := args["namespace"].(string)
	resourceType, _ := args["resourceType"].(string)
	if resourceType == "" {
		// Watch tools identify their target by kind.
		resourceType, _ = args["kind"].(string)
	}
	resourceName := extractResourceName(args)

	if namespace != "" || resourceType != "" || resourceName != "" {
		invocation.WithResource(namespace, resourceType, resourceName)
	}
}

// extractResourceName extracts the resource name from various argument
// patterns. Different tools use different parameter names for it.
func extractResourceName(args map[string]interface{}) string {
	nameKeys := []string{"name", "podName", "nodeName", "contextName"}
	for _, key := range nameKeys {
		if name, ok := args[key].(string); ok && name != "" {
			return name
		}
	}
	return ""
}
