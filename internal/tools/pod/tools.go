package pod

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools"
)

// RegisterPodTools registers pod inspection and lifecycle tools with the
// MCP server.
func RegisterPodTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	logsTool := mcp.NewTool("pod_logs",
		mcp.WithDescription("Get logs from a pod container"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the pod. Uses the default namespace if not specified."),
		),
		mcp.WithString("podName",
			mcp.Required(),
			mcp.Description("Name of the pod"),
		),
		mcp.WithString("containerName",
			mcp.Description("Container to read from (optional for single-container pods)"),
		),
		mcp.WithBoolean("previous",
			mcp.Description("Read logs from the previous container instance (default: false)"),
		),
		mcp.WithBoolean("timestamps",
			mcp.Description("Prefix each line with its timestamp (default: false)"),
		),
		mcp.WithNumber("tailLines",
			mcp.Description("Number of lines from the end of the logs (optional)"),
		),
	)
	s.AddTool(logsTool, tools.WrapWithAuditLogging("pod_logs", handlePodLogs, sc))

	eventsTool := mcp.NewTool("pod_events",
		mcp.WithDescription("List the events recorded for a pod, oldest first"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the pod. Uses the default namespace if not specified."),
		),
		mcp.WithString("podName",
			mcp.Required(),
			mcp.Description("Name of the pod"),
		),
	)
	s.AddTool(eventsTool, tools.WrapWithAuditLogging("pod_events", handlePodEvents, sc))

	deleteTool := mcp.NewTool("pod_delete",
		mcp.WithDescription("Delete a pod"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the pod. Uses the default namespace if not specified."),
		),
		mcp.WithString("podName",
			mcp.Required(),
			mcp.Description("Name of the pod to delete"),
		),
	)
	s.AddTool(deleteTool, tools.WrapWithAuditLogging("pod_delete", handlePodDelete, sc))

	restartTool := mcp.NewTool("pod_restart",
		mcp.WithDescription(`Restart a pod by deleting it. The owning controller recreates it; a pod
without a controller stays gone.`),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the pod. Uses the default namespace if not specified."),
		),
		mcp.WithString("podName",
			mcp.Required(),
			mcp.Description("Name of the pod to restart"),
		),
	)
	s.AddTool(restartTool, tools.WrapWithAuditLogging("pod_restart", handlePodRestart, sc))

	describeTool := mcp.NewTool("pod_describe",
		mcp.WithDescription("Get a structured pod summary: status, containers, conditions and events"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the pod. Uses the default namespace if not specified."),
		),
		mcp.WithString("podName",
			mcp.Required(),
			mcp.Description("Name of the pod"),
		),
	)
	s.AddTool(describeTool, tools.WrapWithAuditLogging("pod_describe", handlePodDescribe, sc))

	return nil
}
