package contexttools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools"
)

// RegisterContextTools registers kubeconfig context tools with the MCP server.
func RegisterContextTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("context_list",
		mcp.WithDescription("List all contexts from the kubeconfig, marking the active one"),
	)
	s.AddTool(listTool, tools.WrapWithAuditLogging("context_list", handleContextList, sc))

	currentTool := mcp.NewTool("context_current",
		mcp.WithDescription("Get the name of the active Kubernetes context, empty when none is set"),
	)
	s.AddTool(currentTool, tools.WrapWithAuditLogging("context_current", handleContextCurrent, sc))

	setTool := mcp.NewTool("context_set",
		mcp.WithDescription(`Switch the active Kubernetes context.

Builds and verifies a client for the named context before making it active.
Watch tasks started under the previous context keep streaming from their
existing connections; stop and restart them to move them over.`),
		mcp.WithString("contextName",
			mcp.Required(),
			mcp.Description("Name of the kubeconfig context to activate"),
		),
	)
	s.AddTool(setTool, tools.WrapWithAuditLogging("context_set", handleContextSet, sc))

	return nil
}
