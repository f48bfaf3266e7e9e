// Package watchtools registers MCP tools that control the resource watch
// tasks. A started watch streams change events to the UI until it is
// stopped or its stream fails.
package watchtools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools"
	"github.com/kubedeck/kubedeck/internal/watch"
)

// RegisterWatchTools registers all watch lifecycle tools with the MCP server.
func RegisterWatchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	kindDescription := fmt.Sprintf("Resource kind to watch. One of: %s",
		strings.Join(watch.Kinds(), ", "))

	startTool := mcp.NewTool("watch_start",
		mcp.WithDescription("Start watching a resource kind across all namespaces. Change events stream to the client as notifications until the watch is stopped. Starting a kind that is already watched replaces the running watch."),
		mcp.WithString("kind",
			mcp.Description(kindDescription),
			mcp.Required(),
			mcp.Enum(watch.Kinds()...),
		),
	)
	s.AddTool(startTool, tools.WrapWithAuditLogging("watch_start", handleWatchStart, sc))

	stopTool := mcp.NewTool("watch_stop",
		mcp.WithDescription("Stop watching a resource kind. Succeeds even when the kind is not being watched."),
		mcp.WithString("kind",
			mcp.Description("Resource kind to stop watching"),
			mcp.Required(),
			mcp.Enum(watch.Kinds()...),
		),
	)
	s.AddTool(stopTool, tools.WrapWithAuditLogging("watch_stop", handleWatchStop, sc))

	statusTool := mcp.NewTool("watch_status",
		mcp.WithDescription("Report which resource kinds currently have a live watch"),
	)
	s.AddTool(statusTool, tools.WrapWithAuditLogging("watch_status", handleWatchStatus, sc))

	return nil
}
