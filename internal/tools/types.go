package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubedeck/kubedeck/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take
// ServerContext. WrapWithAuditLogging adapts a ToolHandler to the plain
// handler signature mcp-go registers.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)
