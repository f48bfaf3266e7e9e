package cluster

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools"
)

// RegisterClusterTools registers cluster overview and metrics tools with the
// MCP server.
func RegisterClusterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	overviewTool := mcp.NewTool("cluster_overview",
		mcp.WithDescription(`Get a cluster summary: node, namespace, pod and deployment counts plus the
server version. Results are cached briefly, so repeated calls are cheap.`),
	)
	s.AddTool(overviewTool, tools.WrapWithAuditLogging("cluster_overview", handleClusterOverview, sc))

	clusterMetricsTool := mcp.NewTool("cluster_metrics",
		mcp.WithDescription(`Get aggregate CPU and memory capacity and usage across all nodes. Usage
comes from the metrics API when installed; otherwise synthesized values are
returned with "mocked": true.`),
	)
	s.AddTool(clusterMetricsTool, tools.WrapWithAuditLogging("cluster_metrics", handleClusterMetrics, sc))

	nodeListTool := mcp.NewTool("node_list",
		mcp.WithDescription("List cluster nodes with capacity, conditions and kubelet version"),
	)
	s.AddTool(nodeListTool, tools.WrapWithAuditLogging("node_list", handleNodeList, sc))

	namespaceListTool := mcp.NewTool("namespace_list",
		mcp.WithDescription("List namespaces with their phase"),
	)
	s.AddTool(namespaceListTool, tools.WrapWithAuditLogging("namespace_list", handleNamespaceList, sc))

	nodeMetricsTool := mcp.NewTool("node_metrics",
		mcp.WithDescription(`Get CPU and memory usage for one node. Returns a current sample by
default; pass 'duration' (e.g. "15m", "1h") for a usage timeline.`),
		mcp.WithString("nodeName",
			mcp.Required(),
			mcp.Description("Name of the node"),
		),
		mcp.WithString("duration",
			mcp.Description("Optional history window as a Go duration string (e.g. '30m', '2h')"),
		),
	)
	s.AddTool(nodeMetricsTool, tools.WrapWithAuditLogging("node_metrics", handleNodeMetrics, sc))

	podMetricsTool := mcp.NewTool("pod_metrics",
		mcp.WithDescription("Get current CPU and memory usage for pods in a namespace"),
		mcp.WithString("namespace",
			mcp.Description("Namespace to sample. Uses the default namespace if not specified."),
		),
	)
	s.AddTool(podMetricsTool, tools.WrapWithAuditLogging("pod_metrics", handlePodMetrics, sc))

	return nil
}
