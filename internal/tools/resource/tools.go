package resource

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools"
)

// RegisterResourceTools registers the generic resource tools with the MCP
// server. They resolve resource types against a builtin kind map with API
// discovery as fallback, so custom resources work too.
func RegisterResourceTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getOpts := []mcp.ToolOption{
		mcp.WithDescription(`Get a single Kubernetes resource by type and name.

Namespace handling:
- Namespaced resources use the configured default namespace when none is given
- Cluster-scoped resources (nodes, namespaces, PVs) ignore the namespace

Secret data is masked unless 'reveal' is set.`),
		mcp.WithString("namespace",
			mcp.Description("Namespace for namespaced resources. Uses the default namespace if not specified."),
		),
		mcp.WithString("resourceType",
			mcp.Required(),
			mcp.Description("Type of resource (e.g. pod, deployment, service, configmap)"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the resource"),
		),
		mcp.WithBoolean("reveal",
			mcp.Description("Return secret values in clear instead of masking them (default: false)"),
		),
	}
	getTool := mcp.NewTool("resource_get", getOpts...)
	s.AddTool(getTool, tools.WrapWithAuditLogging("resource_get", handleResourceGet, sc))

	listOpts := []mcp.ToolOption{
		mcp.WithDescription(`List Kubernetes resources of a type with optional filtering.

Examples:
- List pods in the default namespace: {"resourceType": "pods"}
- List pods everywhere: {"resourceType": "pods", "allNamespaces": true}
- List by label: {"resourceType": "deployments", "labelSelector": "app=web"}`),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list in. Uses the default namespace if not specified."),
		),
		mcp.WithString("resourceType",
			mcp.Required(),
			mcp.Description("Type of resource to list (e.g. pods, deployments, services)"),
		),
		mcp.WithString("labelSelector",
			mcp.Description("Server-side label selector (e.g. 'app=nginx,env=prod')"),
		),
		mcp.WithString("fieldSelector",
			mcp.Description("Server-side field selector (e.g. 'status.phase=Running')"),
		),
		mcp.WithBoolean("allNamespaces",
			mcp.Description("List across all namespaces, overriding 'namespace'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of items per page (optional)"),
		),
		mcp.WithString("continue",
			mcp.Description("Continue token from a previous paginated response (optional)"),
		),
		mcp.WithBoolean("reveal",
			mcp.Description("Return secret values in clear instead of masking them (default: false)"),
		),
	}
	listTool := mcp.NewTool("resource_list", listOpts...)
	s.AddTool(listTool, tools.WrapWithAuditLogging("resource_list", handleResourceList, sc))

	deleteOpts := []mcp.ToolOption{
		mcp.WithDescription("Delete a Kubernetes resource by type and name"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the resource. Uses the default namespace if not specified."),
		),
		mcp.WithString("resourceType",
			mcp.Required(),
			mcp.Description("Type of resource to delete"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the resource to delete"),
		),
	}
	deleteTool := mcp.NewTool("resource_delete", deleteOpts...)
	s.AddTool(deleteTool, tools.WrapWithAuditLogging("resource_delete", handleResourceDelete, sc))

	yamlGetOpts := []mcp.ToolOption{
		mcp.WithDescription(`Get a resource rendered as YAML, suitable for an edit view. The noisy
managedFields metadata is stripped. Secret data is masked unless 'reveal'
is set.`),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the resource. Uses the default namespace if not specified."),
		),
		mcp.WithString("resourceType",
			mcp.Required(),
			mcp.Description("Type of resource"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the resource"),
		),
		mcp.WithBoolean("reveal",
			mcp.Description("Return secret values in clear instead of masking them (default: false)"),
		),
	}
	yamlGetTool := mcp.NewTool("resource_yaml_get", yamlGetOpts...)
	s.AddTool(yamlGetTool, tools.WrapWithAuditLogging("resource_yaml_get", handleResourceYAMLGet, sc))

	yamlUpdateOpts := []mcp.ToolOption{
		mcp.WithDescription(`Replace a resource from a YAML manifest. The manifest must parse to the
same kind and name; the live object's resourceVersion is carried over when
the manifest omits it.`),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the resource. Uses the default namespace if not specified."),
		),
		mcp.WithString("resourceType",
			mcp.Required(),
			mcp.Description("Type of resource to update"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the resource to update"),
		),
		mcp.WithString("manifest",
			mcp.Required(),
			mcp.Description("Full YAML manifest to apply as the new state"),
		),
	}
	yamlUpdateTool := mcp.NewTool("resource_yaml_update", yamlUpdateOpts...)
	s.AddTool(yamlUpdateTool, tools.WrapWithAuditLogging("resource_yaml_update", handleResourceYAMLUpdate, sc))

	return nil
}
