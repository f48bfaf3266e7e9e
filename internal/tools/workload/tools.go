package workload

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools"
)

// RegisterWorkloadTools registers workload lifecycle and relationship tools
// with the MCP server.
func RegisterWorkloadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	scaleTool := mcp.NewTool("workload_scale",
		mcp.WithDescription("Scale a deployment, statefulset or replicaset to a replica count"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the workload. Uses the default namespace if not specified."),
		),
		mcp.WithString("resourceType",
			mcp.Required(),
			mcp.Description("Workload type to scale"),
			mcp.Enum("deployment", "statefulset", "replicaset"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the workload"),
		),
		mcp.WithNumber("replicas",
			mcp.Required(),
			mcp.Description("Desired replica count"),
		),
	)
	s.AddTool(scaleTool, tools.WrapWithAuditLogging("workload_scale", handleWorkloadScale, sc))

	restartTool := mcp.NewTool("workload_restart",
		mcp.WithDescription(`Trigger a rolling restart of a deployment, statefulset or daemonset, the
same way kubectl rollout restart does.`),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the workload. Uses the default namespace if not specified."),
		),
		mcp.WithString("resourceType",
			mcp.Required(),
			mcp.Description("Workload type to restart"),
			mcp.Enum("deployment", "statefulset", "daemonset"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the workload"),
		),
	)
	s.AddTool(restartTool, tools.WrapWithAuditLogging("workload_restart", handleWorkloadRestart, sc))

	rollbackTool := mcp.NewTool("deployment_rollback",
		mcp.WithDescription("Roll a deployment back to its previous revision"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the deployment. Uses the default namespace if not specified."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the deployment"),
		),
	)
	s.AddTool(rollbackTool, tools.WrapWithAuditLogging("deployment_rollback", handleDeploymentRollback, sc))

	triggerTool := mcp.NewTool("cronjob_trigger",
		mcp.WithDescription("Run a CronJob now by creating a Job from its job template"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the CronJob. Uses the default namespace if not specified."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the CronJob"),
		),
	)
	s.AddTool(triggerTool, tools.WrapWithAuditLogging("cronjob_trigger", handleCronJobTrigger, sc))

	suspendTool := mcp.NewTool("cronjob_suspend",
		mcp.WithDescription("Suspend a CronJob so no new Jobs are scheduled"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the CronJob. Uses the default namespace if not specified."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the CronJob"),
		),
	)
	s.AddTool(suspendTool, tools.WrapWithAuditLogging("cronjob_suspend", setCronJobSuspendHandler(true), sc))

	resumeTool := mcp.NewTool("cronjob_resume",
		mcp.WithDescription("Resume a suspended CronJob"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the CronJob. Uses the default namespace if not specified."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the CronJob"),
		),
	)
	s.AddTool(resumeTool, tools.WrapWithAuditLogging("cronjob_resume", setCronJobSuspendHandler(false), sc))

	cronJobJobsTool := mcp.NewTool("cronjob_jobs",
		mcp.WithDescription("List the Jobs owned by a CronJob, newest first"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the CronJob. Uses the default namespace if not specified."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the CronJob"),
		),
	)
	s.AddTool(cronJobJobsTool, tools.WrapWithAuditLogging("cronjob_jobs", handleCronJobJobs, sc))

	replicaSetsTool := mcp.NewTool("deployment_replicasets",
		mcp.WithDescription("List the ReplicaSets owned by a deployment, newest revision first"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the deployment. Uses the default namespace if not specified."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the deployment"),
		),
	)
	s.AddTool(replicaSetsTool, tools.WrapWithAuditLogging("deployment_replicasets", handleDeploymentReplicaSets, sc))

	// The pod listing tools share one handler; only the owning workload
	// type differs.
	podListings := []struct {
		tool         string
		resourceType string
	}{
		{"deployment_pods", "deployment"},
		{"statefulset_pods", "statefulset"},
		{"daemonset_pods", "daemonset"},
		{"replicaset_pods", "replicaset"},
	}
	for _, listing := range podListings {
		tool := mcp.NewTool(listing.tool,
			mcp.WithDescription(fmt.Sprintf("List the pods selected by a %s's label selector", listing.resourceType)),
			mcp.WithString("namespace",
				mcp.Description("Namespace of the workload. Uses the default namespace if not specified."),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description(fmt.Sprintf("Name of the %s", listing.resourceType)),
			),
		)
		s.AddTool(tool, tools.WrapWithAuditLogging(listing.tool, workloadPodsHandler(listing.resourceType), sc))
	}

	endpointsTool := mcp.NewTool("service_endpoints",
		mcp.WithDescription("Get the endpoint addresses behind a service, grouped by subset with readiness"),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the service. Uses the default namespace if not specified."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the service"),
		),
	)
	s.AddTool(endpointsTool, tools.WrapWithAuditLogging("service_endpoints", handleServiceEndpoints, sc))

	return nil
}
