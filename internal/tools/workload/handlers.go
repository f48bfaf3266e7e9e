// Package workload implements MCP tools for workload lifecycle operations
// and the parent/child listings the UI drills into: a deployment's
// ReplicaSets, a ReplicaSet's pods, a CronJob's Jobs.
package workload

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	corev1 "k8s.io/api/core/v1"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/k8s"
	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools"
)

// podSummary is the compact pod row the child listings return. The full
// object is a resource_get away.
type podSummary struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Phase     string `json:"phase"`
	Ready     string `json:"ready"`
	Restarts  int32  `json:"restarts"`
	Node      string `json:"node,omitempty"`
	Started   string `json:"started,omitempty"`
}

// podListResponse is the payload of the *_pods tools.
type podListResponse struct {
	Workload string       `json:"workload"`
	Count    int          `json:"count"`
	Pods     []podSummary `json:"pods"`
}

// refListResponse is the payload of cronjob_jobs and deployment_replicasets.
type refListResponse struct {
	Count int               `json:"count"`
	Items []k8s.WorkloadRef `json:"items"`
}

// triggerResponse is the cronjob_trigger payload.
type triggerResponse struct {
	CronJob   string `json:"cronJob"`
	Namespace string `json:"namespace"`
	Job       string `json:"job"`
}

func summarizePod(pod corev1.Pod) podSummary {
	ready := 0
	var restarts int32
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
		restarts += cs.RestartCount
	}

	summary := podSummary{
		Name:      pod.Name,
		Namespace: pod.Namespace,
		Phase:     string(pod.Status.Phase),
		Ready:     fmt.Sprintf("%d/%d", ready, len(pod.Spec.Containers)),
		Restarts:  restarts,
		Node:      pod.Spec.NodeName,
	}
	if pod.Status.StartTime != nil {
		summary.Started = pod.Status.StartTime.Format(time.RFC3339)
	}
	return summary
}

func handleWorkloadScale(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "scale"); result != nil {
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

	replicas, err := request.RequireFloat("replicas")
	if err != nil {
		return mcp.NewToolResultError("replicas is required"), nil
	}
	if replicas < 0 {
		return mcp.NewToolResultError("replicas must not be negative"), nil
	}

	start := time.Now()
	err = sc.K8sClient().Scale(ctx, namespace, resourceType, name, int32(replicas))
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationScale, resourceType, namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to scale %s: %v", resourceType, err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationScale, resourceType, namespace, instrumentation.StatusSuccess, duration)

	return mcp.NewToolResultText(fmt.Sprintf("Successfully scaled %s %s to %d replicas", resourceType, name, int32(replicas))), nil
}

func handleWorkloadRestart(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "restart"); result != nil {
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
	err = sc.K8sClient().RolloutRestart(ctx, namespace, resourceType, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationRestart, resourceType, namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to restart %s: %v", resourceType, err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationRestart, resourceType, namespace, instrumentation.StatusSuccess, duration)

	return mcp.NewToolResultText(fmt.Sprintf("Successfully restarted %s: %s", resourceType, name)), nil
}

func handleDeploymentRollback(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "rollback"); result != nil {
		return result, nil
	}

	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	start := time.Now()
	err = sc.K8sClient().RollbackDeployment(ctx, namespace, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationUpdate, "deployment", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to rollback deployment: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationUpdate, "deployment", namespace, instrumentation.StatusSuccess, duration)

	return mcp.NewToolResultText(fmt.Sprintf("Successfully rolled back deployment: %s", name)), nil
}

func handleCronJobTrigger(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "trigger"); result != nil {
		return result, nil
	}

	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	start := time.Now()
	jobName, err := sc.K8sClient().TriggerCronJob(ctx, namespace, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationUpdate, "cronjob", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to trigger cronjob: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationUpdate, "cronjob", namespace, instrumentation.StatusSuccess, duration)

	response := triggerResponse{CronJob: name, Namespace: namespace, Job: jobName}
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// setCronJobSuspendHandler builds the cronjob_suspend and cronjob_resume
// handlers, which differ only in the flag they patch.
func setCronJobSuspendHandler(suspend bool) tools.ToolHandler {
	operation := "suspend"
	verb := "suspended"
	if !suspend {
		operation = "resume"
		verb = "resumed"
	}

	return func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
		if result := tools.CheckMutatingOperation(sc, operation); result != nil {
			return result, nil
		}

		namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}

		start := time.Now()
		err = sc.K8sClient().SetCronJobSuspend(ctx, namespace, name, suspend)
		duration := time.Since(start)
		if err != nil {
			sc.RecordK8sOperation(ctx, instrumentation.OperationUpdate, "cronjob", namespace, instrumentation.StatusError, duration)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to %s cronjob: %v", operation, err)), nil
		}
		sc.RecordK8sOperation(ctx, instrumentation.OperationUpdate, "cronjob", namespace, instrumentation.StatusSuccess, duration)

		return mcp.NewToolResultText(fmt.Sprintf("Successfully %s cronjob: %s", verb, name)), nil
	}
}

func handleCronJobJobs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	start := time.Now()
	jobs, err := sc.K8sClient().CronJobJobs(ctx, namespace, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationList, "jobs", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list cronjob jobs: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationList, "jobs", namespace, instrumentation.StatusSuccess, duration)

	response := refListResponse{Count: len(jobs), Items: jobs}
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal jobs: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleDeploymentReplicaSets(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	start := time.Now()
	replicaSets, err := sc.K8sClient().DeploymentReplicaSets(ctx, namespace, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationList, "replicasets", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list deployment replicasets: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationList, "replicasets", namespace, instrumentation.StatusSuccess, duration)

	response := refListResponse{Count: len(replicaSets), Items: replicaSets}
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal replicasets: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// workloadPodsHandler builds a handler that lists the pods behind one
// workload type. All four *_pods tools go through here.
func workloadPodsHandler(resourceType string) tools.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
		namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}

		start := time.Now()
		pods, err := sc.K8sClient().WorkloadPods(ctx, namespace, resourceType, name)
		duration := time.Since(start)
		if err != nil {
			sc.RecordK8sOperation(ctx, instrumentation.OperationList, "pods", namespace, instrumentation.StatusError, duration)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list %s pods: %v", resourceType, err)), nil
		}
		sc.RecordK8sOperation(ctx, instrumentation.OperationList, "pods", namespace, instrumentation.StatusSuccess, duration)

		response := podListResponse{
			Workload: fmt.Sprintf("%s/%s", resourceType, name),
			Count:    len(pods),
			Pods:     make([]podSummary, 0, len(pods)),
		}
		for _, pod := range pods {
			response.Pods = append(response.Pods, summarizePod(pod))
		}

		jsonData, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal pods: %v", err)), nil
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

func handleServiceEndpoints(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := tools.NamespaceOrDefault(sc, request.GetArguments())

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	start := time.Now()
	endpoints, err := sc.K8sClient().ServiceEndpoints(ctx, namespace, name)
	duration := time.Since(start)
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "endpoints", namespace, instrumentation.StatusError, duration)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get service endpoints: %v", err)), nil
	}
	sc.RecordK8sOperation(ctx, instrumentation.OperationGet, "endpoints", namespace, instrumentation.StatusSuccess, duration)

	jsonData, err := json.MarshalIndent(endpoints, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal endpoints: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
