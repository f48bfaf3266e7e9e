// Package workload provides tests for workload tool handlers.
package workload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubedeck/kubedeck/internal/k8s"
	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools/testdata"
	"github.com/kubedeck/kubedeck/internal/watch"
)

func newTestServerContext(t *testing.T, client *testdata.MockK8sClient, opts ...server.Option) *server.ServerContext {
	t.Helper()

	allOpts := append([]server.Option{
		server.WithK8sClient(client),
		server.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		server.WithEventSink(watch.SinkFunc(func(ctx context.Context, event string, payload any) error {
			return nil
		})),
	}, opts...)

	sc, err := server.NewServerContext(context.Background(), allOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return textContent.Text
}

func TestHandleWorkloadScale_Success(t *testing.T) {
	var gotReplicas int32
	var gotType string
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		ScaleFunc: func(ctx context.Context, namespace, resourceType, name string, replicas int32) error {
			gotType = resourceType
			gotReplicas = replicas
			return nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleWorkloadScale(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "deployment",
		"name":         "web",
		"replicas":     float64(3),
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "deployment", gotType)
	assert.Equal(t, int32(3), gotReplicas)
	assert.Contains(t, resultText(t, result), "Successfully scaled deployment web to 3 replicas")
}

func TestHandleWorkloadScale_MissingReplicas(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{Current: "kind-dev"})

	result, err := handleWorkloadScale(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "deployment",
		"name":         "web",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "replicas is required")
}

func TestHandleWorkloadScale_NegativeReplicas(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{Current: "kind-dev"})

	result, err := handleWorkloadScale(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "deployment",
		"name":         "web",
		"replicas":     float64(-1),
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "must not be negative")
}

func TestHandleWorkloadScale_BlockedInReadOnlyMode(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{Current: "kind-dev"}, server.WithReadOnly(true))

	result, err := handleWorkloadScale(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "deployment",
		"name":         "web",
		"replicas":     float64(3),
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Scale operations are not allowed in read-only mode")
}

func TestHandleWorkloadRestart_Success(t *testing.T) {
	var restarted string
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		RolloutRestartFunc: func(ctx context.Context, namespace, resourceType, name string) error {
			restarted = resourceType + "/" + name
			return nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleWorkloadRestart(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "daemonset",
		"name":         "node-agent",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "daemonset/node-agent", restarted)
	assert.Contains(t, resultText(t, result), "Successfully restarted daemonset: node-agent")
}

func TestHandleDeploymentRollback_Success(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		RollbackDeploymentFunc: func(ctx context.Context, namespace, name string) error {
			assert.Equal(t, "web", name)
			return nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleDeploymentRollback(context.Background(), newRequest(map[string]interface{}{
		"name": "web",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Successfully rolled back deployment: web")
}

func TestHandleDeploymentRollback_NoPreviousRevision(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		RollbackDeploymentFunc: func(ctx context.Context, namespace, name string) error {
			return errors.New(`deployment "web" has no previous revision to roll back to`)
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleDeploymentRollback(context.Background(), newRequest(map[string]interface{}{
		"name": "web",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no previous revision")
}

func TestHandleCronJobTrigger_Success(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		TriggerCronJobFunc: func(ctx context.Context, namespace, name string) (string, error) {
			return name + "-manual-1756100000", nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleCronJobTrigger(context.Background(), newRequest(map[string]interface{}{
		"namespace": "batch",
		"name":      "nightly-report",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response triggerResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, "nightly-report", response.CronJob)
	assert.Equal(t, "batch", response.Namespace)
	assert.Equal(t, "nightly-report-manual-1756100000", response.Job)
}

func TestCronJobSuspendResume(t *testing.T) {
	var gotSuspend bool
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		SetCronJobSuspendFunc: func(ctx context.Context, namespace, name string, suspend bool) error {
			gotSuspend = suspend
			return nil
		},
	}
	sc := newTestServerContext(t, client)

	suspendHandler := setCronJobSuspendHandler(true)
	result, err := suspendHandler(context.Background(), newRequest(map[string]interface{}{
		"name": "nightly-report",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.True(t, gotSuspend)
	assert.Contains(t, resultText(t, result), "Successfully suspended cronjob: nightly-report")

	resumeHandler := setCronJobSuspendHandler(false)
	result, err = resumeHandler(context.Background(), newRequest(map[string]interface{}{
		"name": "nightly-report",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.False(t, gotSuspend)
	assert.Contains(t, resultText(t, result), "Successfully resumed cronjob: nightly-report")
}

func TestCronJobSuspend_BlockedInReadOnlyMode(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{Current: "kind-dev"}, server.WithReadOnly(true))

	handler := setCronJobSuspendHandler(true)
	result, err := handler(context.Background(), newRequest(map[string]interface{}{
		"name": "nightly-report",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Suspend operations are not allowed in read-only mode")
}

func TestHandleCronJobJobs_Success(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		CronJobJobsFunc: func(ctx context.Context, namespace, name string) ([]k8s.WorkloadRef, error) {
			return []k8s.WorkloadRef{
				{Name: name + "-29300000", Namespace: namespace, Kind: "Job", Status: "Complete"},
				{Name: name + "-29299000", Namespace: namespace, Kind: "Job", Status: "Failed"},
			}, nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleCronJobJobs(context.Background(), newRequest(map[string]interface{}{
		"name": "nightly-report",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response refListResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "Complete", response.Items[0].Status)
}

func TestHandleDeploymentReplicaSets_Success(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		DeploymentReplicaSetsFunc: func(ctx context.Context, namespace, name string) ([]k8s.WorkloadRef, error) {
			return []k8s.WorkloadRef{
				{Name: name + "-7d9f8", Namespace: namespace, Kind: "ReplicaSet", Revision: "3"},
				{Name: name + "-5c6b4", Namespace: namespace, Kind: "ReplicaSet", Revision: "2"},
			}, nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleDeploymentReplicaSets(context.Background(), newRequest(map[string]interface{}{
		"name": "web",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response refListResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "3", response.Items[0].Revision)
}

func TestWorkloadPodsHandler(t *testing.T) {
	started := metav1.NewTime(time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	var gotType string
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		WorkloadPodsFunc: func(ctx context.Context, namespace, resourceType, name string) ([]corev1.Pod, error) {
			gotType = resourceType
			return []corev1.Pod{
				{
					ObjectMeta: metav1.ObjectMeta{Name: "web-7d9f8-abcde", Namespace: namespace},
					Spec: corev1.PodSpec{
						NodeName:   "node-a",
						Containers: []corev1.Container{{Name: "app"}, {Name: "sidecar"}},
					},
					Status: corev1.PodStatus{
						Phase:     corev1.PodRunning,
						StartTime: &started,
						ContainerStatuses: []corev1.ContainerStatus{
							{Name: "app", Ready: true, RestartCount: 2},
							{Name: "sidecar", Ready: false, RestartCount: 0},
						},
					},
				},
			}, nil
		},
	}
	sc := newTestServerContext(t, client)

	handler := workloadPodsHandler("statefulset")
	result, err := handler(context.Background(), newRequest(map[string]interface{}{
		"name": "web",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "statefulset", gotType)

	var response podListResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, "statefulset/web", response.Workload)
	require.Equal(t, 1, response.Count)

	pod := response.Pods[0]
	assert.Equal(t, "web-7d9f8-abcde", pod.Name)
	assert.Equal(t, "Running", pod.Phase)
	assert.Equal(t, "1/2", pod.Ready)
	assert.Equal(t, int32(2), pod.Restarts)
	assert.Equal(t, "node-a", pod.Node)
	assert.NotEmpty(t, pod.Started)
}

func TestHandleServiceEndpoints_Success(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		ServiceEndpointsFunc: func(ctx context.Context, namespace, name string) (*k8s.ServiceEndpoints, error) {
			return &k8s.ServiceEndpoints{
				Service:   name,
				Namespace: namespace,
				Subsets: []k8s.EndpointSubset{
					{
						Addresses: []k8s.EndpointAddress{{IP: "10.1.0.5", TargetRef: "Pod/web-1"}},
						NotReady:  []k8s.EndpointAddress{{IP: "10.1.0.6", TargetRef: "Pod/web-2"}},
						Ports:     []k8s.EndpointPort{{Name: "http", Port: 8080, Protocol: "TCP"}},
					},
				},
			}, nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleServiceEndpoints(context.Background(), newRequest(map[string]interface{}{
		"name": "web",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response k8s.ServiceEndpoints
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, "web", response.Service)
	require.Len(t, response.Subsets, 1)
	assert.Len(t, response.Subsets[0].Addresses, 1)
	assert.Len(t, response.Subsets[0].NotReady, 1)
}

func TestHandleServiceEndpoints_Error(t *testing.T) {
	client := &testdata.MockK8sClient{
		ServiceEndpointsFunc: func(ctx context.Context, namespace, name string) (*k8s.ServiceEndpoints, error) {
			return nil, errors.New(`endpoints "web" not found`)
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleServiceEndpoints(context.Background(), newRequest(map[string]interface{}{
		"name": "web",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to get service endpoints")
}

func TestSummarizePod_NoStartTime(t *testing.T) {
	pod := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "pending-1", Namespace: "default"},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: "app"}},
		},
		Status: corev1.PodStatus{Phase: corev1.PodPending},
	}

	summary := summarizePod(pod)
	assert.Equal(t, "Pending", summary.Phase)
	assert.Equal(t, "0/1", summary.Ready)
	assert.Empty(t, summary.Started)
	assert.Empty(t, summary.Node)
}
