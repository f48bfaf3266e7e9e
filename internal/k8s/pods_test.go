package k8s

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestGetPodLogs(t *testing.T) {
	client, _ := newTestClient(testPod("default", "web-1", nil))

	tail := int64(100)
	logs, err := client.GetPodLogs(context.Background(), "default", "web-1", LogOptions{
		Container: "app",
		TailLines: &tail,
	})
	require.NoError(t, err)
	assert.Equal(t, "fake logs", logs)
}

func TestGetPodLogsRequiresContext(t *testing.T) {
	client, _ := newTestClient()
	client.currentContext = ""

	_, err := client.GetPodLogs(context.Background(), "default", "web-1", LogOptions{})
	assert.ErrorIs(t, err, ErrNoActiveContext)
}

func TestGetPodEvents(t *testing.T) {
	earlier := metav1.NewTime(time.Now().Add(-10 * time.Minute))
	later := metav1.NewTime(time.Now().Add(-1 * time.Minute))

	client, _ := newTestClient(
		&corev1.Event{
			ObjectMeta:     metav1.ObjectMeta{Name: "web-1.pull", Namespace: "default"},
			InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: "web-1", Namespace: "default"},
			Type:           "Normal",
			Reason:         "Pulled",
			Message:        "Container image pulled",
			Count:          1,
			FirstTimestamp: later,
			LastTimestamp:  later,
			Source:         corev1.EventSource{Component: "kubelet"},
		},
		&corev1.Event{
			ObjectMeta:     metav1.ObjectMeta{Name: "web-1.sched", Namespace: "default"},
			InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: "web-1", Namespace: "default"},
			Type:           "Normal",
			Reason:         "Scheduled",
			Message:        "Successfully assigned default/web-1",
			Count:          1,
			FirstTimestamp: earlier,
			LastTimestamp:  earlier,
			Source:         corev1.EventSource{Component: "default-scheduler"},
		},
	)

	events, err := client.GetPodEvents(context.Background(), "default", "web-1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Oldest first.
	assert.Equal(t, "Scheduled", events[0].Reason)
	assert.Equal(t, "Pulled", events[1].Reason)
	assert.Equal(t, "kubelet", events[1].Source)
	assert.NotEmpty(t, events[0].FirstTimestamp)
}

func TestDeletePod(t *testing.T) {
	client, clientset := newTestClient(testPod("default", "web-1", nil))

	err := client.DeletePod(context.Background(), "default", "web-1")
	require.NoError(t, err)

	_, err = clientset.CoreV1().Pods("default").Get(context.Background(), "web-1", metav1.GetOptions{})
	assert.Error(t, err)

	t.Run("missing pod", func(t *testing.T) {
		err := client.DeletePod(context.Background(), "default", "web-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete pod default/web-1")
	})

	t.Run("read-only mode", func(t *testing.T) {
		client.readOnly = true
		defer func() { client.readOnly = false }()

		err := client.DeletePod(context.Background(), "default", "web-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read-only mode")
	})
}

func TestDescribePod(t *testing.T) {
	started := metav1.NewTime(time.Now().Add(-time.Hour))
	pod := testPod("default", "web-1", map[string]string{"app": "web"})
	pod.Spec.NodeName = "node-1"
	pod.Status = corev1.PodStatus{
		Phase:     corev1.PodRunning,
		PodIP:     "10.0.0.5",
		StartTime: &started,
		Conditions: []corev1.PodCondition{
			{Type: corev1.PodReady, Status: corev1.ConditionTrue},
		},
		ContainerStatuses: []corev1.ContainerStatus{
			{
				Name:         "app",
				Image:        "app:1",
				Ready:        true,
				RestartCount: 2,
				State: corev1.ContainerState{
					Running: &corev1.ContainerStateRunning{StartedAt: started},
				},
			},
			{
				Name:  "sidecar",
				Image: "sidecar:1",
				State: corev1.ContainerState{
					Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"},
				},
			},
		},
	}

	client, _ := newTestClient(pod)

	description, err := client.DescribePod(context.Background(), "default", "web-1")
	require.NoError(t, err)

	assert.Equal(t, "web-1", description.Name)
	assert.Equal(t, "node-1", description.Node)
	assert.Equal(t, "Running", description.Phase)
	assert.Equal(t, "10.0.0.5", description.PodIP)
	assert.NotEmpty(t, description.StartTime)
	assert.Equal(t, "web", description.Labels["app"])

	require.Len(t, description.Containers, 2)
	assert.Equal(t, "Running", description.Containers[0].State)
	assert.Equal(t, int32(2), description.Containers[0].RestartCount)
	assert.Equal(t, "Waiting", description.Containers[1].State)
	assert.Equal(t, "ImagePullBackOff", description.Containers[1].Reason)

	require.Len(t, description.Conditions, 1)
	assert.Equal(t, "Ready", description.Conditions[0].Type)
	assert.Equal(t, "True", description.Conditions[0].Status)
}

func TestContainerState(t *testing.T) {
	tests := []struct {
		name       string
		status     corev1.ContainerStatus
		wantState  string
		wantReason string
	}{
		{
			name: "running",
			status: corev1.ContainerStatus{
				State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}},
			},
			wantState: "Running",
		},
		{
			name: "waiting",
			status: corev1.ContainerStatus{
				State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "CrashLoopBackOff"}},
			},
			wantState:  "Waiting",
			wantReason: "CrashLoopBackOff",
		},
		{
			name: "terminated",
			status: corev1.ContainerStatus{
				State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{Reason: "OOMKilled"}},
			},
			wantState:  "Terminated",
			wantReason: "OOMKilled",
		},
		{
			name:      "empty",
			status:    corev1.ContainerStatus{},
			wantState: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, reason := containerState(tt.status)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}
