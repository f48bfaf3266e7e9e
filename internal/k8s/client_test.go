package k8s

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	fakedynamic "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	kubescheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd/api"
)

// Helper function to create test kubeconfig
func createTestKubeconfig() *api.Config {
	return &api.Config{
		Clusters: map[string]*api.Cluster{
			"test-cluster": {
				Server: "https://test.example.com",
			},
		},
		AuthInfos: map[string]*api.AuthInfo{
			"test-user": {
				Token: "test-token",
			},
		},
		Contexts: map[string]*api.Context{
			"test-context": {
				Cluster:   "test-cluster",
				AuthInfo:  "test-user",
				Namespace: "test-namespace",
			},
			"another-context": {
				Cluster:   "test-cluster",
				AuthInfo:  "test-user",
				Namespace: "another-namespace",
			},
		},
		CurrentContext: "test-context",
	}
}

// newTestClient builds a client with fake clientsets pre-cached for
// test-context and another-context, with the active context already set.
func newTestClient(objects ...runtime.Object) (*kubernetesClient, *fake.Clientset) {
	clientset := fake.NewSimpleClientset(objects...)

	client := &kubernetesClient{
		config: &ClientConfig{},
		clientsets: map[string]kubernetes.Interface{
			"test-context":    clientset,
			"another-context": clientset,
		},
		dynamicClients: map[string]dynamic.Interface{},
		discoveryClients: map[string]discovery.DiscoveryInterface{
			"test-context":    clientset.Discovery(),
			"another-context": clientset.Discovery(),
		},
		restConfigs:    map[string]*rest.Config{},
		kubeconfigData: createTestKubeconfig(),
		currentContext: "test-context",
		builtin:        builtinResources(),
		qpsLimit:       DefaultQPSLimit,
		burstLimit:     DefaultBurstLimit,
		timeout:        DefaultTimeout,
	}

	// Pretend the availability probe already ran so tests never touch the
	// fake's unusable REST client.
	available := false
	client.metricsAvailable = &available
	client.metricsChecked = time.Now()

	return client, clientset
}

// withDynamic swaps in a fake dynamic client seeded with the given objects.
func withDynamic(client *kubernetesClient, objects ...runtime.Object) *fakedynamic.FakeDynamicClient {
	dyn := fakedynamic.NewSimpleDynamicClient(kubescheme.Scheme, objects...)
	client.dynamicClients["test-context"] = dyn
	client.dynamicClients["another-context"] = dyn
	return dyn
}

func createMinimalKubeconfig(t testing.TB, path string) {
	t.Helper()
	kubeconfig := `
apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://test.example.com
  name: test-cluster
contexts:
- context:
    cluster: test-cluster
    user: test-user
  name: test-context
current-context: test-context
users:
- name: test-user
  user:
    token: test-token
`
	err := os.WriteFile(path, []byte(kubeconfig), 0644)
	require.NoError(t, err)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		config      *ClientConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      nil,
			expectError: true,
			errorMsg:    "client configuration is required",
		},
		{
			name:        "valid config with defaults",
			config:      &ClientConfig{},
			expectError: false,
		},
		{
			name: "valid config with custom values",
			config: &ClientConfig{
				QPSLimit:   50.0,
				BurstLimit: 100,
				Timeout:    60 * time.Second,
				ReadOnly:   true,
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			kubeconfigPath := filepath.Join(tmpDir, "kubeconfig")

			if tt.config != nil {
				tt.config.KubeconfigPath = kubeconfigPath
				createMinimalKubeconfig(t, kubeconfigPath)
			}

			client, err := NewClient(tt.config)

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, client)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, client)

			// The client never activates a context on its own.
			assert.Empty(t, client.CurrentContext())

			if tt.config.QPSLimit == 0 {
				assert.Equal(t, float32(20.0), client.qpsLimit)
			} else {
				assert.Equal(t, tt.config.QPSLimit, client.qpsLimit)
			}

			if tt.config.BurstLimit == 0 {
				assert.Equal(t, 30, client.burstLimit)
			} else {
				assert.Equal(t, tt.config.BurstLimit, client.burstLimit)
			}

			if tt.config.Timeout == 0 {
				assert.Equal(t, 30*time.Second, client.timeout)
			} else {
				assert.Equal(t, tt.config.Timeout, client.timeout)
			}

			assert.Equal(t, tt.config.ReadOnly, client.readOnly)
		})
	}
}

func TestNoActiveContextGate(t *testing.T) {
	client, _ := newTestClient()
	client.currentContext = ""

	_, err := client.Clientset()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoActiveContext))
	assert.Equal(t, "No active context. Please set a context first.", err.Error())

	_, err = client.DynamicClient()
	assert.ErrorIs(t, err, ErrNoActiveContext)

	_, err = client.discoveryClient()
	assert.ErrorIs(t, err, ErrNoActiveContext)

	_, err = client.GetResource(context.Background(), "default", "pods", "web")
	assert.ErrorIs(t, err, ErrNoActiveContext)

	_, err = client.GetClusterOverview(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveContext)
}

func TestListContexts(t *testing.T) {
	client, _ := newTestClient()
	client.currentContext = ""

	list, err := client.ListContexts(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Contexts, 2)

	// Sorted by name, none current before a switch.
	assert.Equal(t, "another-context", list.Contexts[0].Name)
	assert.Equal(t, "test-context", list.Contexts[1].Name)
	assert.Empty(t, list.CurrentContext)
	for _, contextInfo := range list.Contexts {
		assert.False(t, contextInfo.Current)
	}

	client.currentContext = "test-context"

	list, err = client.ListContexts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-context", list.CurrentContext)
	assert.True(t, list.Contexts[1].Current)
	assert.False(t, list.Contexts[0].Current)
	assert.Equal(t, "test-cluster", list.Contexts[1].Cluster)
	assert.Equal(t, "test-user", list.Contexts[1].User)
	assert.Equal(t, "test-namespace", list.Contexts[1].Namespace)
}

func TestSwitchContext(t *testing.T) {
	t.Run("unknown context", func(t *testing.T) {
		client, _ := newTestClient()
		client.currentContext = ""

		err := client.SwitchContext(context.Background(), "missing-context")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist in kubeconfig")
		assert.Empty(t, client.CurrentContext())
	})

	t.Run("successful switch", func(t *testing.T) {
		client, clientset := newTestClient()
		withDynamic(client)
		client.currentContext = ""

		err := client.SwitchContext(context.Background(), "test-context")
		require.NoError(t, err)
		assert.Equal(t, "test-context", client.CurrentContext())

		got, err := client.Clientset()
		require.NoError(t, err)
		assert.Same(t, clientset, got)
	})

	t.Run("switch drops cached overview", func(t *testing.T) {
		client, _ := newTestClient()
		withDynamic(client)
		client.overviewCached = &ClusterOverview{NodeCount: 99}
		client.overviewExpires = time.Now().Add(time.Hour)

		err := client.SwitchContext(context.Background(), "another-context")
		require.NoError(t, err)

		client.overviewMu.Lock()
		defer client.overviewMu.Unlock()
		assert.Nil(t, client.overviewCached)
	})
}

func TestCheckMutating(t *testing.T) {
	client, _ := newTestClient()

	assert.NoError(t, client.checkMutating("delete"))

	client.readOnly = true
	err := client.checkMutating("delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only mode")
}
