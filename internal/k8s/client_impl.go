package k8s

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// kubernetesClient implements the Client interface using client-go.
// Clients are cached per kubeconfig context and the cache survives context
// switches, so watch tasks spawned under an earlier context keep their
// connection while new commands route to the newly active one.
type kubernetesClient struct {
	config *ClientConfig

	// Per-context client cache
	mu               sync.RWMutex
	clientsets       map[string]kubernetes.Interface
	dynamicClients   map[string]dynamic.Interface
	discoveryClients map[string]discovery.DiscoveryInterface
	restConfigs      map[string]*rest.Config

	// Kubeconfig management
	kubeconfigData *clientcmdapi.Config
	currentContext string // empty until SwitchContext succeeds

	// Resource type mappings
	builtin map[string]schema.GroupVersionResource

	// Safety and performance settings
	readOnly   bool
	qpsLimit   float32
	burstLimit int
	timeout    time.Duration

	// Cluster overview cache, see cluster.go
	overviewGroup   singleflight.Group
	overviewMu      sync.Mutex
	overviewCached  *ClusterOverview
	overviewExpires time.Time

	// Metrics API availability cache, see metrics.go
	metricsMu        sync.Mutex
	metricsAvailable *bool
	metricsChecked   time.Time
}

// ClientConfig holds configuration for the Kubernetes client.
type ClientConfig struct {
	// Kubeconfig settings. KubeconfigPath falls back to the KUBECONFIG
	// environment variable and then the default loading rules.
	KubeconfigPath string

	// Safety settings
	ReadOnly bool

	// Performance settings
	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	// Logging
	Logger Logger
}

// Logger is the minimal logging interface the client needs. It is
// satisfied by logging.SlogAdapter.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NewClient creates a new Kubernetes client with the given configuration.
// The client starts with no active context; every cluster-bound operation
// fails with ErrNoActiveContext until SwitchContext succeeds.
func NewClient(config *ClientConfig) (*kubernetesClient, error) {
	if config == nil {
		return nil, fmt.Errorf("client configuration is required")
	}

	// Set defaults
	if config.QPSLimit == 0 {
		config.QPSLimit = DefaultQPSLimit
	}
	if config.BurstLimit == 0 {
		config.BurstLimit = DefaultBurstLimit
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	client := &kubernetesClient{
		config:           config,
		clientsets:       make(map[string]kubernetes.Interface),
		dynamicClients:   make(map[string]dynamic.Interface),
		discoveryClients: make(map[string]discovery.DiscoveryInterface),
		restConfigs:      make(map[string]*rest.Config),
		readOnly:         config.ReadOnly,
		qpsLimit:         config.QPSLimit,
		burstLimit:       config.BurstLimit,
		timeout:          config.Timeout,
		builtin:          builtinResources(),
	}

	if err := client.loadKubeconfig(); err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	if config.Logger != nil {
		config.Logger.Info("loaded kubeconfig",
			"contexts", len(client.kubeconfigData.Contexts))
	}

	return client, nil
}

// loadKubeconfig loads the kubeconfig from the specified path or default
// locations.
func (c *kubernetesClient) loadKubeconfig() error {
	{
		kconf := os.Getenv("KUBECONFIG")
		if strings.HasPrefix(kconf, "~/") {
			uhd, _ := os.UserHomeDir()
			kconf = filepath.Join(uhd, kconf[2:])
		}

		if kconf != "" && c.config.KubeconfigPath == "" {
			c.config.KubeconfigPath = kconf
		}
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if c.config.KubeconfigPath != "" {
		loadingRules.ExplicitPath = c.config.KubeconfigPath
	}

	config := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{},
	)

	rawConfig, err := config.RawConfig()
	if err != nil {
		return fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	c.kubeconfigData = &rawConfig

	return nil
}

// getRestConfigLocked builds and caches a rest.Config for the specified
// context. Caller must hold the write lock.
func (c *kubernetesClient) getRestConfigLocked(contextName string) (*rest.Config, error) {
	// Double-check after acquiring write lock
	if restConfig, exists := c.restConfigs[contextName]; exists {
		return restConfig, nil
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if c.config.KubeconfigPath != "" {
		loadingRules.ExplicitPath = c.config.KubeconfigPath
	}

	contextConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{
			CurrentContext: contextName,
		},
	)

	restConfig, err := contextConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create rest config for context %q: %w", contextName, err)
	}

	// Apply performance settings
	restConfig.QPS = c.qpsLimit
	restConfig.Burst = c.burstLimit
	restConfig.Timeout = c.timeout

	c.restConfigs[contextName] = restConfig

	return restConfig, nil
}

// getClientset returns a Kubernetes clientset for the specified context.
func (c *kubernetesClient) getClientset(contextName string) (kubernetes.Interface, error) {
	c.mu.RLock()
	if clientset, exists := c.clientsets[contextName]; exists {
		c.mu.RUnlock()
		return clientset, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if clientset, exists := c.clientsets[contextName]; exists {
		return clientset, nil
	}

	restConfig, err := c.getRestConfigLocked(contextName)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset for context %q: %w", contextName, err)
	}

	c.clientsets[contextName] = clientset

	return clientset, nil
}

// getDynamicClient returns a dynamic client for the specified context.
func (c *kubernetesClient) getDynamicClient(contextName string) (dynamic.Interface, error) {
	c.mu.RLock()
	if dynamicClient, exists := c.dynamicClients[contextName]; exists {
		c.mu.RUnlock()
		return dynamicClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if dynamicClient, exists := c.dynamicClients[contextName]; exists {
		return dynamicClient, nil
	}

	restConfig, err := c.getRestConfigLocked(contextName)
	if err != nil {
		return nil, err
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client for context %q: %w", contextName, err)
	}

	c.dynamicClients[contextName] = dynamicClient

	return dynamicClient, nil
}

// getDiscoveryClient returns a discovery client for the specified context.
func (c *kubernetesClient) getDiscoveryClient(contextName string) (discovery.DiscoveryInterface, error) {
	c.mu.RLock()
	if discoveryClient, exists := c.discoveryClients[contextName]; exists {
		c.mu.RUnlock()
		return discoveryClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if discoveryClient, exists := c.discoveryClients[contextName]; exists {
		return discoveryClient, nil
	}

	restConfig, err := c.getRestConfigLocked(contextName)
	if err != nil {
		return nil, err
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client for context %q: %w", contextName, err)
	}

	c.discoveryClients[contextName] = discoveryClient

	return discoveryClient, nil
}

// activeContext returns the active context name or ErrNoActiveContext when
// none has been selected yet.
func (c *kubernetesClient) activeContext() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.currentContext == "" {
		return "", ErrNoActiveContext
	}
	return c.currentContext, nil
}

// checkMutating rejects the operation when read-only mode is enabled.
func (c *kubernetesClient) checkMutating(operation string) error {
	if c.readOnly {
		return fmt.Errorf("operation %q is not allowed in read-only mode", operation)
	}
	return nil
}

// logOperation emits a debug record for a cluster operation.
func (c *kubernetesClient) logOperation(operation, namespace, resource, name string) {
	if c.config.Logger != nil {
		c.config.Logger.Debug("kubernetes operation",
			"operation", operation,
			"namespace", namespace,
			"resource", resource,
			"name", name,
		)
	}
}

// ListContexts returns all contexts from the kubeconfig, sorted by name.
func (c *kubernetesClient) ListContexts(ctx context.Context) (*ContextList, error) {
	c.logOperation("list-contexts", "", "", "")

	current := c.CurrentContext()

	contexts := make([]ContextInfo, 0, len(c.kubeconfigData.Contexts))
	for contextName, contextInfo := range c.kubeconfigData.Contexts {
		contexts = append(contexts, ContextInfo{
			Name:      contextName,
			Cluster:   contextInfo.Cluster,
			User:      contextInfo.AuthInfo,
			Namespace: contextInfo.Namespace,
			Current:   contextName == current,
		})
	}

	sort.Slice(contexts, func(i, j int) bool {
		return contexts[i].Name < contexts[j].Name
	})

	return &ContextList{
		Contexts:       contexts,
		CurrentContext: current,
	}, nil
}

// CurrentContext returns the active context name, or empty when none has
// been selected yet.
func (c *kubernetesClient) CurrentContext() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentContext
}

// SwitchContext makes the named context active. Clients for the context
// are built eagerly so a broken kubeconfig entry fails here instead of on
// the first command that uses it.
func (c *kubernetesClient) SwitchContext(ctx context.Context, contextName string) error {
	c.logOperation("switch-context", "", "", contextName)

	if _, exists := c.kubeconfigData.Contexts[contextName]; !exists {
		return fmt.Errorf("context %q does not exist in kubeconfig", contextName)
	}

	if _, err := c.getClientset(contextName); err != nil {
		return err
	}
	if _, err := c.getDynamicClient(contextName); err != nil {
		return err
	}
	if _, err := c.getDiscoveryClient(contextName); err != nil {
		return err
	}

	c.mu.Lock()
	c.currentContext = contextName
	c.mu.Unlock()

	// Drop cached aggregates from the previous cluster.
	c.invalidateOverviewCache()

	if c.config.Logger != nil {
		c.config.Logger.Info("switched kubernetes context", "context", contextName)
	}

	return nil
}

// Clientset returns the typed clientset for the active context.
func (c *kubernetesClient) Clientset() (kubernetes.Interface, error) {
	contextName, err := c.activeContext()
	if err != nil {
		return nil, err
	}
	return c.getClientset(contextName)
}

// DynamicClient returns the dynamic client for the active context.
func (c *kubernetesClient) DynamicClient() (dynamic.Interface, error) {
	contextName, err := c.activeContext()
	if err != nil {
		return nil, err
	}
	return c.getDynamicClient(contextName)
}

// discoveryClient returns the discovery client for the active context.
func (c *kubernetesClient) discoveryClient() (discovery.DiscoveryInterface, error) {
	contextName, err := c.activeContext()
	if err != nil {
		return nil, err
	}
	return c.getDiscoveryClient(contextName)
}
