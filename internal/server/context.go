package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/k8s"
	"github.com/kubedeck/kubedeck/internal/logging"
	"github.com/kubedeck/kubedeck/internal/watch"
)

// ServerContext encapsulates all dependencies needed by the MCP server
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	k8sClient k8s.Client
	logger    *slog.Logger
	config    *Config

	// Watch subsystem
	registry *watch.Registry
	sink     watch.EventSink

	// Observability
	instrumentationProvider *instrumentation.Provider

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	// Create a cancellable context
	serverCtx, cancel := context.WithCancel(ctx)

	// Initialize with defaults
	sc := &ServerContext{
		ctx:    serverCtx,
		cancel: cancel,
		config: NewDefaultConfig(),
		logger: logging.NewLogger("info"),
	}

	// Apply functional options
	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	// The registry wants the final logger, so it is built after the
	// options unless one was injected.
	if sc.registry == nil {
		sc.registry = watch.NewRegistry(sc.logger)
	}

	// Validate required dependencies
	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// K8sClient returns the Kubernetes client interface.
func (sc *ServerContext) K8sClient() k8s.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.k8sClient
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// WatchRegistry returns the registry holding one watcher per resource kind.
func (sc *ServerContext) WatchRegistry() *watch.Registry {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.registry
}

// EventSink returns the sink watch tasks emit UI events through.
func (sc *ServerContext) EventSink() watch.EventSink {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.sink
}

// InstrumentationProvider returns the OpenTelemetry provider, or nil when
// instrumentation was never configured.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.instrumentationProvider
}

// noopMetrics serves callers when no instrumentation provider is set. Its
// recording methods do nothing.
var noopMetrics = &instrumentation.Metrics{}

// Metrics returns the metric recorder. Never nil; without an
// instrumentation provider the recorder is a no-op.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.instrumentationProvider == nil {
		return noopMetrics
	}
	return sc.instrumentationProvider.Metrics()
}

// RecordK8sOperation records metrics for one Kubernetes API operation.
// Safe to call with no instrumentation provider configured.
func (sc *ServerContext) RecordK8sOperation(ctx context.Context, operation, resourceType, namespace, status string, duration time.Duration) {
	sc.Metrics().RecordK8sOperation(ctx, operation, resourceType, namespace, status, duration)
}

// Shutdown gracefully shuts down the server context.
// This stops all watch tasks, cancels the context and releases resources.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("Shutting down server context")

	// Stop watch tasks before cancelling the root context so their exit
	// is observed as a clean stop rather than a context error.
	if sc.registry != nil {
		sc.registry.StopAll()
	}

	// Cancel the context
	if sc.cancel != nil {
		sc.cancel()
	}

	// Mark as shutdown
	sc.shutdown = true

	sc.logger.Info("Server context shutdown complete")
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.k8sClient == nil {
		return ErrMissingK8sClient
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	if sc.sink == nil {
		return ErrMissingEventSink
	}
	return nil
}

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Kubernetes settings
	DefaultNamespace string `json:"defaultNamespace"`

	// Safety settings
	ReadOnly bool `json:"readOnly"`

	// Logging settings
	LogLevel string `json:"logLevel"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:       "kubedeck",
		Version:          "0.1.0",
		DefaultNamespace: "default",
		ReadOnly:         false,
		LogLevel:         "info",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
