package server

import (
	"errors"
	"log/slog"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/k8s"
	"github.com/kubedeck/kubedeck/internal/watch"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithK8sClient sets the Kubernetes client for the ServerContext.
func WithK8sClient(client k8s.Client) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingK8sClient
		}
		sc.k8sClient = client
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name in the configuration.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ServerName = name
		return nil
	}
}

// WithVersion sets the server version in the configuration.
func WithVersion(version string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Version = version
		return nil
	}
}

// WithDefaultNamespace sets the default namespace for Kubernetes operations.
func WithDefaultNamespace(namespace string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.DefaultNamespace = namespace
		return nil
	}
}

// WithReadOnly enables or disables read-only mode. In read-only mode every
// mutating tool is rejected before it reaches the cluster.
func WithReadOnly(enabled bool) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ReadOnly = enabled
		return nil
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.LogLevel = level
		return nil
	}
}

// WithEventSink sets the sink watch tasks emit UI events through.
func WithEventSink(sink watch.EventSink) Option {
	return func(sc *ServerContext) error {
		if sink == nil {
			return ErrMissingEventSink
		}
		sc.sink = sink
		return nil
	}
}

// WithWatchRegistry injects a watch registry. Without this option the
// context builds one from its logger.
func WithWatchRegistry(registry *watch.Registry) Option {
	return func(sc *ServerContext) error {
		sc.registry = registry
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
// This enables production-grade observability including metrics and tracing.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingK8sClient = errors.New("kubernetes client is required")
	ErrMissingLogger    = errors.New("logger is required")
	ErrMissingConfig    = errors.New("configuration is required")
	ErrMissingEventSink = errors.New("event sink is required")
	ErrServerShutdown   = errors.New("server context has been shutdown")
)
