package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/k8s"
	"github.com/kubedeck/kubedeck/internal/logging"
	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools/cluster"
	contexttools "github.com/kubedeck/kubedeck/internal/tools/context"
	"github.com/kubedeck/kubedeck/internal/tools/pod"
	"github.com/kubedeck/kubedeck/internal/tools/resource"
	watchtools "github.com/kubedeck/kubedeck/internal/tools/watch"
	"github.com/kubedeck/kubedeck/internal/tools/workload"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string

		// Kubernetes client options
		kubeconfigPath   string
		defaultNamespace string
		readOnly         bool
		qpsLimit         float32
		burstLimit       int
		timeout          time.Duration

		logLevel string

		// Metrics listener options
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the kubedeck MCP server",
		Long: `Start the kubedeck MCP server to provide cluster inspection, workload
operations and live resource watches to the kubedeck UI via the
Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

The server loads the kubeconfig but selects no context at startup. The UI
picks one with the context_set tool before cluster operations can run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadEnvIfEmpty(&metricsAddr, "METRICS_ADDR")

			config := ServeConfig{
				Transport:        transport,
				HTTPAddr:         httpAddr,
				SSEEndpoint:      sseEndpoint,
				MessageEndpoint:  messageEndpoint,
				HTTPEndpoint:     httpEndpoint,
				KubeconfigPath:   kubeconfigPath,
				DefaultNamespace: defaultNamespace,
				ReadOnly:         readOnly,
				QPSLimit:         qpsLimit,
				BurstLimit:       burstLimit,
				Timeout:          timeout,
				LogLevel:         logLevel,
				Metrics: MetricsServeConfig{
					Enabled: metricsEnabled,
					Addr:    metricsAddr,
				},
			}
			if err := config.Validate(); err != nil {
				return err
			}
			return runServe(config)
		},
	}

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Kubernetes client flags
	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (default: $KUBECONFIG, then the standard loading rules)")
	cmd.Flags().StringVar(&defaultNamespace, "default-namespace", "default", "Namespace used when a tool call carries none")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject all mutating operations")
	cmd.Flags().Float32Var(&qpsLimit, "qps", k8s.DefaultQPSLimit, "QPS limit for Kubernetes API calls")
	cmd.Flags().IntVar(&burstLimit, "burst", k8s.DefaultBurstLimit, "Burst limit for Kubernetes API calls")
	cmd.Flags().DurationVar(&timeout, "timeout", k8s.DefaultTimeout, "Request timeout for Kubernetes API calls")

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, or error")

	// Metrics flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics", false, "Serve Prometheus metrics on a dedicated listener (requires INSTRUMENTATION_ENABLED=true)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", fmt.Sprintf("Metrics listener address (default %s, can also be set via METRICS_ADDR env var)", server.DefaultMetricsAddr))

	return cmd
}

// runServe contains the main server logic with support for multiple transports
func runServe(config ServeConfig) error {
	logger := logging.NewLogger(config.LogLevel)

	k8sClient, err := k8s.NewClient(&k8s.ClientConfig{
		KubeconfigPath: config.KubeconfigPath,
		ReadOnly:       config.ReadOnly,
		QPSLimit:       config.QPSLimit,
		BurstLimit:     config.BurstLimit,
		Timeout:        config.Timeout,
		Logger:         logging.NewSlogAdapter(logger),
	})
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	// The MCP server must exist before the server context: watch tasks
	// deliver their events through its notification channel.
	mcpSrv := mcpserver.NewMCPServer("kubedeck", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	sink := server.NewMeteredSink(
		server.NewNotificationSink(mcpSrv, logger),
		instrumentationProvider.Metrics(),
	)

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithK8sClient(k8sClient),
		server.WithLogger(logger),
		server.WithEventSink(sink),
		server.WithDefaultNamespace(config.DefaultNamespace),
		server.WithReadOnly(config.ReadOnly),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	if err := registerTools(mcpSrv, serverContext); err != nil {
		return err
	}

	// The metrics listener is separate from the MCP transport, so it runs
	// for stdio mode too.
	if config.Metrics.Enabled && instrumentationProvider.Enabled() {
		metricsServer, err := startMetricsServer(config.Metrics, instrumentationProvider, logger)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer stopCancel()
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				logger.Error("error shutting down metrics server", logging.Err(err))
			}
		}()
	}

	switch config.Transport {
	case transportStdio:
		// No startup message for stdio mode, stdout carries the MCP stream.
		return runStdioServer(mcpSrv)
	case transportSSE:
		logger.Info("starting MCP server", "transport", config.Transport, "addr", config.HTTPAddr)
		return runSSEServer(shutdownCtx, mcpSrv, config, logger)
	case transportStreamableHTTP:
		logger.Info("starting MCP server", "transport", config.Transport, "addr", config.HTTPAddr)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, config, serverContext, instrumentationProvider, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			config.Transport, transportStdio, transportSSE, transportStreamableHTTP)
	}
}

// registerTools registers every tool category with the MCP server.
func registerTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := contexttools.RegisterContextTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register context tools: %w", err)
	}
	if err := cluster.RegisterClusterTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register cluster tools: %w", err)
	}
	if err := resource.RegisterResourceTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register resource tools: %w", err)
	}
	if err := workload.RegisterWorkloadTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register workload tools: %w", err)
	}
	if err := pod.RegisterPodTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register pod tools: %w", err)
	}
	if err := watchtools.RegisterWatchTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register watch tools: %w", err)
	}
	return nil
}
