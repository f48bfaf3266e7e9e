// Package server provides the ServerContext pattern and related infrastructure
// for the kubedeck MCP server.
//
// This package implements the core server architecture patterns including:
//
//   - ServerContext: Encapsulates all server dependencies and lifecycle management
//   - Functional Options: Clean dependency injection and configuration
//   - NotificationSink: Delivery of watch events to connected MCP clients
//   - HealthChecker: Liveness and readiness endpoints for the HTTP transports
//   - MetricsServer: Dedicated Prometheus scrape listener
//
// The ServerContext Pattern:
//
// The ServerContext struct follows the context pattern commonly used in Go
// applications to encapsulate dependencies and provide clean separation of
// concerns. It includes:
//
//   - Kubernetes client interface
//   - Structured logger
//   - Configuration settings
//   - Watch registry and UI event sink
//   - Context for cancellation and timeouts
//   - Lifecycle management (shutdown, cleanup)
//
// All dependencies are injected using functional options, making the code
// highly testable and modular.
//
// Example usage:
//
//	ctx := context.Background()
//	serverCtx, err := NewServerContext(ctx,
//		WithK8sClient(k8sClient),
//		WithLogger(logger),
//		WithEventSink(NewNotificationSink(mcpSrv, logger)),
//		WithDefaultNamespace("production"),
//		WithLogLevel("debug"),
//	)
//	if err != nil {
//		return err
//	}
//	defer serverCtx.Shutdown()
//
//	// Use the context in MCP tools
//	client := serverCtx.K8sClient()
//	registry := serverCtx.WatchRegistry()
//
//	// Check if server is shutting down
//	if serverCtx.IsShutdown() {
//		return ErrServerShutdown
//	}
//
// Event delivery:
//
// Watch tasks publish UI events through the watch.EventSink interface. In
// production the sink is a NotificationSink sending JSON-RPC notifications
// to every connected client, optionally wrapped in a MeteredSink that
// records delivery metrics. Shutdown stops all watch tasks before the root
// context is cancelled so their exit is observed as a clean stop.
package server
