// Package instrumentation provides OpenTelemetry instrumentation for the
// kubedeck backend.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for tool invocations, Kubernetes operations, and the watch subsystem
//   - Distributed tracing for tool handling and Kubernetes API calls
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Tool Metrics:
//   - tool_invocations_total: Counter of tool calls by tool and status
//   - tool_invocation_duration_seconds: Histogram of tool call durations
//
// Kubernetes Operation Metrics:
//   - kubernetes_operations_total: Counter of K8s operations by operation and status
//   - kubernetes_operation_duration_seconds: Histogram of K8s operation durations
//
// Watch Metrics:
//   - watch_events_emitted_total: Counter of UI watch events by kind and event_type
//   - watch_errors_total: Counter of UI watch error events by kind and reason
//   - active_watchers: Gauge of live watch tasks
//
// # Cardinality Considerations
//
// IMPORTANT: namespace and resource_type labels can create high cardinality
// in large Kubernetes clusters, so they are only attached when
// METRICS_DETAILED_LABELS is set. Watch error messages carry unbounded
// server-generated text; ClassifyWatchError folds them into a fixed reason
// set before they are used as labels.
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - MCP tool invocations
//   - Kubernetes API calls
//
// Watch tasks are long-lived and deliberately unspanned; their activity is
// visible through the watch metrics instead.
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: kubedeck)
//   - METRICS_DETAILED_LABELS: Attach namespace/resource_type labels (default: false)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "kubedeck",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record a Kubernetes operation
//	recorder.RecordK8sOperation(ctx, "get", "pods", "default", "success", time.Since(start))
//
//	// Record a watch event delivery
//	recorder.RecordWatchEvent(ctx, "pod", "Added")
package instrumentation
