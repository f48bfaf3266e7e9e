package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod       = "method"
	attrPath         = "path"
	attrStatus       = "status"
	attrTool         = "tool"
	attrOperation    = "operation"
	attrResourceType = "resource_type"
	attrNamespace    = "namespace"
	attrKind         = "kind"
	attrEventType    = "event_type"
	attrReason       = "reason"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a safe no-op recorder.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Tool invocation metrics
	toolInvocationsTotal   metric.Int64Counter
	toolInvocationDuration metric.Float64Histogram

	// Kubernetes operation metrics
	k8sOperationsTotal   metric.Int64Counter
	k8sOperationDuration metric.Float64Histogram

	// Watch subsystem metrics
	watchEventsTotal metric.Int64Counter
	watchErrorsTotal metric.Int64Counter
	activeWatchers   metric.Int64Gauge

	// detailedLabels controls whether high-cardinality labels (namespace,
	// resource_type) are included in Kubernetes operation metrics
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"tool_invocations_total",
		metric.WithDescription("Total number of tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocations_total counter: %w", err)
	}

	m.toolInvocationDuration, err = meter.Float64Histogram(
		"tool_invocation_duration_seconds",
		metric.WithDescription("Tool invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocation_duration_seconds histogram: %w", err)
	}

	m.k8sOperationsTotal, err = meter.Int64Counter(
		"kubernetes_operations_total",
		metric.WithDescription("Total number of Kubernetes operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes_operations_total counter: %w", err)
	}

	m.k8sOperationDuration, err = meter.Float64Histogram(
		"kubernetes_operation_duration_seconds",
		metric.WithDescription("Kubernetes operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes_operation_duration_seconds histogram: %w", err)
	}

	m.watchEventsTotal, err = meter.Int64Counter(
		"watch_events_emitted_total",
		metric.WithDescription("Total number of watch events emitted to the UI"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create watch_events_emitted_total counter: %w", err)
	}

	m.watchErrorsTotal, err = meter.Int64Counter(
		"watch_errors_total",
		metric.WithDescription("Total number of watch error events emitted to the UI"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create watch_errors_total counter: %w", err)
	}

	m.activeWatchers, err = meter.Int64Gauge(
		"active_watchers",
		metric.WithDescription("Number of live watch tasks"),
		metric.WithUnit("{watcher}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_watchers gauge: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records one tool call with its outcome and duration.
// The tool name set is small and fixed, so it is always a label.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolInvocationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolInvocationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordK8sOperation records a Kubernetes operation with operation type, resource type,
// namespace, status, and duration.
//
// CARDINALITY NOTE: When detailedLabels is false (default), only operation and status
// labels are recorded to avoid cardinality explosion in large clusters.
// When detailedLabels is true, namespace and resource_type are also included.
func (m *Metrics) RecordK8sOperation(ctx context.Context, operation, resourceType, namespace, status string, duration time.Duration) {
	if m.k8sOperationsTotal == nil || m.k8sOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels {
		attrs = append(attrs,
			attribute.String(attrResourceType, resourceType),
			attribute.String(attrNamespace, namespace),
		)
	}

	m.k8sOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.k8sOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordWatchEvent counts one watch event delivered to the UI.
// eventType is the classification (Added, Modified, Deleted).
func (m *Metrics) RecordWatchEvent(ctx context.Context, kind, eventType string) {
	if m.watchEventsTotal == nil {
		return // Instrumentation not initialized
	}

	m.watchEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrEventType, eventType),
	))
}

// RecordWatchError counts one watch error event delivered to the UI.
// Pass the message through ClassifyWatchError first; raw error strings are
// unbounded and would explode the label set.
func (m *Metrics) RecordWatchError(ctx context.Context, kind, reason string) {
	if m.watchErrorsTotal == nil {
		return // Instrumentation not initialized
	}

	m.watchErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrReason, reason),
	))
}

// RecordActiveWatchers records the current number of live watch tasks.
// Called by the watch tools after every start and stop transition.
func (m *Metrics) RecordActiveWatchers(ctx context.Context, count int64) {
	if m.activeWatchers == nil {
		return // Instrumentation not initialized
	}

	m.activeWatchers.Record(ctx, count)
}
