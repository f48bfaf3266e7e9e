package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// mockMeterProvider creates a simple meter for testing
func mockMeterProvider() metric.Meter {
	provider := sdkmetric.NewMeterProvider()
	return provider.Meter("test")
}

func TestNewMetrics(t *testing.T) {
	meter := mockMeterProvider()
	metrics, err := NewMetrics(meter, false) // false = no detailed labels
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Verify all metrics are initialized (non-nil)
	if metrics.httpRequestsTotal == nil {
		t.Error("expected httpRequestsTotal to be initialized")
	}
	if metrics.httpRequestDuration == nil {
		t.Error("expected httpRequestDuration to be initialized")
	}
	if metrics.toolInvocationsTotal == nil {
		t.Error("expected toolInvocationsTotal to be initialized")
	}
	if metrics.toolInvocationDuration == nil {
		t.Error("expected toolInvocationDuration to be initialized")
	}
	if metrics.k8sOperationsTotal == nil {
		t.Error("expected k8sOperationsTotal to be initialized")
	}
	if metrics.k8sOperationDuration == nil {
		t.Error("expected k8sOperationDuration to be initialized")
	}
	if metrics.watchEventsTotal == nil {
		t.Error("expected watchEventsTotal to be initialized")
	}
	if metrics.watchErrorsTotal == nil {
		t.Error("expected watchErrorsTotal to be initialized")
	}
	if metrics.activeWatchers == nil {
		t.Error("expected activeWatchers to be initialized")
	}

	// Verify detailedLabels is set correctly
	if metrics.detailedLabels != false {
		t.Error("expected detailedLabels to be false")
	}
}

func TestNewMetrics_DetailedLabels(t *testing.T) {
	meter := mockMeterProvider()
	metrics, err := NewMetrics(meter, true) // true = detailed labels
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	if metrics.detailedLabels != true {
		t.Error("expected detailedLabels to be true")
	}
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	meter := mockMeterProvider()
	metrics, err := NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	ctx := context.Background()
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "GET", "/metrics", 200, 50*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 200*time.Millisecond)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	meter := mockMeterProvider()
	metrics, err := NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	ctx := context.Background()
	metrics.RecordToolInvocation(ctx, "get_cluster_overview", StatusSuccess, 50*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "delete_resource", StatusError, 25*time.Millisecond)
}

func TestMetrics_RecordK8sOperation(t *testing.T) {
	meter := mockMeterProvider()
	metrics, err := NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	ctx := context.Background()
	metrics.RecordK8sOperation(ctx, OperationGet, "pods", "default", StatusSuccess, 50*time.Millisecond)
	metrics.RecordK8sOperation(ctx, OperationList, "deployments", "kube-system", StatusSuccess, 100*time.Millisecond)
	metrics.RecordK8sOperation(ctx, OperationDelete, "pods", "default", StatusError, 75*time.Millisecond)
}

func TestMetrics_RecordK8sOperation_DetailedLabels(t *testing.T) {
	meter := mockMeterProvider()
	metrics, err := NewMetrics(meter, true)
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	ctx := context.Background()
	metrics.RecordK8sOperation(ctx, OperationGet, "pods", "default", StatusSuccess, 50*time.Millisecond)
}

func TestMetrics_RecordWatchMetrics(t *testing.T) {
	meter := mockMeterProvider()
	metrics, err := NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	ctx := context.Background()
	metrics.RecordWatchEvent(ctx, "pod", "Added")
	metrics.RecordWatchEvent(ctx, "pod", "Modified")
	metrics.RecordWatchEvent(ctx, "deployment", "Deleted")
	metrics.RecordWatchError(ctx, "pod", ReasonStreamEnded)
	metrics.RecordWatchError(ctx, "service", ReasonForbidden)
	metrics.RecordActiveWatchers(ctx, 3)
	metrics.RecordActiveWatchers(ctx, 0)
}

func TestMetrics_NilMetrics(t *testing.T) {
	// The zero value must be a safe no-op recorder
	metrics := &Metrics{}
	ctx := context.Background()

	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "get_cluster_overview", StatusSuccess, 50*time.Millisecond)
	metrics.RecordK8sOperation(ctx, OperationGet, "pods", "default", StatusSuccess, 50*time.Millisecond)
	metrics.RecordWatchEvent(ctx, "pod", "Added")
	metrics.RecordWatchError(ctx, "pod", ReasonOther)
	metrics.RecordActiveWatchers(ctx, 1)
}
