package instrumentation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation("get_resource")

	// Verify initial state
	if ti.Tool != "get_resource" {
		t.Errorf("Tool = %q, want %q", ti.Tool, "get_resource")
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	// Complete the invocation
	time.Sleep(1 * time.Millisecond) // Ensure some duration
	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration == 0 {
		t.Error("Duration should be non-zero")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation("delete_resource")
	err := errors.New("permission denied")

	ti.CompleteWithError(err)

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "permission denied" {
		t.Errorf("Error = %q, want %q", ti.Error, "permission denied")
	}
}

func TestToolInvocation_WithResource(t *testing.T) {
	ti := NewToolInvocation("get_resource")
	ti.WithResource("production", "pods", "nginx-abc123")

	if ti.Namespace != "production" {
		t.Errorf("Namespace = %q, want %q", ti.Namespace, "production")
	}
	if ti.ResourceType != "pods" {
		t.Errorf("ResourceType = %q, want %q", ti.ResourceType, "pods")
	}
	if ti.ResourceName != "nginx-abc123" {
		t.Errorf("ResourceName = %q, want %q", ti.ResourceName, "nginx-abc123")
	}
}

func TestToolInvocation_Status(t *testing.T) {
	ti := NewToolInvocation("test")

	ti.Success = true
	if status := ti.Status(); status != "success" {
		t.Errorf("Status() = %q, want %q", status, "success")
	}

	ti.Success = false
	if status := ti.Status(); status != "error" {
		t.Errorf("Status() = %q, want %q", status, "error")
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation("delete_resource").
		WithResource("production", "pods", "nginx-abc123").
		CompleteSuccess()
	ti.TraceID = "abc123def456"

	attrs := ti.LogAttrs()

	attrMap := make(map[string]slog.Attr)
	for _, attr := range attrs {
		attrMap[attr.Key] = attr
	}

	// Check required attributes
	requiredKeys := []string{"tool", "duration", "success", "namespace", "resource_type", "resource_name", "trace_id"}
	for _, key := range requiredKeys {
		if _, ok := attrMap[key]; !ok {
			t.Errorf("Missing required attribute: %s", key)
		}
	}

	if tool := attrMap["tool"].Value.String(); tool != "delete_resource" {
		t.Errorf("tool = %q, want %q", tool, "delete_resource")
	}
	if ns := attrMap["namespace"].Value.String(); ns != "production" {
		t.Errorf("namespace = %q, want %q", ns, "production")
	}

	// A successful invocation carries no error attribute
	if _, ok := attrMap["error"]; ok {
		t.Error("error attribute should be absent on success")
	}
}

func TestToolInvocation_LogAttrs_Error(t *testing.T) {
	ti := NewToolInvocation("scale_workload").
		CompleteWithError(errors.New("deployments.apps \"web\" not found"))

	attrMap := make(map[string]slog.Attr)
	for _, attr := range ti.LogAttrs() {
		attrMap[attr.Key] = attr
	}

	if msg := attrMap["error"].Value.String(); msg != "deployments.apps \"web\" not found" {
		t.Errorf("error = %q, want the wrapped message", msg)
	}
	if success := attrMap["success"].Value.Bool(); success {
		t.Error("success should be false")
	}
}

func TestToolInvocation_MethodChaining(t *testing.T) {
	ti := NewToolInvocation("list_resources").
		WithResource("default", "deployments", "").
		CompleteSuccess()

	if ti.Tool != "list_resources" {
		t.Errorf("Tool = %q, want %q", ti.Tool, "list_resources")
	}
	if ti.Namespace != "default" {
		t.Errorf("Namespace = %q, want %q", ti.Namespace, "default")
	}
	if !ti.Success {
		t.Error("Success should be true")
	}
}

func TestAuditLogger_New(t *testing.T) {
	// Test with nil logger (should use default)
	al := NewAuditLogger(nil)
	if al.logger == nil {
		t.Error("logger should not be nil when created with nil")
	}

	// Test with custom logger
	logger := slog.Default()
	al = NewAuditLogger(logger)
	if al.logger != logger {
		t.Error("logger should be the provided logger")
	}
}

func TestAuditLogger_LogInvocation(t *testing.T) {
	al := NewAuditLogger(slog.Default())
	ti := NewToolInvocation("get_cluster_overview").CompleteSuccess()

	// Should not panic with either outcome
	al.LogInvocation(context.Background(), ti)
	al.LogInvocation(context.Background(), NewToolInvocation("bad").CompleteWithError(errors.New("boom")))
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	ctx := context.Background()
	traceID := TraceIDFromContext(ctx)

	if traceID != "" {
		t.Errorf("TraceIDFromContext with no span = %q, want empty string", traceID)
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ctx := context.Background()
	ti := NewToolInvocation("test").WithSpanContext(ctx)

	if ti.TraceID != "" {
		t.Errorf("TraceID = %q, want empty string", ti.TraceID)
	}
	if ti.SpanID != "" {
		t.Errorf("SpanID = %q, want empty string", ti.SpanID)
	}
}

func TestToolInvocation_Complete_NilError(t *testing.T) {
	ti := NewToolInvocation("test")
	ti.Complete(true, nil)

	if ti.Error != "" {
		t.Errorf("Error = %q, want empty string", ti.Error)
	}
}
