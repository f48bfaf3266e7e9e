package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures one tool call for audit logging and metrics.
// Build it at the start of a handler, fill it in with the chained With
// methods, and complete it when the handler returns.
type ToolInvocation struct {
	Tool      string
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	Namespace    string
	ResourceType string
	ResourceName string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts tracking a tool call.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithResource records the resource the call targeted.
func (ti *ToolInvocation) WithResource(namespace, resourceType, resourceName string) *ToolInvocation {
	ti.Namespace = namespace
	ti.ResourceType = resourceType
	ti.ResourceName = resourceName
	return ti
}

// WithSpanContext copies trace identifiers from the context's span, if any.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete finalizes the invocation with an outcome.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteSuccess finalizes the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// CompleteWithError finalizes the invocation as failed.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// Status returns the metric status label for the invocation.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns the structured attributes for the audit record.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	if ti.Namespace != "" {
		attrs = append(attrs, slog.String("namespace", ti.Namespace))
	}
	if ti.ResourceType != "" {
		attrs = append(attrs, slog.String("resource_type", ti.ResourceType))
	}
	if ti.ResourceName != "" {
		attrs = append(attrs, slog.String("resource_name", ti.ResourceName))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}

	return attrs
}

// AuditLogger writes tool invocation records through a structured logger.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates an AuditLogger. A nil logger falls back to the
// process default.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger}
}

// LogInvocation writes one completed invocation. Failures log at warn so
// they stand out in an otherwise quiet stream.
func (al *AuditLogger) LogInvocation(ctx context.Context, ti *ToolInvocation) {
	level := slog.LevelInfo
	if !ti.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "tool invocation", ti.LogAttrs()...)
}

// TraceIDFromContext returns the trace ID of the span in ctx, or "" when
// there is none.
func TraceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
