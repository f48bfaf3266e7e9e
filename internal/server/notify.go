package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/watch"
)

// NotificationSink delivers watch events to every connected MCP client as
// JSON-RPC notifications. Delivery is fire and forget: mcp-go drops
// notifications for sessions whose channels are full, and nothing here ever
// blocks a watch task.
type NotificationSink struct {
	srv    *mcpserver.MCPServer
	logger *slog.Logger
}

// NewNotificationSink creates a sink emitting through the given MCP server.
func NewNotificationSink(srv *mcpserver.MCPServer, logger *slog.Logger) *NotificationSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationSink{srv: srv, logger: logger}
}

// Emit implements watch.EventSink.
func (s *NotificationSink) Emit(ctx context.Context, event string, payload any) error {
	if s.srv == nil {
		return fmt.Errorf("no MCP server attached to notification sink")
	}

	params, err := notificationParams(payload)
	if err != nil {
		return err
	}

	s.srv.SendNotificationToAllClients(event, params)
	s.logger.Debug("Emitted notification", "event", event)
	return nil
}

// notificationParams converts a payload into the map form the MCP
// notification API takes. The JSON round-trip keeps the field names
// identical to the struct tags the UI decodes.
func notificationParams(payload any) (map[string]any, error) {
	if params, ok := payload.(map[string]any); ok {
		return params, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T notification payload: %w", payload, err)
	}

	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("failed to decode %T notification payload: %w", payload, err)
	}
	return params, nil
}

// MeteredSink decorates an EventSink with watch delivery metrics. It wraps
// the notification sink in production and any sink in tests; with a nil or
// disabled metrics recorder it degrades to pass-through.
type MeteredSink struct {
	next    watch.EventSink
	metrics *instrumentation.Metrics
}

// NewMeteredSink wraps next with metric recording.
func NewMeteredSink(next watch.EventSink, metrics *instrumentation.Metrics) *MeteredSink {
	if metrics == nil {
		metrics = noopMetrics
	}
	return &MeteredSink{next: next, metrics: metrics}
}

// Emit implements watch.EventSink.
func (s *MeteredSink) Emit(ctx context.Context, event string, payload any) error {
	kind := watchEventKind(event)

	if err := s.next.Emit(ctx, event, payload); err != nil {
		s.metrics.RecordWatchError(ctx, kind, instrumentation.ReasonEmitFailed)
		return err
	}

	switch p := payload.(type) {
	case watch.Event:
		s.metrics.RecordWatchEvent(ctx, kind, string(p.EventType))
	case watch.ErrorEvent:
		s.metrics.RecordWatchError(ctx, kind, instrumentation.ClassifyWatchError(p.Error))
	}
	return nil
}

// watchEventKind extracts the resource kind from a watch event name,
// e.g. "pod-watch-event" -> "pod". Names outside the watch convention pass
// through unchanged so they stay attributable.
func watchEventKind(event string) string {
	if kind, ok := strings.CutSuffix(event, "-watch-event"); ok {
		return kind
	}
	if kind, ok := strings.CutSuffix(event, "-watch-error"); ok {
		return kind
	}
	return event
}
