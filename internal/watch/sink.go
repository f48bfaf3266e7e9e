package watch

import (
	"context"
)

// EventSink delivers named events to the UI. Delivery is fire and forget:
// the watch task never learns whether anyone received the event, and a
// returned error only drives a log line.
type EventSink interface {
	Emit(ctx context.Context, event string, payload any) error
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(ctx context.Context, event string, payload any) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, event string, payload any) error {
	return f(ctx, event, payload)
}
