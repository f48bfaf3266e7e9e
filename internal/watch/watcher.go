package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubedeck/kubedeck/internal/logging"
)

// stopGracePeriod bounds how long Stop waits for a replaced or stopped
// task to drain before giving up on it.
const stopGracePeriod = 5 * time.Second

// Watcher owns the watch task lifecycle for one resource kind. A single
// implementation serves every kind; the Binding carries the kind-specific
// parts. All methods are safe for concurrent use.
type Watcher struct {
	binding Binding
	logger  *slog.Logger

	mu sync.Mutex
	// generation identifies the task that currently owns cancel and done.
	// A task that outlives its generation must not touch them.
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewWatcher builds an idle watcher for a binding.
func NewWatcher(binding Binding, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		binding: binding,
		logger:  logging.WithKind(logger, binding.Kind),
	}
}

// Binding returns the binding this watcher serves.
func (w *Watcher) Binding() Binding {
	return w.binding
}

// Active reports whether a watch task is live.
func (w *Watcher) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}

// Start spawns a watch task, replacing any running one so that exactly one
// task is live when it returns. Subscription failures are reported through
// the sink as error events, never as a Start failure.
func (w *Watcher) Start(subscriber Subscriber, sink EventSink) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	w.generation++
	generation := w.generation
	w.cancel = cancel
	w.done = done

	w.logger.Debug("starting watch task")

	go func() {
		w.run(ctx, subscriber, sink)
		close(done)
		w.taskExited(generation)
	}()
}

// Stop cancels the running task and waits for it to drain. Stopping an
// idle watcher is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

// Close is Stop under the name the registry tears watchers down with.
func (w *Watcher) Close() {
	w.Stop()
}

func (w *Watcher) stopLocked() {
	if w.cancel == nil {
		return
	}

	w.cancel()
	done := w.done
	w.cancel = nil
	w.done = nil

	select {
	case <-done:
	case <-time.After(stopGracePeriod):
		w.logger.Warn("watch task did not stop within grace period")
	}
}

// taskExited clears the active state after a task ended on its own, so a
// later Start is observed as a fresh session. A generation mismatch means
// another task has replaced this one and owns the state now.
func (w *Watcher) taskExited(generation uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.generation != generation || w.cancel == nil {
		return
	}
	w.cancel()
	w.cancel = nil
	w.done = nil
}

// run is the watch task. It subscribes, replays the stream against a fresh
// identity set, and exits when the stream terminates or the context ends.
func (w *Watcher) run(ctx context.Context, subscriber Subscriber, sink EventSink) {
	stream, err := subscriber.Subscribe(ctx, w.binding)
	if err != nil {
		w.emitError(ctx, sink, fmt.Sprintf("Watch error: %v", err))
		return
	}
	defer stream.Stop()

	seen := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch task stopped")
			return
		case notification, open := <-stream.Events():
			if !open {
				// A close racing a cancel is a stop, not a dead stream.
				if ctx.Err() == nil {
					w.emitError(ctx, sink, "Watch stream ended")
					w.logger.Debug("watch stream ended")
				}
				return
			}
			w.handle(ctx, sink, seen, notification)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, sink EventSink, seen map[string]struct{}, n Notification) {
	switch n.Op {
	case OpInitStart:
		w.logger.Debug("initial listing started")
	case OpInitUpsert:
		// Initial listing objects do not reach the UI and do not seed the
		// identity set, so the first live upsert still classifies as Added.
	case OpInitDone:
		w.logger.Debug("initial listing done")
	case OpUpsert:
		key := identityKey(n.Object)
		classification := Modified
		if _, known := seen[key]; !known {
			seen[key] = struct{}{}
			classification = Added
		}
		w.emitEvent(ctx, sink, classification, n.Object)
	case OpRemove:
		delete(seen, identityKey(n.Object))
		w.emitEvent(ctx, sink, Deleted, n.Object)
	case OpError:
		w.emitError(ctx, sink, fmt.Sprintf("Watch error: %v", n.Err))
	}
}

func (w *Watcher) emitEvent(ctx context.Context, sink EventSink, classification Classification, obj *unstructured.Unstructured) {
	payload := Event{
		EventType: classification,
		Object:    obj.Object,
	}
	if err := sink.Emit(ctx, w.binding.EventName(), payload); err != nil {
		w.logger.Warn("failed to deliver watch event",
			logging.Event(w.binding.EventName()), logging.Err(err))
	}
}

func (w *Watcher) emitError(ctx context.Context, sink EventSink, message string) {
	if err := sink.Emit(ctx, w.binding.ErrorEventName(), ErrorEvent{Error: message}); err != nil {
		w.logger.Warn("failed to deliver watch error event",
			logging.Event(w.binding.ErrorEventName()), logging.Err(err))
	}
}
