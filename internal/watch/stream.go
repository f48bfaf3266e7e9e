package watch

import (
	"context"
	"sync"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	apiwatch "k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/dynamic"
)

// subscribeRetryDelay paces retries when the initial listing or the watch
// subscription fails.
const subscribeRetryDelay = 2 * time.Second

// Stream yields change notifications for one resource kind. The channel
// closes when the subscription terminates; errors that leave the
// subscription usable arrive as OpError items instead.
type Stream interface {
	Events() <-chan Notification
	Stop()
}

// Subscriber opens a Stream for a binding. The production implementation
// goes through the dynamic client; tests substitute scripted streams.
type Subscriber interface {
	Subscribe(ctx context.Context, binding Binding) (Stream, error)
}

// DynamicSubscriber subscribes through a dynamic client handle. The handle
// is captured when the watch task starts, so switching the active context
// afterwards does not rebind a running stream.
type DynamicSubscriber struct {
	Client dynamic.Interface
	// Namespace scopes the subscription. Empty means all namespaces.
	Namespace string
}

// Subscribe lists the resource, replays it as init notifications, then
// watches from the listing's resource version.
func (s *DynamicSubscriber) Subscribe(ctx context.Context, binding Binding) (Stream, error) {
	ctx, cancel := context.WithCancel(ctx)
	stream := &dynamicStream{
		events: make(chan Notification),
		cancel: cancel,
	}

	var ri dynamic.ResourceInterface = s.Client.Resource(binding.GVR)
	if s.Namespace != "" {
		ri = s.Client.Resource(binding.GVR).Namespace(s.Namespace)
	}

	go stream.run(ctx, ri)
	return stream, nil
}

type dynamicStream struct {
	events   chan Notification
	cancel   context.CancelFunc
	stopOnce sync.Once
}

func (s *dynamicStream) Events() <-chan Notification {
	return s.events
}

func (s *dynamicStream) Stop() {
	s.stopOnce.Do(s.cancel)
}

func (s *dynamicStream) run(ctx context.Context, ri dynamic.ResourceInterface) {
	defer close(s.events)

	resourceVersion, ok := s.initialList(ctx, ri)
	if !ok {
		return
	}

	for {
		w, err := ri.Watch(ctx, metav1.ListOptions{ResourceVersion: resourceVersion})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !s.send(ctx, Notification{Op: OpError, Err: err}) {
				return
			}
			if !s.pause(ctx) {
				return
			}
			continue
		}
		s.pump(ctx, w)
		return
	}
}

// initialList retries until a listing succeeds, replaying each attempt's
// failure as an OpError item. It returns false when the context ended.
func (s *dynamicStream) initialList(ctx context.Context, ri dynamic.ResourceInterface) (string, bool) {
	for {
		list, err := ri.List(ctx, metav1.ListOptions{})
		if err != nil {
			if ctx.Err() != nil {
				return "", false
			}
			if !s.send(ctx, Notification{Op: OpError, Err: err}) {
				return "", false
			}
			if !s.pause(ctx) {
				return "", false
			}
			continue
		}

		if !s.send(ctx, Notification{Op: OpInitStart}) {
			return "", false
		}
		for i := range list.Items {
			if !s.send(ctx, Notification{Op: OpInitUpsert, Object: &list.Items[i]}) {
				return "", false
			}
		}
		if !s.send(ctx, Notification{Op: OpInitDone}) {
			return "", false
		}
		return list.GetResourceVersion(), true
	}
}

// pump translates watch events into notifications until the server closes
// the watch or the context ends. Bookmarks are dropped.
func (s *dynamicStream) pump(ctx context.Context, w apiwatch.Interface) {
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-w.ResultChan():
			if !open {
				return
			}
			switch event.Type {
			case apiwatch.Added, apiwatch.Modified:
				if obj, ok := event.Object.(*unstructured.Unstructured); ok {
					if !s.send(ctx, Notification{Op: OpUpsert, Object: obj}) {
						return
					}
				}
			case apiwatch.Deleted:
				if obj, ok := event.Object.(*unstructured.Unstructured); ok {
					if !s.send(ctx, Notification{Op: OpRemove, Object: obj}) {
						return
					}
				}
			case apiwatch.Error:
				if !s.send(ctx, Notification{Op: OpError, Err: apierrors.FromObject(event.Object)}) {
					return
				}
			}
		}
	}
}

func (s *dynamicStream) send(ctx context.Context, n Notification) bool {
	select {
	case s.events <- n:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *dynamicStream) pause(ctx context.Context) bool {
	timer := time.NewTimer(subscribeRetryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
