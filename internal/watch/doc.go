// Package watch implements the resource watch subsystem behind the
// dashboard's live views.
//
// One generic Watcher drives the watch task for every resource kind; a
// Binding supplies the kind-specific parts (GroupVersionResource and the
// event names the UI listens on). The task consumes a change stream,
// classifies each upsert as Added or Modified against the set of keys it
// has already seen, and forwards events to an EventSink. Subscription
// errors surface to the UI as error events and the task keeps running;
// only stream termination or an explicit stop ends it.
package watch
