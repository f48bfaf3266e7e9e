package watch

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Binding ties a watchable kind to its GroupVersionResource and to the
// event names the UI subscribes to.
type Binding struct {
	Kind string
	GVR  schema.GroupVersionResource
}

// EventName returns the name change events are published under.
func (b Binding) EventName() string {
	return b.Kind + "-watch-event"
}

// ErrorEventName returns the name error events are published under.
func (b Binding) ErrorEventName() string {
	return b.Kind + "-watch-error"
}

// Bindings returns the watchable kinds in a stable order.
func Bindings() []Binding {
	return []Binding{
		{Kind: "pod", GVR: schema.GroupVersionResource{Version: "v1", Resource: "pods"}},
		{Kind: "deployment", GVR: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}},
		{Kind: "statefulset", GVR: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "statefulsets"}},
		{Kind: "daemonset", GVR: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "daemonsets"}},
		{Kind: "replicaset", GVR: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "replicasets"}},
		{Kind: "service", GVR: schema.GroupVersionResource{Version: "v1", Resource: "services"}},
		{Kind: "cronjob", GVR: schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "cronjobs"}},
	}
}

// BindingFor looks up the binding for a kind name.
func BindingFor(kind string) (Binding, bool) {
	for _, binding := range Bindings() {
		if binding.Kind == kind {
			return binding, true
		}
	}
	return Binding{}, false
}

// Kinds returns the watchable kind names in the same order as Bindings.
func Kinds() []string {
	bindings := Bindings()
	kinds := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		kinds = append(kinds, binding.Kind)
	}
	return kinds
}
