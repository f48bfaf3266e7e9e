package watch

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Classification describes how a change relates to what the watch task has
// already reported for the object.
type Classification string

const (
	// Added means the object's key was not in the task's identity set.
	Added Classification = "Added"
	// Modified means the object's key was already known.
	Modified Classification = "Modified"
	// Deleted means the object is gone.
	Deleted Classification = "Deleted"
)

// Op enumerates the notification families a change stream can yield.
type Op int

const (
	// OpInitStart marks the beginning of the initial listing.
	OpInitStart Op = iota
	// OpInitUpsert carries one object from the initial listing.
	OpInitUpsert
	// OpInitDone marks the end of the initial listing.
	OpInitDone
	// OpUpsert means the object now exists with the carried content.
	OpUpsert
	// OpRemove means the object no longer exists.
	OpRemove
	// OpError carries a subscription error. The stream stays open.
	OpError
)

// Notification is one item from a change stream. Object is set for the
// upsert and remove families, Err for OpError.
type Notification struct {
	Op     Op
	Object *unstructured.Unstructured
	Err    error
}

// Event is the payload published under a kind's event name.
type Event struct {
	EventType Classification         `json:"event_type"`
	Object    map[string]interface{} `json:"object"`
}

// ErrorEvent is the payload published under a kind's error event name.
type ErrorEvent struct {
	Error string `json:"error"`
}

// identityKey builds the namespace/name key a watch task tracks objects
// under. Objects without a namespace are filed under the literal "default".
func identityKey(obj *unstructured.Unstructured) string {
	namespace := obj.GetNamespace()
	if namespace == "" {
		namespace = "default"
	}
	return namespace + "/" + obj.GetName()
}
