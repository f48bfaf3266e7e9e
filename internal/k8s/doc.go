// Package k8s provides interfaces and types for Kubernetes operations.
//
// This package defines the core Client interface that abstracts all cluster
// operations needed by the MCP tools. A client is bound to the user's
// kubeconfig and holds at most one active context at a time; every
// cluster-bound call fails with ErrNoActiveContext until the UI selects one.
//
// The interface is broken down into focused concerns:
//
//   - ContextManager: kubeconfig context listing and switching
//   - ResourceManager: generic resource operations through the dynamic client
//   - WorkloadManager: scale, restart, rollback and workload drill-downs
//   - PodManager: logs, events, describe, delete and restart
//   - ClusterManager: overview, nodes and namespaces
//   - MetricsManager: node and pod usage from the metrics API
//
// Example usage:
//
//	// Select a context, then read a resource
//	if err := client.SwitchContext(ctx, "kind-dev"); err != nil {
//		return err
//	}
//	obj, err := client.GetResource(ctx, "default", "deployment", "web")
//	if err != nil {
//		return err
//	}
//
//	// Get the last lines of a container log
//	tail := int64(100)
//	logs, err := client.GetPodLogs(ctx, "default", "web-1",
//		LogOptions{Container: "app", TailLines: &tail})
//	if err != nil {
//		return err
//	}
//
// The package focuses on interface definitions and types, with the concrete
// kubeconfig-backed implementation in client_impl.go. Tests inject mocks
// through the same interfaces.
package k8s
