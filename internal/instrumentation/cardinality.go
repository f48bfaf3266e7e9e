package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with raw error text.

// Watch error reason classifications for metrics cardinality control.
const (
	// ReasonStreamEnded is the server closing a watch stream.
	ReasonStreamEnded = "stream_ended"

	// ReasonExpired is a watch falling behind the server's history window.
	ReasonExpired = "expired"

	// ReasonForbidden covers RBAC denials.
	ReasonForbidden = "forbidden"

	// ReasonUnauthorized covers rejected or expired credentials.
	ReasonUnauthorized = "unauthorized"

	// ReasonNotFound covers missing resources or API groups.
	ReasonNotFound = "not_found"

	// ReasonTimeout covers deadline and timeout failures.
	ReasonTimeout = "timeout"

	// ReasonNetwork covers connection-level failures.
	ReasonNetwork = "network"

	// ReasonOther is everything that does not match a known pattern.
	ReasonOther = "other"

	// ReasonEmitFailed marks events that could not be delivered to the UI.
	// Recorded by the sink, not produced by ClassifyWatchError.
	ReasonEmitFailed = "emit_failed"
)

// ClassifyWatchError classifies a watch error message into a reason label.
// The raw messages carry server-generated detail (names, IPs, revisions), so
// they are grouped into a fixed set of reasons instead of being recorded
// verbatim.
//
//	ClassifyWatchError("Watch stream ended")                          // "stream_ended"
//	ClassifyWatchError("Watch error: too old resource version: 1 (5)") // "expired"
//	ClassifyWatchError(`Watch error: pods is forbidden: ...`)          // "forbidden"
//	ClassifyWatchError("Watch error: dial tcp 10.0.0.1: i/o timeout")  // "timeout"
//	ClassifyWatchError("Watch error: connection refused")              // "network"
//	ClassifyWatchError("Watch error: something else")                  // "other"
func ClassifyWatchError(message string) string {
	if message == "Watch stream ended" {
		return ReasonStreamEnded
	}

	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "too old resource version"),
		strings.Contains(lower, "expired"),
		strings.Contains(lower, "gone"):
		return ReasonExpired
	case strings.Contains(lower, "forbidden"):
		return ReasonForbidden
	case strings.Contains(lower, "unauthorized"):
		return ReasonUnauthorized
	case strings.Contains(lower, "not found"),
		strings.Contains(lower, "could not find"):
		return ReasonNotFound
	case strings.Contains(lower, "timeout"),
		strings.Contains(lower, "timed out"),
		strings.Contains(lower, "deadline exceeded"):
		return ReasonTimeout
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "connection reset"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "no route to host"),
		strings.Contains(lower, "broken pipe"),
		strings.Contains(lower, "eof"):
		return ReasonNetwork
	default:
		return ReasonOther
	}
}
