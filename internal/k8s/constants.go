package k8s

import "time"

const (
	// Default performance settings
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30
	DefaultTimeout    = 30 * time.Second

	// Discovery timeout for resource type resolution
	DiscoveryTimeout = 30 * time.Second

	// Namespace applied when callers leave it empty
	DefaultNamespace = "default"

	// How long cluster overview results stay cached
	OverviewCacheTTL = 30 * time.Second

	// How long a metrics API availability probe stays cached
	MetricsCheckTTL = time.Minute

	// Spacing between points in a synthesized metrics timeline
	MetricsHistoryStep = 30 * time.Second

	// Window used when a metrics history request does not specify one
	DefaultMetricsWindow = 30 * time.Minute
)
