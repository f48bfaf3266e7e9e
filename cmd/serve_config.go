package cmd

import (
	"fmt"
	"os"
	"time"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Kubernetes client settings
	KubeconfigPath   string
	DefaultNamespace string
	ReadOnly         bool
	QPSLimit         float32
	BurstLimit       int
	Timeout          time.Duration

	// Logging
	LogLevel string

	// Metrics listener settings
	Metrics MetricsServeConfig
}

// MetricsServeConfig configures the dedicated Prometheus listener. The
// listener runs for every transport, so stdio mode can be scraped too.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// validLogLevels are the names the logging package understands.
var validLogLevels = map[string]bool{
	"":        true,
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks the configuration before the server starts.
func (c *ServeConfig) Validate() error {
	switch c.Transport {
	case transportStdio, transportSSE, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			c.Transport, transportStdio, transportSSE, transportStreamableHTTP)
	}

	if c.Transport != transportStdio && c.HTTPAddr == "" {
		return fmt.Errorf("http-addr is required for the %s transport", c.Transport)
	}

	if c.QPSLimit < 0 {
		return fmt.Errorf("qps must not be negative, got %v", c.QPSLimit)
	}
	if c.BurstLimit < 0 {
		return fmt.Errorf("burst must not be negative, got %d", c.BurstLimit)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (supported: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}
