package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
)

// DefaultShutdownTimeout bounds graceful HTTP server shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// DefaultMetricsAddr is the listen address used when none is configured.
const DefaultMetricsAddr = ":9090"

// MetricsServerConfig configures the dedicated metrics listener.
type MetricsServerConfig struct {
	// Addr is the listen address. Defaults to DefaultMetricsAddr.
	Addr string

	// Enabled gates the server. Construction fails when disabled so a
	// misconfigured caller cannot silently run without metrics.
	Enabled bool

	// InstrumentationProvider supplies the Prometheus endpoint path.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer serves Prometheus metrics on its own listener, keeping
// scrape traffic off the MCP endpoint.
type MetricsServer struct {
	httpServer *http.Server
	addr       string
}

// NewMetricsServer creates a metrics server for the given configuration.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if !config.Enabled {
		return nil, fmt.Errorf("metrics server is not enabled")
	}
	if config.InstrumentationProvider == nil {
		return nil, fmt.Errorf("instrumentation provider is required")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	endpoint := config.InstrumentationProvider.Config().PrometheusEndpoint
	if endpoint == "" {
		endpoint = "/metrics"
	}

	mux := http.NewServeMux()
	// The OTel prometheus exporter registers into the default registry,
	// which promhttp serves.
	mux.Handle(endpoint, promhttp.Handler())
	// Liveness for the metrics listener itself.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &MetricsServer{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr: addr,
	}, nil
}

// Addr returns the configured listen address.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// Start serves until Shutdown is called. Like http.Server, it returns
// http.ErrServerClosed after a graceful shutdown.
func (s *MetricsServer) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	slog.Debug("Shutting down metrics server")
	return s.httpServer.Shutdown(ctx)
}
