package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/logging"
	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/server/middleware"
)

// maxRequestBodyBytes caps MCP request bodies on the HTTP transports.
const maxRequestBodyBytes int64 = 10 << 20

// runStreamableHTTPServer runs the server with Streamable HTTP transport
func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, config ServeConfig, sc *server.ServerContext, provider *instrumentation.Provider, logger *slog.Logger) error {
	mux := http.NewServeMux()

	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(config.HTTPEndpoint),
	)
	mux.Handle(config.HTTPEndpoint, mcpHandler)

	// Health check endpoints for desktop supervisors and probes
	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	allowedOrigins, err := middleware.ValidateAllowedOrigins(os.Getenv("ALLOWED_ORIGINS"))
	if err != nil {
		return fmt.Errorf("invalid ALLOWED_ORIGINS: %w", err)
	}

	// Middleware chain, outermost first: metrics observe every request,
	// security headers apply to every response, origin validation guards
	// the localhost listener against DNS rebinding.
	var handler http.Handler = mux
	handler = middleware.MaxRequestSize(maxRequestBodyBytes)(handler)
	handler = middleware.OriginValidation(allowedOrigins)(handler)
	handler = middleware.CORS(allowedOrigins)(handler)
	handler = middleware.SecurityHeaders(os.Getenv("ENABLE_HSTS") == "true")(handler)
	handler = middleware.HTTPMetrics(provider)(handler)

	logger.Info("streamable HTTP server starting",
		"addr", config.HTTPAddr,
		"endpoint", config.HTTPEndpoint,
		"health_endpoints", []string{"/healthz", "/readyz"})

	httpServer := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	// Wait for either shutdown signal or server completion
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server stopped", logging.Operation("shutdown"))
	return nil
}

// startMetricsServer starts the dedicated metrics listener on its own port,
// isolated from the MCP transport. The caller owns shutdown.
func startMetricsServer(config MetricsServeConfig, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		Enabled:                 config.Enabled,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	go func() {
		if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", logging.Err(err))
		}
	}()

	logger.Info("metrics server started", "addr", metricsServer.Addr(), "endpoint", provider.Config().PrometheusEndpoint)
	return metricsServer, nil
}
