// Package logging provides structured logging utilities for the kubedeck backend.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Host/URL sanitization so cluster endpoints never leak into log files
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "resource.list")
//	logger.Info("listing resources",
//	    logging.Namespace("default"),
//	    logging.ResourceType("pods"))
//
// Sanitize errors that may carry API server addresses before logging:
//
//	logger.Warn("watch subscription failed", logging.SanitizedErr(err))
//
// Logs are written to stderr; stdout belongs to the stdio transport.
package logging
