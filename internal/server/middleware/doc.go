// Package middleware provides HTTP middleware for the kubedeck MCP server.
// These middleware functions handle security headers, origin validation,
// CORS, request metrics, and other cross-cutting concerns.
package middleware
