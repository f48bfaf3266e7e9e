// Package cmd provides the command-line interface for kubedeck.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// Running the binary without a subcommand is equivalent to "kubedeck serve",
// which is how the desktop UI launches it.
//
// Command Structure:
//
//	kubedeck [flags]                 # Starts the MCP server (default)
//	kubedeck serve [flags]           # Explicitly starts the MCP server
//	kubedeck version                 # Shows version information
//	kubedeck self-update             # Updates to latest release
//	kubedeck help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for the embedded UI process
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	kubedeck serve --transport stdio           # Default STDIO transport
//	kubedeck serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	kubedeck serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command also supports flags for controlling Kubernetes client
// behavior, including read-only mode, the default namespace, and API rate
// limiting settings.
package cmd
