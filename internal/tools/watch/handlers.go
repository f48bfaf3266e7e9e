package watchtools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/logging"
	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/watch"
)

// statusResponse reports which kinds have a live watch task.
type statusResponse struct {
	Active  int             `json:"active"`
	Watches map[string]bool `json:"watches"`
}

// handleWatchStart handles the watch_start tool request.
func handleWatchStart(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	kind, ok := args["kind"].(string)
	if !ok || kind == "" {
		return mcp.NewToolResultError("kind is required"), nil
	}

	watcher, ok := sc.WatchRegistry().Watcher(kind)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown watch kind: %s", kind)), nil
	}

	start := time.Now()

	// The client handle is captured here, so the task keeps streaming from
	// this cluster even after the active context changes.
	dyn, err := sc.K8sClient().DynamicClient()
	if err != nil {
		sc.RecordK8sOperation(ctx, instrumentation.OperationWatch, kind, "", instrumentation.StatusError, time.Since(start))
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start watch: %v", err)), nil
	}

	watcher.Start(&watch.DynamicSubscriber{Client: dyn}, sc.EventSink())
	sc.RecordK8sOperation(ctx, instrumentation.OperationWatch, kind, "", instrumentation.StatusSuccess, time.Since(start))
	sc.Metrics().RecordActiveWatchers(ctx, int64(sc.WatchRegistry().ActiveCount()))

	sc.Logger().Info("watch started", logging.Kind(kind))

	return mcp.NewToolResultText(fmt.Sprintf("Successfully started watch for kind: %s", kind)), nil
}

// handleWatchStop handles the watch_stop tool request. Stopping a kind
// that is not being watched is a no-op and still succeeds.
func handleWatchStop(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	kind, ok := args["kind"].(string)
	if !ok || kind == "" {
		return mcp.NewToolResultError("kind is required"), nil
	}

	watcher, ok := sc.WatchRegistry().Watcher(kind)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown watch kind: %s", kind)), nil
	}

	watcher.Stop()
	sc.Metrics().RecordActiveWatchers(ctx, int64(sc.WatchRegistry().ActiveCount()))

	sc.Logger().Info("watch stopped", logging.Kind(kind))

	return mcp.NewToolResultText(fmt.Sprintf("Successfully stopped watch for kind: %s", kind)), nil
}

// handleWatchStatus handles the watch_status tool request.
func handleWatchStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	registry := sc.WatchRegistry()

	response := statusResponse{
		Active:  registry.ActiveCount(),
		Watches: registry.Status(),
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal watch status: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
