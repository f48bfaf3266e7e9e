package watchtools

import (
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubedeck/kubedeck/internal/tools/testdata"
)

func TestRegisterWatchTools(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{}, newRecordingSink())

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.1",
		mcpserver.WithToolCapabilities(true),
	)

	err := RegisterWatchTools(mcpSrv, sc)
	require.NoError(t, err)

	tools := mcpSrv.ListTools()

	expected := []string{
		"watch_start",
		"watch_stop",
		"watch_status",
	}
	for _, name := range expected {
		assert.Contains(t, tools, name, "tool %s should be registered", name)
	}
}
