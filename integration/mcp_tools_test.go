//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	ascentobs "github.com/judehek/ascent-obs"
)

// connectTools serves the recorder's MCP tools over an in-memory transport.
func connectTools(t *testing.T, ctx context.Context, recorder *ascentobs.Recorder) *mcp.ClientSession {
	t.Helper()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := ascentobs.NewMCPServer(recorder, "test", nil).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "integration", Version: "test"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

// TestMCPTools_Registration tests that every recorder tool is listed.
func TestMCPTools_Registration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session := connectTools(t, ctx, startRecorder(t))

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}

	require.ElementsMatch(t, []string{
		"list_recordings",
		"query_machine_info",
		"split_video",
		"start_recording",
		"stop_recording",
	}, names)
}

// TestMCPTools_QueryMachineInfo tests a tool call that reaches the worker.
func TestMCPTools_QueryMachineInfo(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session := connectTools(t, ctx, startRecorder(t))

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "query_machine_info",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")

	var info ascentobs.MachineInfo
	require.NoError(t, json.Unmarshal([]byte(text.Text), &info))
	require.NotEmpty(t, info.VideoEncoders)
}
