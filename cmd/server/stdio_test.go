package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// serverBinary locates a built server, from CONTRACTOR_TEST_BINARY or bin/.
func serverBinary(t *testing.T) string {
	t.Helper()

	if path := os.Getenv("CONTRACTOR_TEST_BINARY"); path != "" {
		return path
	}
	path, err := filepath.Abs(filepath.Join("..", "..", "bin", "contractor"))
	require.NoError(t, err)
	if _, err := os.Stat(path); err != nil {
		t.Skip("server binary not found; build it to bin/contractor or set CONTRACTOR_TEST_BINARY")
	}
	return path
}

func newStdioSession(t *testing.T, extraEnv ...string) *sdkmcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	cmd := exec.CommandContext(ctx, serverBinary(t))
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(),
		"CONTRACTOR_TRANSPORT_MODE=stdio",
		"CONTRACTOR_DB_PATH=:memory:",
		"CONTRACTOR_STORE_DRIVER=sqlite",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := c.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestStdio_ProtocolCompliance(t *testing.T) {
	session := newStdioSession(t)
	ctx := context.Background()

	init := session.InitializeResult()
	require.NotNil(t, init)
	require.Equal(t, "contractor", init.ServerInfo.Name)

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Greater(t, len(tools.Tools), 20)

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "counter_list", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)

	var counters struct {
		Counters []struct {
			Name string `json:"name"`
			Next int64  `json:"next"`
		} `json:"counters"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &counters))
	require.Len(t, counters.Counters, 5)
}

func TestStdio_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "contractor.log")
	session := newStdioSession(t, "CONTRACTOR_LOG_PATH="+logPath, "CONTRACTOR_LOG_LEVEL=debug")

	_, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "starting stdio transport")
}
