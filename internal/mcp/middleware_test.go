package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rdlittle/contractor/internal/domain/invoice"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func connectLogged(t *testing.T, services Services, level slog.Level) (*sdkmcp.ClientSession, *syncBuffer) {
	t.Helper()
	ctx := context.Background()

	logs := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: level}))
	server := NewServer(Config{Services: services, Logger: logger})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session, logs
}

func TestToolCallMiddleware_LogsOutcome(t *testing.T) {
	session, logs := connectLogged(t, Services{Invoices: &invoiceStub{inv: sampleInvoice()}}, slog.LevelInfo)

	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "invoice_get",
		Arguments: map[string]any{"id": 1042},
	})
	require.NoError(t, err)

	out := logs.String()
	require.Contains(t, out, `msg="tool call"`)
	require.Contains(t, out, "tool=invoice_get")
	require.NotContains(t, out, "mcp request")
}

func TestToolCallMiddleware_LogsRejection(t *testing.T) {
	session, logs := connectLogged(t, Services{Invoices: &invoiceStub{err: invoice.ErrInvoiceNotFound}}, slog.LevelInfo)

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "invoice_get",
		Arguments: map[string]any{"id": 7},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, logs.String(), `msg="tool call rejected"`)
	require.Contains(t, logs.String(), CodeNotFound)
}

func TestTrafficLogging_DebugOnly(t *testing.T) {
	session, logs := connectLogged(t, Services{Invoices: &invoiceStub{inv: sampleInvoice()}}, slog.LevelDebug)

	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "invoice_get",
		Arguments: map[string]any{"id": 1042},
	})
	require.NoError(t, err)
	require.Contains(t, logs.String(), `msg="mcp request"`)
	require.Contains(t, logs.String(), "direction=inbound")
}

func TestTracePayload_Truncates(t *testing.T) {
	long := strings.Repeat("x", maxTracedPayload*2)
	out := tracePayload(map[string]string{"k": long})
	require.Less(t, len(out), maxTracedPayload+64)
	require.Contains(t, out, "bytes)")
	require.Equal(t, "<nil>", tracePayload(nil))
}
