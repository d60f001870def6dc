package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rdlittle/contractor/internal/domain/invoice"
)

func connect(t *testing.T, services Services) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{Services: services})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func textOf(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_ListsTools(t *testing.T) {
	session := connect(t, Services{})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{
		"invoice_create", "invoice_get", "invoice_list", "invoice_add_entry", "invoice_edit_entry",
		"invoice_remove_entry", "invoice_recalculate", "invoice_close", "invoice_pay", "invoice_reopen",
		"invoice_post", "invoice_mark_sent", "invoice_history", "paid_report", "counter_list",
		"counter_set", "client_list", "client_get", "client_save", "client_delete", "rate_list",
		"rate_put", "company_list", "company_save",
	} {
		require.True(t, names[name], "missing tool %s", name)
	}
}

func TestServer_CallTool(t *testing.T) {
	session := connect(t, Services{Invoices: &invoiceStub{inv: sampleInvoice()}})

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "invoice_get",
		Arguments: map[string]any{"id": 1042},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got InvoiceResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &got))
	require.Equal(t, int64(1042), got.ID)
	require.Equal(t, "412.50", got.Amount)
}

func TestServer_ToolErrorCarriesCode(t *testing.T) {
	session := connect(t, Services{Invoices: &invoiceStub{err: invoice.ErrInvoiceNotFound}})

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "invoice_get",
		Arguments: map[string]any{"id": 99},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, textOf(t, res), CodeNotFound)
}

func TestServer_DocResources(t *testing.T) {
	session := connect(t, Services{})

	res, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "contractor://docs/reports"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "paid_report")
}
