package testserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rdlittle/contractor/internal/mcp"
	"github.com/rdlittle/contractor/internal/testserver"
)

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func decode[T any](t *testing.T, res *sdkmcp.CallToolResult) T {
	t.Helper()

	require.False(t, res.IsError, "tool error: %s", text(t, res))
	var out T
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	return out
}

func text(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func newClient(t *testing.T, session *sdkmcp.ClientSession) mcp.ClientResponse {
	t.Helper()

	decode[mcp.RateResponse](t, callTool(t, session, "rate_put", map[string]any{"id": "std", "amount": "50"}))
	return decode[mcp.ClientResponse](t, callTool(t, session, "client_save", map[string]any{
		"name":    "Acme Corp",
		"rate_id": "std",
		"prefix":  "ACM",
		"city":    "Springfield",
	}))
}

func TestFunctional_Authentication(t *testing.T) {
	ts := testserver.New(t, "secret")

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/mcp", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	health, err := http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	require.Equal(t, http.StatusOK, health.StatusCode)

	session := ts.Connect(t)
	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, tools.Tools)
}

func TestFunctional_InvoiceLifecycle(t *testing.T) {
	ts := testserver.New(t, "secret")
	session := ts.Connect(t)
	acme := newClient(t, session)

	inv := decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_create", map[string]any{
		"client_id": acme.ID,
		"date":      "01/01/2024",
	}))
	require.Equal(t, "open", inv.Status)
	require.Equal(t, "50.00", inv.Rate)

	inv = decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_add_entry", map[string]any{
		"invoice_id":  inv.ID,
		"date":        "01/03/2024",
		"description": "build",
		"hours":       "3.5",
	}))
	inv = decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_add_entry", map[string]any{
		"invoice_id":  inv.ID,
		"date":        "01/02/2024",
		"description": "plan",
		"hours":       "2",
	}))
	require.Len(t, inv.Entries, 2)
	require.Equal(t, "5.50", inv.Hours)
	require.Equal(t, "275.00", inv.Amount)

	res := callTool(t, session, "invoice_close", map[string]any{"id": inv.ID})
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), mcp.CodeValidation)

	inv = decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_close", map[string]any{
		"id":   inv.ID,
		"date": "01/31/2024",
	}))
	require.Equal(t, "closed", inv.Status)
	require.Equal(t, "01/31/2024", inv.CloseDate)

	inv = decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_pay", map[string]any{
		"id":           inv.ID,
		"check_number": "1042",
		"paid_date":    "02/05/2024",
	}))
	require.Equal(t, "paid", inv.Status)

	rep := decode[mcp.PaidReportResponse](t, callTool(t, session, "paid_report", map[string]any{
		"client_id": acme.ID,
		"start":     "02/01/2024",
		"end":       "02/05/2024",
	}))
	require.False(t, rep.Empty)
	require.Equal(t, "Acme Corp", rep.ClientName)
	require.Equal(t, 1, rep.Count)
	require.Equal(t, "275.00", rep.TotalAmount)

	inv = decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_post", map[string]any{"id": inv.ID}))
	require.Equal(t, "posted", inv.Status)

	res = callTool(t, session, "invoice_reopen", map[string]any{"id": inv.ID})
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "Posted invoices are final")

	history := decode[mcp.HistoryResponse](t, callTool(t, session, "invoice_history", map[string]any{"id": inv.ID}))
	require.NotEmpty(t, history.Entries)
	require.Equal(t, "invoice_posted", history.Entries[0].Type)
}

func TestFunctional_InvoiceViews(t *testing.T) {
	ts := testserver.New(t, "")
	session := ts.Connect(t)
	acme := newClient(t, session)

	company := decode[mcp.CompanyResponse](t, callTool(t, session, "company_save", map[string]any{
		"name": "Little Consulting",
		"city": "Shelbyville",
	}))
	require.Equal(t, int64(1), company.ID)

	inv := decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_create", map[string]any{
		"client_id": acme.ID,
		"date":      "03/01/2024",
	}))
	decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_add_entry", map[string]any{
		"invoice_id":  inv.ID,
		"date":        "03/04/2024",
		"description": "deploy pipeline",
		"hours":       "1.25",
	}))

	path := "/invoices/" + jsonNumber(inv.ID)

	resp := ts.Get(t, path)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Acme Corp")

	resp = ts.Get(t, path+"/timesheet")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "deploy pipeline")

	resp = ts.Get(t, path+"/pdf")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	decode[mcp.InvoiceResponse](t, callTool(t, session, "invoice_close", map[string]any{
		"id":   inv.ID,
		"date": "03/31/2024",
	}))
	resp = ts.Get(t, path+"/pdf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "ACM-20240331-")

	resp = ts.Get(t, "/invoices/999/timesheet")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFunctional_CountersAndClients(t *testing.T) {
	ts := testserver.New(t, "")
	session := ts.Connect(t)

	counters := decode[mcp.CountersResponse](t, callTool(t, session, "counter_list", map[string]any{}))
	names := make([]string, 0, len(counters.Counters))
	for _, c := range counters.Counters {
		names = append(names, c.Name)
	}
	require.ElementsMatch(t, []string{"client", "company", "invoice", "period", "timesheet"}, names)

	decode[mcp.AckResponse](t, callTool(t, session, "counter_set", map[string]any{"name": "client", "value": 500}))
	acme := newClient(t, session)
	require.Equal(t, int64(500), acme.ID)

	res := callTool(t, session, "counter_set", map[string]any{"name": "widgets", "value": 1})
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), mcp.CodeNotFound)

	clients := decode[mcp.ClientsResponse](t, callTool(t, session, "client_list", map[string]any{}))
	require.Len(t, clients.Clients, 1)
	require.Equal(t, "Springfield", clients.Clients[0].City)
}

func TestFunctional_MCPProtocolCompliance(t *testing.T) {
	ts := testserver.New(t, "")
	session := ts.Connect(t)

	init := session.InitializeResult()
	require.NotNil(t, init)
	require.Equal(t, "contractor", init.ServerInfo.Name)
	require.NotEmpty(t, init.Instructions)

	resources, err := session.ListResources(context.Background(), nil)
	require.NoError(t, err)
	uris := make([]string, 0, len(resources.Resources))
	for _, r := range resources.Resources {
		uris = append(uris, r.URI)
	}
	require.Contains(t, uris, "contractor://docs/workflows/billing")
	require.Contains(t, uris, "contractor://docs/reports")
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
