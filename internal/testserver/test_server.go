package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/mcp"
	"github.com/rdlittle/contractor/internal/render"
	"github.com/rdlittle/contractor/internal/sqlite"
	"github.com/rdlittle/contractor/internal/transport"
)

// TestServer runs the full HTTP surface over an in-memory SQLite database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Token    string
	Clients  *client.Service
	Invoices *invoice.Service
}

// New starts a server for the calling test. An empty token disables auth.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ctx := context.Background()
	sequenceSvc := sequence.NewService(sqlite.NewCounterRepository(db), nil)
	require.NoError(t, sequenceSvc.Provision(ctx, 1, sequence.Names...))

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	clientSvc := client.NewService(
		sqlite.NewClientRepository(db),
		sqlite.NewCompanyRepository(db),
		sqlite.NewRateRepository(db),
		sequenceSvc,
		nil,
	)
	invoiceSvc := invoice.NewService(sqlite.NewInvoiceRepository(db), sequenceSvc, clientSvc, activitySvc, nil,
		invoice.WithRetryPolicy(invoice.RetryPolicy{MaxAttempts: 10, InitialInterval: time.Millisecond}),
	)
	reportSvc := report.NewService(sqlite.NewReportRepository(db), clientSvc, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Invoices: invoiceSvc,
			Reports:  reportSvc,
			Counters: sequenceSvc,
			Clients:  clientSvc,
		},
		Version: "test",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)

	renderer := render.NewRenderer(invoiceSvc, clientSvc, echoConverter{}, nil)

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Views:  renderer,
		MCP:    mcpHandler,
		Health: db.PingContext,
		Token:  token,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Token:    token,
		Clients:  clientSvc,
		Invoices: invoiceSvc,
	}
}

// Connect opens an MCP client session against the server's /mcp endpoint.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	httpClient := ts.Server.Client()
	if ts.Token != "" {
		httpClient = &http.Client{Transport: &bearerTransport{token: ts.Token, base: http.DefaultTransport}}
	}

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "testserver", Version: "0.0.1"}, nil)
	session, err := c.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: httpClient,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// Get issues an authenticated GET against the server.
func (ts *TestServer) Get(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	require.NoError(t, err)
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}
	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

// echoConverter stands in for wkhtmltopdf.
type echoConverter struct{}

func (echoConverter) Convert(_ context.Context, html []byte) ([]byte, error) {
	return append([]byte("%PDF-1.4\n"), html...), nil
}
