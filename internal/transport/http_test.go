package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/rdlittle/contractor/internal/render"
)

type viewsStub struct {
	err error
}

func (v viewsStub) InvoiceHTML(_ context.Context, id int64) ([]byte, error) {
	if v.err != nil {
		return nil, v.err
	}
	return []byte("<h1>Invoice</h1>"), nil
}

func (v viewsStub) TimesheetHTML(_ context.Context, id int64) ([]byte, error) {
	if v.err != nil {
		return nil, v.err
	}
	return []byte("<h1>Timesheet</h1>"), nil
}

func (v viewsStub) PDF(_ context.Context, id int64) (*render.PDF, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &render.PDF{Name: "ACME-20220430-1042.pdf", Data: []byte("%PDF")}, nil
}

func get(t *testing.T, srv *httptest.Server, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTPServer_Health(t *testing.T) {
	srv := httptest.NewServer(NewServer(Config{Token: "s3cret"}))
	t.Cleanup(srv.Close)

	resp := get(t, srv, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_HealthStoreDown(t *testing.T) {
	srv := httptest.NewServer(NewServer(Config{Health: func(context.Context) error {
		return errors.New("connection refused")
	}}))
	t.Cleanup(srv.Close)

	resp := get(t, srv, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHTTPServer_Views(t *testing.T) {
	srv := httptest.NewServer(NewServer(Config{Views: viewsStub{}}))
	t.Cleanup(srv.Close)

	resp := get(t, srv, "/invoices/1042", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(body), "Invoice")

	resp = get(t, srv, "/invoices/1042/timesheet", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, srv, "/invoices/1042/pdf", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Equal(t, `inline; filename="ACME-20220430-1042.pdf"`, resp.Header.Get("Content-Disposition"))
}

func TestHTTPServer_ErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{invoice.ErrInvoiceNotFound, http.StatusNotFound},
		{render.ErrInvoiceOpen, http.StatusBadRequest},
		{report.ErrInvalidRange, http.StatusBadRequest},
		{invoice.ErrConcurrencyConflict, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			srv := httptest.NewServer(NewServer(Config{Views: viewsStub{err: tc.err}}))
			t.Cleanup(srv.Close)

			resp := get(t, srv, "/invoices/1042/pdf", "")
			require.Equal(t, tc.status, resp.StatusCode)

			var body ErrorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tc.status, body.Error.Status)
			require.NotContains(t, body.Error.Message, "disk on fire")
		})
	}
}

func TestHTTPServer_InvalidID(t *testing.T) {
	srv := httptest.NewServer(NewServer(Config{Views: viewsStub{}}))
	t.Cleanup(srv.Close)

	resp := get(t, srv, "/invoices/abc", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_TokenGuardsRoutes(t *testing.T) {
	mcpHit := false
	srv := httptest.NewServer(NewServer(Config{
		Views: viewsStub{},
		MCP: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mcpHit = true
			w.WriteHeader(http.StatusAccepted)
		}),
		Token: "s3cret",
	}))
	t.Cleanup(srv.Close)

	resp := get(t, srv, "/invoices/1042", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, srv, "/invoices/1042", "s3cret")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, srv, "/mcp", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.False(t, mcpHit)

	resp = get(t, srv, "/mcp", "s3cret")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.True(t, mcpHit)
}
