package mcp

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/rdlittle/contractor/internal/domain/sequence"
)

// InvoiceService defines invoice operations needed by MCP.
type InvoiceService interface {
	Create(ctx context.Context, req invoice.CreateRequest) (*invoice.Invoice, error)
	Get(ctx context.Context, id int64) (*invoice.Invoice, error)
	List(ctx context.Context, req invoice.ListRequest) (*invoice.Page, error)
	AddEntry(ctx context.Context, invoiceID int64, in invoice.EntryInput) (*invoice.Invoice, error)
	EditEntry(ctx context.Context, req invoice.EditEntryRequest) (*invoice.Invoice, error)
	RemoveEntry(ctx context.Context, invoiceID, entryID int64) (*invoice.Invoice, error)
	Recalculate(ctx context.Context, id int64) (*invoice.Recalculation, error)
	Close(ctx context.Context, req invoice.CloseRequest) (*invoice.Invoice, error)
	Pay(ctx context.Context, req invoice.PayRequest) (*invoice.Invoice, error)
	Reopen(ctx context.Context, id int64) (*invoice.Invoice, error)
	Post(ctx context.Context, id int64) (*invoice.Invoice, error)
	MarkSent(ctx context.Context, id int64) (*invoice.Invoice, error)
	History(ctx context.Context, id int64, limit int) ([]activity.ActivityEntry, error)
}

// ReportService defines report operations needed by MCP.
type ReportService interface {
	Run(ctx context.Context, q report.Query) (*report.Result, error)
}

// SequenceService defines counter control operations needed by MCP.
type SequenceService interface {
	List(ctx context.Context) ([]sequence.Counter, error)
	Set(ctx context.Context, name string, value int64) error
}

// ClientService defines client, company and rate operations needed by MCP.
type ClientService interface {
	CreateClient(ctx context.Context, c client.Client) (*client.Client, error)
	GetClient(ctx context.Context, id int64) (*client.Client, error)
	UpdateClient(ctx context.Context, c client.Client) (*client.Client, error)
	DeleteClient(ctx context.Context, id int64) error
	ListClients(ctx context.Context) ([]client.Client, error)
	CreateCompany(ctx context.Context, c client.Company) (*client.Company, error)
	UpdateCompany(ctx context.Context, c client.Company) (*client.Company, error)
	ListCompanies(ctx context.Context) ([]client.Company, error)
	PutRate(ctx context.Context, id string, amount decimal.Decimal) (*client.Rate, error)
	ListRates(ctx context.Context) ([]client.Rate, error)
}

// Handler adapts tool arguments to domain calls and domain results to
// wire responses.
type Handler struct {
	invoices InvoiceService
	reports  ReportService
	counters SequenceService
	clients  ClientService
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		invoices: services.Invoices,
		reports:  services.Reports,
		counters: services.Counters,
		clients:  services.Clients,
	}
}

// ==================== Invoices ====================

func (h *Handler) CreateInvoice(ctx context.Context, p CreateInvoiceParams) (InvoiceResponse, error) {
	date, err := parseDate("date", p.Date)
	if err != nil {
		return InvoiceResponse{}, err
	}
	return h.invoiceResult(h.invoices.Create(ctx, invoice.CreateRequest{ClientID: p.ClientID, Date: date}))
}

func (h *Handler) GetInvoice(ctx context.Context, p IDParams) (InvoiceResponse, error) {
	return h.invoiceResult(h.invoices.Get(ctx, p.ID))
}

func (h *Handler) ListInvoices(ctx context.Context, p ListInvoicesParams) (InvoicePageResponse, error) {
	page, err := h.invoices.List(ctx, invoice.ListRequest{ClientID: p.ClientID, Page: p.Page, PageSize: p.PageSize})
	if err != nil {
		return InvoicePageResponse{}, err
	}
	return InvoicePageResponse{
		Invoices: invoiceResponses(page.Invoices),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Pages:    page.Pages,
	}, nil
}

func (h *Handler) AddEntry(ctx context.Context, p AddEntryParams) (InvoiceResponse, error) {
	in, err := p.toInput()
	if err != nil {
		return InvoiceResponse{}, err
	}
	return h.invoiceResult(h.invoices.AddEntry(ctx, p.InvoiceID, in))
}

func (h *Handler) EditEntry(ctx context.Context, p EditEntryParams) (InvoiceResponse, error) {
	action, err := invoice.ParseAction(p.Action)
	if err != nil {
		return InvoiceResponse{}, err
	}
	req := invoice.EditEntryRequest{InvoiceID: p.InvoiceID, EntryID: p.EntryID, Action: action}
	if action == invoice.ActionSubmit {
		if req.Entry, err = p.entry().toInput(); err != nil {
			return InvoiceResponse{}, err
		}
	}
	return h.invoiceResult(h.invoices.EditEntry(ctx, req))
}

func (h *Handler) RemoveEntry(ctx context.Context, p RemoveEntryParams) (InvoiceResponse, error) {
	return h.invoiceResult(h.invoices.RemoveEntry(ctx, p.InvoiceID, p.EntryID))
}

func (h *Handler) Recalculate(ctx context.Context, p IDParams) (RecalculationResponse, error) {
	rec, err := h.invoices.Recalculate(ctx, p.ID)
	if err != nil {
		return RecalculationResponse{}, err
	}
	return RecalculationResponse{
		Invoice:      invoiceResponse(rec.Invoice),
		EmptyEntries: append([]int64{}, rec.EmptyEntries...),
	}, nil
}

func (h *Handler) CloseInvoice(ctx context.Context, p CloseInvoiceParams) (InvoiceResponse, error) {
	action, err := invoice.ParseAction(p.Action)
	if err != nil {
		return InvoiceResponse{}, err
	}
	date, err := parseDatePtr("date", p.Date)
	if err != nil {
		return InvoiceResponse{}, err
	}
	return h.invoiceResult(h.invoices.Close(ctx, invoice.CloseRequest{ID: p.ID, Date: date, Action: action}))
}

func (h *Handler) PayInvoice(ctx context.Context, p PayInvoiceParams) (InvoiceResponse, error) {
	action, err := invoice.ParseAction(p.Action)
	if err != nil {
		return InvoiceResponse{}, err
	}
	paid, err := parseDatePtr("paid_date", p.PaidDate)
	if err != nil {
		return InvoiceResponse{}, err
	}
	return h.invoiceResult(h.invoices.Pay(ctx, invoice.PayRequest{
		ID:          p.ID,
		CheckNumber: p.CheckNumber,
		PaidDate:    paid,
		Action:      action,
	}))
}

func (h *Handler) ReopenInvoice(ctx context.Context, p IDParams) (InvoiceResponse, error) {
	return h.invoiceResult(h.invoices.Reopen(ctx, p.ID))
}

func (h *Handler) PostInvoice(ctx context.Context, p IDParams) (InvoiceResponse, error) {
	return h.invoiceResult(h.invoices.Post(ctx, p.ID))
}

func (h *Handler) MarkSent(ctx context.Context, p IDParams) (InvoiceResponse, error) {
	return h.invoiceResult(h.invoices.MarkSent(ctx, p.ID))
}

func (h *Handler) History(ctx context.Context, p HistoryParams) (HistoryResponse, error) {
	entries, err := h.invoices.History(ctx, p.ID, p.Limit)
	if err != nil {
		return HistoryResponse{}, err
	}
	return historyResponse(p.ID, entries), nil
}

func (h *Handler) invoiceResult(inv *invoice.Invoice, err error) (InvoiceResponse, error) {
	if err != nil {
		return InvoiceResponse{}, err
	}
	return invoiceResponse(inv), nil
}

// ==================== Reports ====================

func (h *Handler) PaidReport(ctx context.Context, p PaidReportParams) (PaidReportResponse, error) {
	start, err := parseDate("start", p.Start)
	if err != nil {
		return PaidReportResponse{}, err
	}
	end, err := parseDate("end", p.End)
	if err != nil {
		return PaidReportResponse{}, err
	}
	result, err := h.reports.Run(ctx, report.Query{ClientID: p.ClientID, Start: start, End: end})
	if err != nil {
		return PaidReportResponse{}, err
	}
	return reportResponse(result), nil
}

// ==================== Counters ====================

func (h *Handler) ListCounters(ctx context.Context, _ EmptyParams) (CountersResponse, error) {
	counters, err := h.counters.List(ctx)
	if err != nil {
		return CountersResponse{}, err
	}
	return countersResponse(counters), nil
}

func (h *Handler) SetCounter(ctx context.Context, p SetCounterParams) (AckResponse, error) {
	if err := h.counters.Set(ctx, strings.TrimSpace(p.Name), p.Value); err != nil {
		return AckResponse{}, err
	}
	return AckResponse{OK: true}, nil
}

// ==================== Clients, companies, rates ====================

func (h *Handler) ListClients(ctx context.Context, _ EmptyParams) (ClientsResponse, error) {
	clients, err := h.clients.ListClients(ctx)
	if err != nil {
		return ClientsResponse{}, err
	}
	return ClientsResponse{Clients: lo.Map(clients, func(c client.Client, _ int) ClientResponse {
		return clientResponse(&c)
	})}, nil
}

func (h *Handler) GetClient(ctx context.Context, p IDParams) (ClientResponse, error) {
	c, err := h.clients.GetClient(ctx, p.ID)
	if err != nil {
		return ClientResponse{}, err
	}
	return clientResponse(c), nil
}

// SaveClient creates a client when no id is given and replaces it otherwise.
func (h *Handler) SaveClient(ctx context.Context, p SaveClientParams) (ClientResponse, error) {
	c := client.Client{
		Address:       p.toAddress(),
		ID:            p.ID,
		Name:          p.Name,
		RateID:        p.RateID,
		Prefix:        p.Prefix,
		TimesheetForm: p.TimesheetForm,
		Project:       p.Project,
	}

	var saved *client.Client
	var err error
	if p.ID == 0 {
		saved, err = h.clients.CreateClient(ctx, c)
	} else {
		saved, err = h.clients.UpdateClient(ctx, c)
	}
	if err != nil {
		return ClientResponse{}, err
	}
	return clientResponse(saved), nil
}

func (h *Handler) DeleteClient(ctx context.Context, p IDParams) (AckResponse, error) {
	if err := h.clients.DeleteClient(ctx, p.ID); err != nil {
		return AckResponse{}, err
	}
	return AckResponse{OK: true}, nil
}

func (h *Handler) ListCompanies(ctx context.Context, _ EmptyParams) (CompaniesResponse, error) {
	companies, err := h.clients.ListCompanies(ctx)
	if err != nil {
		return CompaniesResponse{}, err
	}
	return CompaniesResponse{Companies: lo.Map(companies, func(c client.Company, _ int) CompanyResponse {
		return companyResponse(&c)
	})}, nil
}

// SaveCompany creates a company when no id is given and replaces it otherwise.
func (h *Handler) SaveCompany(ctx context.Context, p SaveCompanyParams) (CompanyResponse, error) {
	c := client.Company{Address: p.toAddress(), ID: p.ID, Name: p.Name}

	var saved *client.Company
	var err error
	if p.ID == 0 {
		saved, err = h.clients.CreateCompany(ctx, c)
	} else {
		saved, err = h.clients.UpdateCompany(ctx, c)
	}
	if err != nil {
		return CompanyResponse{}, err
	}
	return companyResponse(saved), nil
}

func (h *Handler) ListRates(ctx context.Context, _ EmptyParams) (RatesResponse, error) {
	rates, err := h.clients.ListRates(ctx)
	if err != nil {
		return RatesResponse{}, err
	}
	return RatesResponse{Rates: lo.Map(rates, func(r client.Rate, _ int) RateResponse {
		return rateResponse(&r)
	})}, nil
}

func (h *Handler) PutRate(ctx context.Context, p PutRateParams) (RateResponse, error) {
	amount, err := parseDecimal("amount", p.Amount)
	if err != nil {
		return RateResponse{}, err
	}
	r, err := h.clients.PutRate(ctx, p.ID, amount)
	if err != nil {
		return RateResponse{}, err
	}
	return rateResponse(r), nil
}
