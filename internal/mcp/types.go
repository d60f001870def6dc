package mcp

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/rdlittle/contractor/internal/domain/sequence"
)

// dateLayout is the calendar date format used on the wire.
const dateLayout = "01/02/2006"

// ==================== Parameters ====================

type EmptyParams struct{}

type IDParams struct {
	ID int64 `json:"id" jsonschema:"record id"`
}

type CreateInvoiceParams struct {
	ClientID int64  `json:"client_id" jsonschema:"client billed by the invoice"`
	Date     string `json:"date,omitempty" jsonschema:"issue date MM/DD/YYYY, defaults to today"`
}

type ListInvoicesParams struct {
	ClientID int64 `json:"client_id,omitempty" jsonschema:"only this client's invoices"`
	Page     int   `json:"page,omitempty" jsonschema:"1-based page number"`
	PageSize int   `json:"page_size,omitempty" jsonschema:"invoices per page"`
}

type EntryParams struct {
	Date        string `json:"date" jsonschema:"work date MM/DD/YYYY"`
	Description string `json:"description" jsonschema:"work performed"`
	Hours       string `json:"hours" jsonschema:"non-negative decimal hours"`
}

type AddEntryParams struct {
	InvoiceID int64 `json:"invoice_id"`
	EntryParams
}

type EditEntryParams struct {
	InvoiceID int64  `json:"invoice_id"`
	EntryID   int64  `json:"entry_id"`
	Action    string `json:"action,omitempty" jsonschema:"submit (default), cancel or delete"`
	// Entry fields are only read on submit.
	Date        string `json:"date,omitempty" jsonschema:"work date MM/DD/YYYY"`
	Description string `json:"description,omitempty" jsonschema:"work performed"`
	Hours       string `json:"hours,omitempty" jsonschema:"non-negative decimal hours"`
}

func (p EditEntryParams) entry() EntryParams {
	return EntryParams{Date: p.Date, Description: p.Description, Hours: p.Hours}
}

type RemoveEntryParams struct {
	InvoiceID int64 `json:"invoice_id"`
	EntryID   int64 `json:"entry_id"`
}

type CloseInvoiceParams struct {
	ID     int64  `json:"id"`
	Date   string `json:"date,omitempty" jsonschema:"close date MM/DD/YYYY"`
	Action string `json:"action,omitempty" jsonschema:"submit (default) or cancel"`
}

type PayInvoiceParams struct {
	ID          int64  `json:"id"`
	CheckNumber string `json:"check_number,omitempty" jsonschema:"check or receipt number"`
	PaidDate    string `json:"paid_date,omitempty" jsonschema:"date payment was received MM/DD/YYYY"`
	Action      string `json:"action,omitempty" jsonschema:"submit (default) or cancel"`
}

type HistoryParams struct {
	ID    int64 `json:"id"`
	Limit int   `json:"limit,omitempty" jsonschema:"maximum entries, newest first"`
}

type PaidReportParams struct {
	ClientID int64  `json:"client_id"`
	Start    string `json:"start" jsonschema:"first paid date MM/DD/YYYY, inclusive"`
	End      string `json:"end" jsonschema:"last paid date MM/DD/YYYY, inclusive"`
}

type SetCounterParams struct {
	Name  string `json:"name" jsonschema:"client, company, invoice, period or timesheet"`
	Value int64  `json:"value" jsonschema:"next value to issue"`
}

type AddressParams struct {
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Attention string `json:"attention,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Fax       string `json:"fax,omitempty"`
	Email     string `json:"email,omitempty"`
}

type SaveClientParams struct {
	ID            int64  `json:"id,omitempty" jsonschema:"omit to create a new client"`
	Name          string `json:"name"`
	RateID        string `json:"rate_id,omitempty"`
	Prefix        string `json:"prefix,omitempty" jsonschema:"invoice file name prefix"`
	TimesheetForm string `json:"timesheet_form,omitempty"`
	Project       string `json:"project,omitempty"`
	AddressParams
}

type SaveCompanyParams struct {
	ID   int64  `json:"id,omitempty" jsonschema:"omit to create a new company"`
	Name string `json:"name"`
	AddressParams
}

type PutRateParams struct {
	ID     string `json:"id"`
	Amount string `json:"amount" jsonschema:"hourly rate as a decimal"`
}

// ==================== Responses ====================

type EntryResponse struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Hours       string `json:"hours"`
}

type InvoiceResponse struct {
	ID          int64           `json:"id"`
	ClientID    int64           `json:"client_id"`
	PeriodID    int64           `json:"period_id"`
	Date        string          `json:"date"`
	Status      string          `json:"status"`
	Entries     []EntryResponse `json:"entries"`
	Hours       string          `json:"hours"`
	Rate        string          `json:"rate"`
	Amount      string          `json:"amount"`
	CloseDate   string          `json:"close_date,omitempty"`
	PaidDate    string          `json:"paid_date,omitempty"`
	CheckNumber string          `json:"check_number,omitempty"`
	Sent        bool            `json:"sent"`
	Version     int64           `json:"version"`
}

type InvoicePageResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Pages    int               `json:"pages"`
}

type RecalculationResponse struct {
	Invoice      InvoiceResponse `json:"invoice"`
	EmptyEntries []int64         `json:"empty_entries"`
}

type ActivityResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
}

type HistoryResponse struct {
	InvoiceID int64              `json:"invoice_id"`
	Entries   []ActivityResponse `json:"entries"`
}

type PaidReportResponse struct {
	ClientID    int64             `json:"client_id"`
	ClientName  string            `json:"client_name"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	Invoices    []InvoiceResponse `json:"invoices"`
	Empty       bool              `json:"empty"`
	TotalAmount string            `json:"total_amount,omitempty"`
	TotalHours  string            `json:"total_hours,omitempty"`
	Count       int               `json:"count"`
}

type CounterResponse struct {
	Name string `json:"name"`
	Next int64  `json:"next"`
}

type CountersResponse struct {
	Counters []CounterResponse `json:"counters"`
}

type ClientResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	RateID        string `json:"rate_id,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
	TimesheetForm string `json:"timesheet_form,omitempty"`
	Project       string `json:"project,omitempty"`
	AddressParams
}

type ClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

type CompanyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	AddressParams
}

type CompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

type RateResponse struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

type RatesResponse struct {
	Rates []RateResponse `json:"rates"`
}

type AckResponse struct {
	OK bool `json:"ok"`
}

// ==================== Conversions ====================

// parseDate parses a wire date. An empty string yields the zero time.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, invalidParam(field, "must be a date as MM/DD/YYYY")
	}
	return t, nil
}

// parseDatePtr parses an optional wire date; empty yields nil.
func parseDatePtr(field, s string) (*time.Time, error) {
	t, err := parseDate(field, s)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, invalidParam(field, "must be a decimal number")
	}
	return d, nil
}

func (p EntryParams) toInput() (invoice.EntryInput, error) {
	date, err := parseDate("date", p.Date)
	if err != nil {
		return invoice.EntryInput{}, err
	}
	hours, err := parseDecimal("hours", p.Hours)
	if err != nil {
		return invoice.EntryInput{}, err
	}
	return invoice.EntryInput{Date: date, Description: p.Description, Hours: hours}, nil
}

func (p AddressParams) toAddress() client.Address {
	return client.Address(p)
}

func addressResponse(a client.Address) AddressParams {
	return AddressParams(a)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func invoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:       inv.ID,
		ClientID: inv.ClientID,
		PeriodID: inv.PeriodID,
		Date:     inv.Date.Format(dateLayout),
		Status:   string(inv.Status),
		Entries: lo.Map(invoice.SortedEntries(inv.Entries), func(e invoice.Entry, _ int) EntryResponse {
			return EntryResponse{
				ID:          e.ID,
				Date:        e.Date.Format(dateLayout),
				Description: e.Description,
				Hours:       e.Hours.StringFixed(2),
			}
		}),
		Hours:       inv.Hours.StringFixed(2),
		Rate:        inv.Rate.StringFixed(2),
		Amount:      inv.Amount.StringFixed(2),
		CloseDate:   formatDatePtr(inv.CloseDate),
		PaidDate:    formatDatePtr(inv.PaidDate),
		CheckNumber: inv.CheckNumber,
		Sent:        inv.Sent,
		Version:     inv.Version,
	}
}

func invoiceResponses(invoices []invoice.Invoice) []InvoiceResponse {
	return lo.Map(invoices, func(inv invoice.Invoice, _ int) InvoiceResponse {
		return invoiceResponse(&inv)
	})
}

func historyResponse(id int64, entries []activity.ActivityEntry) HistoryResponse {
	return HistoryResponse{
		InvoiceID: id,
		Entries: lo.Map(entries, func(e activity.ActivityEntry, _ int) ActivityResponse {
			return ActivityResponse{
				ID:        e.ID,
				Type:      string(e.ActivityType),
				Summary:   e.Summary,
				CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
			}
		}),
	}
}

func reportResponse(r *report.Result) PaidReportResponse {
	resp := PaidReportResponse{
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		Start:      r.Start.Format(dateLayout),
		End:        r.End.Format(dateLayout),
		Invoices:   invoiceResponses(r.Invoices),
		Empty:      r.Empty(),
	}
	if r.Totals != nil {
		resp.TotalAmount = r.Totals.Amount.StringFixed(2)
		resp.TotalHours = r.Totals.Hours.StringFixed(2)
		resp.Count = r.Totals.Count
	}
	return resp
}

func countersResponse(counters []sequence.Counter) CountersResponse {
	return CountersResponse{Counters: lo.Map(counters, func(c sequence.Counter, _ int) CounterResponse {
		return CounterResponse{Name: c.Name, Next: c.Next}
	})}
}

func clientResponse(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID,
		Name:          c.Name,
		RateID:        c.RateID,
		Prefix:        c.Prefix,
		TimesheetForm: c.TimesheetForm,
		Project:       c.Project,
		AddressParams: addressResponse(c.Address),
	}
}

func companyResponse(c *client.Company) CompanyResponse {
	return CompanyResponse{ID: c.ID, Name: c.Name, AddressParams: addressResponse(c.Address)}
}

func rateResponse(r *client.Rate) RateResponse {
	return RateResponse{ID: r.ID, Amount: r.Amount.StringFixed(2)}
}
