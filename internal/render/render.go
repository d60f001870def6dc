// Package render produces the printable views of an invoice: the HTML
// invoice, the HTML timesheet and the PDF handed to the client.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultCompanyID is the issuer shown on invoices when none is configured.
const DefaultCompanyID int64 = 1

const invoiceTemplate = "invoice.html"

// timesheetForms maps a client's timesheet form name to its template.
var timesheetForms = map[string]string{
	"":         "timesheet_standard.html",
	"standard": "timesheet_standard.html",
	"daily":    "timesheet_daily.html",
}

// InvoiceSource loads invoices.
type InvoiceSource interface {
	Get(ctx context.Context, id int64) (*invoice.Invoice, error)
}

// Directory loads the parties shown on an invoice.
type Directory interface {
	GetClient(ctx context.Context, id int64) (*client.Client, error)
	GetCompany(ctx context.Context, id int64) (*client.Company, error)
}

// Document is the data handed to every template.
type Document struct {
	Invoice *invoice.Invoice
	Entries []invoice.Entry
	Days    []DayTotal
	Client  *client.Client
	Company *client.Company
	Printed time.Time
	Print   bool
}

// DayTotal is the hours worked on one date.
type DayTotal struct {
	Date  time.Time
	Hours decimal.Decimal
}

// PDF is a rendered invoice ready to send.
type PDF struct {
	Name string
	Data []byte
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCompanyID sets the issuing company.
func WithCompanyID(id int64) Option {
	return func(r *Renderer) {
		if id > 0 {
			r.companyID = id
		}
	}
}

// WithClock overrides the time source used for the printed date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// Renderer builds invoice and timesheet documents.
type Renderer struct {
	invoices  InvoiceSource
	directory Directory
	converter Converter
	templates *template.Template
	companyID int64
	now       func() time.Time
	logger    *slog.Logger
}

// NewRenderer creates a Renderer. converter may be nil when PDFs are not
// needed.
func NewRenderer(invoices InvoiceSource, directory Directory, converter Converter, logger *slog.Logger, opts ...Option) *Renderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Renderer{
		invoices:  invoices,
		directory: directory,
		converter: converter,
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
		companyID: DefaultCompanyID,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InvoiceHTML renders the invoice view.
func (r *Renderer) InvoiceHTML(ctx context.Context, id int64) ([]byte, error) {
	doc, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.execute(invoiceTemplate, doc)
}

// TimesheetHTML renders the timesheet in the client's form.
func (r *Renderer) TimesheetHTML(ctx context.Context, id int64) ([]byte, error) {
	doc, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	name, ok := timesheetForms[doc.Client.TimesheetForm]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimesheetForm, doc.Client.TimesheetForm)
	}
	return r.execute(name, doc)
}

// PDF renders a closed invoice to PDF.
func (r *Renderer) PDF(ctx context.Context, id int64) (*PDF, error) {
	doc, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Invoice.Status == invoice.StatusOpen {
		return nil, ErrInvoiceOpen
	}
	if r.converter == nil {
		return nil, fmt.Errorf("render: no PDF converter configured")
	}

	doc.Print = true
	html, err := r.execute(invoiceTemplate, doc)
	if err != nil {
		return nil, err
	}
	data, err := r.converter.Convert(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render: convert invoice %d: %w", id, err)
	}

	name := FileName(doc.Invoice, doc.Client)
	r.logger.Info("invoice printed", "invoice_id", id, "file", name, "bytes", len(data))
	return &PDF{Name: name, Data: data}, nil
}

// FileName returns the PDF name for an invoice: the client prefix, the
// close date (or issue date while unset) as YYYYMMDD, and the invoice id.
func FileName(inv *invoice.Invoice, c *client.Client) string {
	date := inv.Date
	if inv.CloseDate != nil {
		date = *inv.CloseDate
	}
	return fmt.Sprintf("%s-%s-%d.pdf", c.Prefix, date.Format("20060102"), inv.ID)
}

func (r *Renderer) load(ctx context.Context, id int64) (*Document, error) {
	inv, err := r.invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cl, err := r.directory.GetClient(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}
	company, err := r.directory.GetCompany(ctx, r.companyID)
	if err != nil {
		return nil, err
	}

	entries := invoice.SortedEntries(inv.Entries)
	return &Document{
		Invoice: inv,
		Entries: entries,
		Days:    dailyTotals(entries),
		Client:  cl,
		Company: company,
		Printed: r.now(),
	}, nil
}

func (r *Renderer) execute(name string, doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, doc); err != nil {
		return nil, fmt.Errorf("render: execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// dailyTotals sums date-ordered entries per calendar day.
func dailyTotals(entries []invoice.Entry) []DayTotal {
	days := make([]DayTotal, 0, len(entries))
	for _, e := range entries {
		day := invoice.Day(e.Date)
		if n := len(days); n > 0 && days[n-1].Date.Equal(day) {
			days[n-1].Hours = days[n-1].Hours.Add(e.Hours)
			continue
		}
		days = append(days, DayTotal{Date: day, Hours: e.Hours})
	}
	return days
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"hours": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("01/02/2006") },
	"datep": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("01/02/2006")
	},
}
