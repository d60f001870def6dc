package invoice

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Status represents an invoice lifecycle state.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
	StatusPaid   Status = "paid"
	StatusPosted Status = "posted"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusPaid, StatusPosted:
		return true
	}
	return false
}

// Entry is a single timesheet line embedded in an invoice.
type Entry struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
}

// Invoice is a billable document for one client and billing period.
// Hours and Amount are derived from Entries and Rate and are only
// written together with them.
type Invoice struct {
	ID          int64           `json:"id"`
	ClientID    int64           `json:"client_id"`
	PeriodID    int64           `json:"period_id"`
	Date        time.Time       `json:"date"`
	Entries     []Entry         `json:"detail"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
	CloseDate   *time.Time      `json:"close_date,omitempty"`
	PaidDate    *time.Time      `json:"paid_date,omitempty"`
	CheckNumber string          `json:"check_number,omitempty"`
	Sent        bool            `json:"sent"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	ModifiedAt  time.Time       `json:"modified_at"`
}

// Clone returns a deep copy of the invoice.
func (inv *Invoice) Clone() *Invoice {
	out := *inv
	out.Entries = slices.Clone(inv.Entries)
	if inv.CloseDate != nil {
		d := *inv.CloseDate
		out.CloseDate = &d
	}
	if inv.PaidDate != nil {
		d := *inv.PaidDate
		out.PaidDate = &d
	}
	return &out
}

// Page is one page of an invoice listing.
type Page struct {
	Invoices []Invoice `json:"invoices"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Pages    int       `json:"pages"`
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortedEntries returns the entries ordered by work date. Entries on the
// same date keep their stored order.
func SortedEntries(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return a.Date.Compare(b.Date)
	})
	return out
}
