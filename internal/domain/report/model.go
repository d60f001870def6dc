package report

import (
	"time"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// Query selects the paid invoices of one client within an inclusive
// date range.
type Query struct {
	ClientID int64
	Start    time.Time
	End      time.Time
}

// Totals is the grouped sum over the matched invoices.
type Totals struct {
	Amount decimal.Decimal `json:"amount"`
	Hours  decimal.Decimal `json:"hours"`
	Count  int             `json:"count"`
}

// Result is a paid-invoice report. Totals is nil when nothing matched.
type Result struct {
	ClientID   int64             `json:"client_id"`
	ClientName string            `json:"client_name"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Invoices   []invoice.Invoice `json:"invoices"`
	Totals     *Totals           `json:"totals,omitempty"`
}

// Empty reports whether no invoice matched.
func (r *Result) Empty() bool {
	return r.Totals == nil
}
