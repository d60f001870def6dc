package sqlite

import (
	"context"
	"time"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/shopspring/decimal"
)

// ReportRepository implements report.Repository for SQLite
type ReportRepository struct {
	invoices *InvoiceRepository
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{invoices: NewInvoiceRepository(db)}
}

const paidRangeFilter = ` WHERE client_id = ? AND paid_date IS NOT NULL AND paid_date >= ? AND paid_date <= ?`

// PaidInvoices returns invoices paid within [start, end], oldest first
func (r *ReportRepository) PaidInvoices(ctx context.Context, clientID int64, start, end time.Time) ([]invoice.Invoice, error) {
	query := `SELECT doc FROM invoice` + paidRangeFilter + ` ORDER BY paid_date ASC, id ASC`
	return r.invoices.queryDocs(ctx, query, clientID, dateColumn(start), dateColumn(end))
}

// PaidTotals sums amount and hours over the invoices paid within [start, end].
// Money is summed as decimal rather than with SQL SUM, which works in floats.
func (r *ReportRepository) PaidTotals(ctx context.Context, clientID int64, start, end time.Time) (*report.Totals, error) {
	query := `SELECT doc FROM invoice` + paidRangeFilter
	invoices, err := r.invoices.queryDocs(ctx, query, clientID, dateColumn(start), dateColumn(end))
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, nil
	}

	totals := &report.Totals{Amount: decimal.Zero, Hours: decimal.Zero}
	for _, inv := range invoices {
		totals.Amount = totals.Amount.Add(inv.Amount)
		totals.Hours = totals.Hours.Add(inv.Hours)
		totals.Count++
	}
	return totals, nil
}
