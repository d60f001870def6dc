package report

import (
	"context"
	"time"

	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
)

// Repository runs the paid-invoice queries. Both bounds are inclusive
// calendar days in UTC.
type Repository interface {
	// PaidInvoices returns matching invoices ordered by paid date ascending.
	PaidInvoices(ctx context.Context, clientID int64, start, end time.Time) ([]invoice.Invoice, error)
	// PaidTotals sums amount and hours over the same match. It returns nil
	// when no invoice matched.
	PaidTotals(ctx context.Context, clientID int64, start, end time.Time) (*Totals, error)
}

// ClientLookup resolves the client a report is run for.
type ClientLookup interface {
	GetClient(ctx context.Context, id int64) (*client.Client, error)
}
