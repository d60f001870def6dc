package invoice

import (
	"context"

	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/shopspring/decimal"
)

// Repository provides persistence operations for invoices. Update writes
// the whole document and must fail with repository.ErrConflict when the
// stored version differs from expectedVersion.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id int64) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice, expectedVersion int64) error
	List(ctx context.Context, opts ListInvoicesOptions) ([]Invoice, int, error)
}

// IDIssuer hands out sequence numbers.
type IDIssuer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// RateResolver looks up the hourly rate currently billed to a client.
type RateResolver interface {
	ResolveRate(ctx context.Context, clientID int64) (decimal.Decimal, error)
}

// ActivityLog records and lists invoice history.
type ActivityLog interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}
