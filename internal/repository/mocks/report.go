package mocks

import (
	"context"
	"time"

	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/stretchr/testify/mock"
)

// ReportRepository is a mock for report.Repository.
type ReportRepository struct {
	mock.Mock
}

func (m *ReportRepository) PaidInvoices(ctx context.Context, clientID int64, start, end time.Time) ([]invoice.Invoice, error) {
	args := m.Called(ctx, clientID, start, end)
	if list, ok := args.Get(0).([]invoice.Invoice); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) PaidTotals(ctx context.Context, clientID int64, start, end time.Time) (*report.Totals, error) {
	args := m.Called(ctx, clientID, start, end)
	if totals, ok := args.Get(0).(*report.Totals); ok {
		return totals, args.Error(1)
	}
	return nil, args.Error(1)
}

// ClientLookup is a mock for report.ClientLookup.
type ClientLookup struct {
	mock.Mock
}

func (m *ClientLookup) GetClient(ctx context.Context, id int64) (*client.Client, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*client.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
