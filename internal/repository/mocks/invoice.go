package mocks

import (
	"context"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// InvoiceRepository is a mock for invoice.Repository.
type InvoiceRepository struct {
	mock.Mock
}

func (m *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *InvoiceRepository) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	args := m.Called(ctx, id)
	if inv, ok := args.Get(0).(*invoice.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice, expectedVersion int64) error {
	args := m.Called(ctx, inv, expectedVersion)
	return args.Error(0)
}

func (m *InvoiceRepository) List(ctx context.Context, opts invoice.ListInvoicesOptions) ([]invoice.Invoice, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]invoice.Invoice); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

// RateResolver is a mock for invoice.RateResolver.
type RateResolver struct {
	mock.Mock
}

func (m *RateResolver) ResolveRate(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
