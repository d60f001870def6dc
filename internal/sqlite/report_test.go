package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func insertPaid(t *testing.T, repo *InvoiceRepository, id, clientID int64, paid time.Time, hours, amount string) {
	t.Helper()
	inv := &invoice.Invoice{
		ID:          id,
		ClientID:    clientID,
		Date:        paid.AddDate(0, 0, -20),
		Entries:     []invoice.Entry{},
		Hours:       decimal.RequireFromString(hours),
		Rate:        decimal.RequireFromString("50"),
		Amount:      decimal.RequireFromString(amount),
		Status:      invoice.StatusPaid,
		PaidDate:    &paid,
		CheckNumber: "100",
		Version:     1,
	}
	require.NoError(t, repo.Create(context.Background(), inv))
}

func TestReportRepository_InclusiveRangeSortedByPaidDate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	invoices := NewInvoiceRepository(db)

	insertPaid(t, invoices, 1, 1, day(2023, 12, 31), "1", "50")
	insertPaid(t, invoices, 2, 1, day(2024, 1, 31), "2", "100")
	insertPaid(t, invoices, 3, 1, day(2024, 1, 1), "3.5", "175")
	insertPaid(t, invoices, 4, 1, day(2024, 2, 1), "4", "200")
	insertPaid(t, invoices, 5, 2, day(2024, 1, 15), "5", "250")
	insertInvoice(t, invoices, 6, 1, day(2024, 1, 10))

	repo := NewReportRepository(db)
	start, end := day(2024, 1, 1), day(2024, 1, 31)

	rows, err := repo.PaidInvoices(ctx, 1, start, end)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 2}, ids(rows))

	totals, err := repo.PaidTotals(ctx, 1, start, end)
	require.NoError(t, err)
	require.NotNil(t, totals)
	require.Equal(t, 2, totals.Count)
	require.True(t, totals.Hours.Equal(decimal.RequireFromString("5.5")))
	require.True(t, totals.Amount.Equal(decimal.RequireFromString("275")))
}

func TestReportRepository_NoMatchesReturnsNilTotals(t *testing.T) {
	db := NewTestDB(t)
	repo := NewReportRepository(db)

	rows, err := repo.PaidInvoices(context.Background(), 1, day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	require.Empty(t, rows)

	totals, err := repo.PaidTotals(context.Background(), 1, day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	require.Nil(t, totals)
}
