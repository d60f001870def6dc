package invoice

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Recalculation is the outcome of recomputing an invoice's totals.
type Recalculation struct {
	Invoice *Invoice
	// EmptyEntries lists entries that carry no hours.
	EmptyEntries []int64
}

// Aggregator derives invoice hours and amount from timesheet entries.
type Aggregator struct {
	rates  RateResolver
	logger *slog.Logger
}

// NewAggregator creates an aggregator that resolves rates through rates.
func NewAggregator(rates RateResolver, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregator{rates: rates, logger: logger}
}

// Recalculate returns a copy of inv with the client's current rate and
// totals recomputed from its entries. inv itself is not modified, and
// entry order and contents are preserved.
func (a *Aggregator) Recalculate(ctx context.Context, inv *Invoice) (*Recalculation, error) {
	rate, err := a.rates.ResolveRate(ctx, inv.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolving rate for invoice %d: %w", inv.ID, err)
	}

	out := inv.Clone()
	hours, amount, empty := Totals(out.Entries, rate)
	out.Rate = rate
	out.Hours = hours
	out.Amount = amount

	if len(empty) > 0 {
		a.logger.WarnContext(ctx, "entries without hours",
			"invoice_id", inv.ID,
			"entry_ids", empty,
		)
	}
	return &Recalculation{Invoice: out, EmptyEntries: empty}, nil
}

// Totals sums entry hours and prices them at rate. It also returns the ids
// of entries that contributed zero hours.
func Totals(entries []Entry, rate decimal.Decimal) (hours, amount decimal.Decimal, empty []int64) {
	hours = decimal.Zero
	for _, e := range entries {
		if e.Hours.IsZero() {
			empty = append(empty, e.ID)
			continue
		}
		hours = hours.Add(e.Hours)
	}
	return hours, hours.Mul(rate), empty
}
