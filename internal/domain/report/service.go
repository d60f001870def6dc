package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"golang.org/x/sync/errgroup"
)

// Service runs paid-invoice reports.
type Service struct {
	repo    Repository
	clients ClientLookup
	logger  *slog.Logger
}

// NewService creates a new report service.
func NewService(repo Repository, clients ClientLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, clients: clients, logger: logger}
}

// Validate checks a query. Bounds are never swapped.
func Validate(q Query) error {
	if q.ClientID <= 0 {
		return ErrMissingClient
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return ErrMissingDates
	}
	if invoice.Day(q.Start).After(invoice.Day(q.End)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			q.Start.Format("01/02/2006"), q.End.Format("01/02/2006"))
	}
	return nil
}

// Run returns the client's invoices paid between Start and End inclusive,
// oldest payment first, with their summed amount and hours.
func (s *Service) Run(ctx context.Context, q Query) (*Result, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}
	start, end := invoice.Day(q.Start), invoice.Day(q.End)

	res := &Result{ClientID: q.ClientID, Start: start, End: end}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.clients.GetClient(gctx, q.ClientID)
		if err != nil {
			return err
		}
		res.ClientName = c.Name
		return nil
	})
	g.Go(func() error {
		invoices, err := s.repo.PaidInvoices(gctx, q.ClientID, start, end)
		if err != nil {
			return fmt.Errorf("finding paid invoices: %w", err)
		}
		res.Invoices = invoices
		return nil
	})
	g.Go(func() error {
		totals, err := s.repo.PaidTotals(gctx, q.ClientID, start, end)
		if err != nil {
			return fmt.Errorf("summing paid invoices: %w", err)
		}
		res.Totals = totals
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if res.Invoices == nil {
		res.Invoices = []invoice.Invoice{}
	}
	matched := 0
	if res.Totals != nil {
		matched = res.Totals.Count
	}
	if matched != len(res.Invoices) {
		s.logger.WarnContext(ctx, "report totals and rows disagree",
			"client_id", q.ClientID,
			"rows", len(res.Invoices),
			"totals_count", matched,
		)
	}
	s.logger.DebugContext(ctx, "report run", "client_id", q.ClientID, "rows", len(res.Invoices))
	return res, nil
}
