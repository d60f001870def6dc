package invoice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/repository"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Service handles the invoice lifecycle and keeps totals consistent with
// entries on every write.
type Service struct {
	invoices   Repository
	ids        IDIssuer
	rates      RateResolver
	aggregator *Aggregator
	activities ActivityLog
	retry      RetryPolicy
	pageSize   int
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a new invoice service. activities may be nil.
func NewService(
	invoices Repository,
	ids IDIssuer,
	rates RateResolver,
	activities ActivityLog,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		invoices:   invoices,
		ids:        ids,
		rates:      rates,
		aggregator: NewAggregator(rates, logger),
		activities: activities,
		retry:      DefaultRetryPolicy,
		pageSize:   DefaultPageSize,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest describes a new invoice.
type CreateRequest struct {
	ClientID int64
	// Date is the issue date; zero means today.
	Date time.Time
}

// EditEntryRequest describes a change to one timesheet entry.
type EditEntryRequest struct {
	InvoiceID int64
	EntryID   int64
	Action    Action
	Entry     EntryInput
}

// CloseRequest describes closing an invoice.
type CloseRequest struct {
	ID     int64
	Date   *time.Time
	Action Action
}

// PayRequest describes recording payment of an invoice.
type PayRequest struct {
	ID          int64
	CheckNumber string
	PaidDate    *time.Time
	Action      Action
}

// mutation applies a change to a private copy of an invoice and reports
// what happened for the history log.
type mutation func(ctx context.Context, inv *Invoice) (activity.ActivityType, string, error)

// Create issues invoice and billing-period ids and stores an empty open
// invoice priced at the client's current rate.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Invoice, error) {
	if req.ClientID <= 0 {
		return nil, ErrMissingClient
	}
	rate, err := s.rates.ResolveRate(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.Next(ctx, sequence.Invoice)
	if err != nil {
		return nil, fmt.Errorf("issuing invoice id: %w", err)
	}
	periodID, err := s.ids.Next(ctx, sequence.Period)
	if err != nil {
		return nil, fmt.Errorf("issuing period id: %w", err)
	}

	now := s.now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	inv := &Invoice{
		ID:         id,
		ClientID:   req.ClientID,
		PeriodID:   periodID,
		Date:       Day(date),
		Entries:    []Entry{},
		Hours:      decimal.Zero,
		Rate:       rate,
		Amount:     decimal.Zero,
		Status:     StatusOpen,
		Version:    1,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	s.logActivity(ctx, inv.ID, activity.TypeInvoiceCreated,
		fmt.Sprintf("created invoice %d for client %d", inv.ID, inv.ClientID))
	s.logger.InfoContext(ctx, "invoice created", "invoice_id", inv.ID, "client_id", inv.ClientID, "period_id", periodID)
	return inv, nil
}

// Get returns an invoice by id.
func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return inv, nil
}

// List returns one page of invoices, newest issue date first.
func (s *Service) List(ctx context.Context, req ListRequest) (*Page, error) {
	size := req.PageSize
	if size <= 0 {
		size = s.pageSize
	}
	page := max(req.Page, 1)

	invoices, total, err := s.invoices.List(ctx, ListInvoicesOptions{
		ClientID: req.ClientID,
		Limit:    size,
		Offset:   (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return &Page{
		Invoices: invoices,
		Total:    total,
		Page:     page,
		PageSize: size,
		Pages:    (total + size - 1) / size,
	}, nil
}

// AddEntry appends a timesheet entry and recalculates the invoice.
func (s *Service) AddEntry(ctx context.Context, invoiceID int64, in EntryInput) (*Invoice, error) {
	if err := ValidateEntryInput(in); err != nil {
		return nil, err
	}
	entryID, err := s.ids.Next(ctx, sequence.Timesheet)
	if err != nil {
		return nil, fmt.Errorf("issuing entry id: %w", err)
	}
	entry := Entry{
		ID:          entryID,
		Date:        Day(in.Date),
		Description: in.Description,
		Hours:       in.Hours,
	}
	return s.mutate(ctx, invoiceID, func(ctx context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		if inv.Status == StatusPosted {
			return "", "", ErrInvoicePosted
		}
		inv.Entries = append(inv.Entries, entry)
		if err := s.recalculate(ctx, inv); err != nil {
			return "", "", err
		}
		return activity.TypeEntryAdded,
			fmt.Sprintf("added entry %d (%s hours)", entry.ID, entry.Hours.String()), nil
	})
}

// EditEntry applies the requested action to one entry. Cancel returns the
// stored invoice unchanged and Delete removes the entry.
func (s *Service) EditEntry(ctx context.Context, req EditEntryRequest) (*Invoice, error) {
	switch req.Action {
	case ActionCancel:
		return s.Get(ctx, req.InvoiceID)
	case ActionDelete:
		return s.RemoveEntry(ctx, req.InvoiceID, req.EntryID)
	case ActionSubmit, "":
	default:
		return nil, ErrInvalidAction
	}

	if err := ValidateEntryInput(req.Entry); err != nil {
		return nil, err
	}
	return s.mutate(ctx, req.InvoiceID, func(ctx context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		if inv.Status == StatusPosted {
			return "", "", ErrInvoicePosted
		}
		_, idx, ok := lo.FindIndexOf(inv.Entries, func(e Entry) bool { return e.ID == req.EntryID })
		if !ok {
			return "", "", fmt.Errorf("%w: entry %d on invoice %d", ErrEntryNotFound, req.EntryID, inv.ID)
		}
		inv.Entries[idx] = Entry{
			ID:          req.EntryID,
			Date:        Day(req.Entry.Date),
			Description: req.Entry.Description,
			Hours:       req.Entry.Hours,
		}
		if err := s.recalculate(ctx, inv); err != nil {
			return "", "", err
		}
		return activity.TypeEntryUpdated, fmt.Sprintf("updated entry %d", req.EntryID), nil
	})
}

// RemoveEntry deletes an entry and recalculates the invoice. Removing an
// entry that isn't present still recalculates.
func (s *Service) RemoveEntry(ctx context.Context, invoiceID, entryID int64) (*Invoice, error) {
	return s.mutate(ctx, invoiceID, func(ctx context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		if inv.Status == StatusPosted {
			return "", "", ErrInvoicePosted
		}
		before := len(inv.Entries)
		inv.Entries = lo.Reject(inv.Entries, func(e Entry, _ int) bool { return e.ID == entryID })
		if err := s.recalculate(ctx, inv); err != nil {
			return "", "", err
		}
		if len(inv.Entries) == before {
			return activity.TypeInvoiceRecalculated,
				fmt.Sprintf("entry %d not present; recalculated", entryID), nil
		}
		return activity.TypeEntryRemoved, fmt.Sprintf("removed entry %d", entryID), nil
	})
}

// Recalculate recomputes and stores the invoice totals at the client's
// current rate.
func (s *Service) Recalculate(ctx context.Context, id int64) (*Recalculation, error) {
	var empty []int64
	inv, err := s.mutate(ctx, id, func(ctx context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		if inv.Status == StatusPosted {
			return "", "", ErrInvoicePosted
		}
		res, err := s.aggregator.Recalculate(ctx, inv)
		if err != nil {
			return "", "", err
		}
		*inv = *res.Invoice
		empty = res.EmptyEntries
		return activity.TypeInvoiceRecalculated,
			fmt.Sprintf("recalculated: %s hours, %s", inv.Hours.String(), inv.Amount.StringFixed(2)), nil
	})
	if err != nil {
		return nil, err
	}
	return &Recalculation{Invoice: inv, EmptyEntries: empty}, nil
}

// Close moves an open invoice to closed on the given date.
func (s *Service) Close(ctx context.Context, req CloseRequest) (*Invoice, error) {
	switch req.Action {
	case ActionCancel:
		return s.Get(ctx, req.ID)
	case ActionSubmit, "":
	default:
		return nil, ErrInvalidAction
	}
	if err := ValidateClose(req.Date); err != nil {
		return nil, err
	}
	closeDate := Day(*req.Date)
	return s.mutate(ctx, req.ID, func(_ context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		if err := ValidateTransition(inv.Status, StatusClosed); err != nil {
			return "", "", err
		}
		inv.Status = StatusClosed
		inv.CloseDate = lo.ToPtr(closeDate)
		return activity.TypeInvoiceClosed, fmt.Sprintf("closed on %s", closeDate.Format(time.DateOnly)), nil
	})
}

// Pay records the check number and received date of a closed invoice.
func (s *Service) Pay(ctx context.Context, req PayRequest) (*Invoice, error) {
	switch req.Action {
	case ActionCancel:
		return s.Get(ctx, req.ID)
	case ActionSubmit, "":
	default:
		return nil, ErrInvalidAction
	}
	if err := ValidatePayment(req.CheckNumber, req.PaidDate); err != nil {
		return nil, err
	}
	paid := Day(*req.PaidDate)
	return s.mutate(ctx, req.ID, func(_ context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		if err := ValidateTransition(inv.Status, StatusPaid); err != nil {
			return "", "", err
		}
		inv.Status = StatusPaid
		inv.CheckNumber = req.CheckNumber
		inv.PaidDate = lo.ToPtr(paid)
		return activity.TypeInvoicePaid,
			fmt.Sprintf("paid by check %s on %s", req.CheckNumber, paid.Format(time.DateOnly)), nil
	})
}

// Reopen returns a closed or paid invoice to open, clearing its close and
// payment details.
func (s *Service) Reopen(ctx context.Context, id int64) (*Invoice, error) {
	return s.mutate(ctx, id, func(_ context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		if err := ValidateTransition(inv.Status, StatusOpen); err != nil {
			return "", "", err
		}
		from := inv.Status
		inv.Status = StatusOpen
		inv.CloseDate = nil
		inv.PaidDate = nil
		inv.CheckNumber = ""
		return activity.TypeInvoiceReopened, fmt.Sprintf("reopened from %s", from), nil
	})
}

// Post marks an invoice posted. Posted invoices accept no further changes
// other than the sent flag.
func (s *Service) Post(ctx context.Context, id int64) (*Invoice, error) {
	return s.mutate(ctx, id, func(_ context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		if err := ValidateTransition(inv.Status, StatusPosted); err != nil {
			return "", "", err
		}
		from := inv.Status
		inv.Status = StatusPosted
		return activity.TypeInvoicePosted, fmt.Sprintf("posted from %s", from), nil
	})
}

// MarkSent flags the invoice as sent to the client.
func (s *Service) MarkSent(ctx context.Context, id int64) (*Invoice, error) {
	return s.mutate(ctx, id, func(_ context.Context, inv *Invoice) (activity.ActivityType, string, error) {
		inv.Sent = true
		return activity.TypeInvoiceSent, "marked sent", nil
	})
}

// History lists an invoice's activity, newest first.
func (s *Service) History(ctx context.Context, id int64, limit int) ([]activity.ActivityEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.activities == nil {
		return []activity.ActivityEntry{}, nil
	}
	return s.activities.GetRecentActivity(ctx, activity.ListActivityOptions{InvoiceID: id, Limit: limit})
}

func (s *Service) recalculate(ctx context.Context, inv *Invoice) error {
	res, err := s.aggregator.Recalculate(ctx, inv)
	if err != nil {
		return err
	}
	*inv = *res.Invoice
	return nil
}

// mutate runs a read-modify-write of one invoice. The whole document is
// replaced only if nobody else wrote it since it was read; otherwise the
// change is reapplied to a fresh copy, up to the retry policy's limit.
func (s *Service) mutate(ctx context.Context, id int64, apply mutation) (*Invoice, error) {
	var (
		result  *Invoice
		kind    activity.ActivityType
		summary string
		attempt int
	)

	op := func() error {
		attempt++
		current, err := s.Get(ctx, id)
		if err != nil {
			return backoff.Permanent(err)
		}

		updated := current.Clone()
		kind, summary, err = apply(ctx, updated)
		if err != nil {
			return backoff.Permanent(err)
		}
		updated.Version = current.Version + 1
		updated.ModifiedAt = s.now().UTC()

		if err := s.invoices.Update(ctx, updated, current.Version); err != nil {
			switch {
			case errors.Is(err, repository.ErrConflict):
				s.logger.WarnContext(ctx, "invoice write conflict",
					"invoice_id", id,
					"version", current.Version,
					"attempt", attempt,
				)
				return err
			case errors.Is(err, repository.ErrNotFound):
				return backoff.Permanent(ErrInvoiceNotFound)
			default:
				return backoff.Permanent(fmt.Errorf("updating invoice: %w", err))
			}
		}
		result = updated
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retry.InitialInterval
	retries := uint64(max(s.retry.MaxAttempts-1, 0))

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: invoice %d after %d attempts", ErrConcurrencyConflict, id, attempt)
		}
		return nil, err
	}

	s.logActivity(ctx, id, kind, summary)
	return result, nil
}

func (s *Service) logActivity(ctx context.Context, invoiceID int64, kind activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.LogActivity(ctx, &activity.ActivityEntry{
		InvoiceID:    invoiceID,
		ActivityType: kind,
		Summary:      summary,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "logging invoice activity", "invoice_id", invoiceID, "error", err)
	}
}
