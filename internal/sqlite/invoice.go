package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/repository"
)

// InvoiceRepository implements invoice.Repository for SQLite
type InvoiceRepository struct {
	db *DB
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	doc, err := encodeDoc(inv)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoice (id, client_id, issue_date, status, paid_date, version, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		inv.ID,
		inv.ClientID,
		dateColumn(inv.Date),
		inv.Status,
		nullDateColumn(inv.PaidDate),
		inv.Version,
		doc,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// Get retrieves an invoice by ID
func (r *InvoiceRepository) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM invoice WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	var inv invoice.Invoice
	if err := decodeDoc(doc, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Update replaces the whole invoice if its stored version still matches
func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice, expectedVersion int64) error {
	doc, err := encodeDoc(inv)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoice
		SET client_id = ?, issue_date = ?, status = ?, paid_date = ?, version = ?, doc = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		inv.ClientID,
		dateColumn(inv.Date),
		inv.Status,
		nullDateColumn(inv.PaidDate),
		inv.Version,
		doc,
		inv.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM invoice WHERE id = ?)`
		if err := r.db.QueryRowContext(ctx, checkQuery, inv.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check invoice existence: %w", err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}

	return nil
}

// List returns invoices newest issue date first, with the unpaged count
func (r *InvoiceRepository) List(ctx context.Context, opts invoice.ListInvoicesOptions) ([]invoice.Invoice, int, error) {
	where := ""
	args := []any{}
	if opts.ClientID > 0 {
		where = " WHERE client_id = ?"
		args = append(args, opts.ClientID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoice`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := `SELECT doc FROM invoice` + where + ` ORDER BY issue_date DESC, id DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	invoices, err := r.queryDocs(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *InvoiceRepository) queryDocs(ctx context.Context, query string, args ...any) ([]invoice.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []invoice.Invoice{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		var inv invoice.Invoice
		if err := decodeDoc(doc, &inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	return invoices, nil
}

// Filter columns hold calendar dates as YYYY-MM-DD so they compare as text.
func dateColumn(t time.Time) string {
	return invoice.Day(t).Format(time.DateOnly)
}

func nullDateColumn(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: dateColumn(*t), Valid: true}
}
