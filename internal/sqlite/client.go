package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/repository"
	"github.com/shopspring/decimal"
)

// ClientRepository implements client.Repository for SQLite
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a new client
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	return insertNamedDoc(ctx, r.db, "clients", c.ID, c.Name, c)
}

// Get retrieves a client by ID
func (r *ClientRepository) Get(ctx context.Context, id int64) (*client.Client, error) {
	var c client.Client
	if err := getNamedDoc(ctx, r.db, "clients", id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces a client
func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	return updateNamedDoc(ctx, r.db, "clients", c.ID, c.Name, c)
}

// Delete removes a client
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	return deleteNamedDoc(ctx, r.db, "clients", id)
}

// List returns all clients ordered by name
func (r *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	docs, err := listNamedDocs(ctx, r.db, "clients")
	if err != nil {
		return nil, err
	}
	clients := make([]client.Client, 0, len(docs))
	for _, doc := range docs {
		var c client.Client
		if err := decodeDoc(doc, &c); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// CompanyRepository implements client.CompanyRepository for SQLite
type CompanyRepository struct {
	db *DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a new company
func (r *CompanyRepository) Create(ctx context.Context, c *client.Company) error {
	return insertNamedDoc(ctx, r.db, "company", c.ID, c.Name, c)
}

// Get retrieves a company by ID
func (r *CompanyRepository) Get(ctx context.Context, id int64) (*client.Company, error) {
	var c client.Company
	if err := getNamedDoc(ctx, r.db, "company", id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces a company
func (r *CompanyRepository) Update(ctx context.Context, c *client.Company) error {
	return updateNamedDoc(ctx, r.db, "company", c.ID, c.Name, c)
}

// Delete removes a company
func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	return deleteNamedDoc(ctx, r.db, "company", id)
}

// List returns all companies ordered by name
func (r *CompanyRepository) List(ctx context.Context) ([]client.Company, error) {
	docs, err := listNamedDocs(ctx, r.db, "company")
	if err != nil {
		return nil, err
	}
	companies := make([]client.Company, 0, len(docs))
	for _, doc := range docs {
		var c client.Company
		if err := decodeDoc(doc, &c); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// RateRepository implements client.RateRepository for SQLite
type RateRepository struct {
	db *DB
}

// NewRateRepository creates a new RateRepository
func NewRateRepository(db *DB) *RateRepository {
	return &RateRepository{db: db}
}

// Put inserts or replaces a rate
func (r *RateRepository) Put(ctx context.Context, rate *client.Rate) error {
	query := `
		INSERT INTO rates (id, amount) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET amount = excluded.amount
	`
	if _, err := r.db.ExecContext(ctx, query, rate.ID, rate.Amount.String()); err != nil {
		return fmt.Errorf("failed to save rate: %w", err)
	}
	return nil
}

// Get retrieves a rate by ID
func (r *RateRepository) Get(ctx context.Context, id string) (*client.Rate, error) {
	var amount string
	err := r.db.QueryRowContext(ctx, `SELECT amount FROM rates WHERE id = ?`, id).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate %s: %w", id, err)
	}
	return &client.Rate{ID: id, Amount: value}, nil
}

// List returns all rates ordered by ID
func (r *RateRepository) List(ctx context.Context) ([]client.Rate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, amount FROM rates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	rates := []client.Rate{}
	for rows.Next() {
		var id, amount string
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate %s: %w", id, err)
		}
		rates = append(rates, client.Rate{ID: id, Amount: value})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate rows: %w", err)
	}

	return rates, nil
}

// The helpers below serve the id/name/doc tables. table is always a
// constant from this file.

func insertNamedDoc(ctx context.Context, db *DB, table string, id int64, name string, v any) error {
	doc, err := encodeDoc(v)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, name, doc) VALUES (?, ?, ?)`, table)
	if _, err := db.ExecContext(ctx, query, id, name, doc); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func getNamedDoc(ctx context.Context, db *DB, table string, id int64, v any) error {
	var doc string
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, table)
	err := db.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get from %s: %w", table, err)
	}
	return decodeDoc(doc, v)
}

func updateNamedDoc(ctx context.Context, db *DB, table string, id int64, name string, v any) error {
	doc, err := encodeDoc(v)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET name = ?, doc = ? WHERE id = ?`, table)
	result, err := db.ExecContext(ctx, query, name, doc, id)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	return requireRow(result)
}

func deleteNamedDoc(ctx context.Context, db *DB, table string, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table)
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return requireRow(result)
}

func listNamedDocs(ctx context.Context, db *DB, table string) ([]string, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s ORDER BY name COLLATE NOCASE, id`, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}

	return docs, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
