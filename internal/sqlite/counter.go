package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/repository"
)

// CounterRepository implements sequence.Repository for SQLite
type CounterRepository struct {
	db *DB
}

// NewCounterRepository creates a new CounterRepository
func NewCounterRepository(db *DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next returns the stored value and advances it in a single statement.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	query := `
		UPDATE control
		SET seq = seq + 1
		WHERE name = ?
		RETURNING seq - 1
	`

	var value int64
	err := r.db.QueryRowContext(ctx, query, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter: %w", err)
	}

	return value, nil
}

// List returns all counters ordered by name
func (r *CounterRepository) List(ctx context.Context) ([]sequence.Counter, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, seq FROM control ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list counters: %w", err)
	}
	defer rows.Close()

	counters := []sequence.Counter{}
	for rows.Next() {
		var c sequence.Counter
		if err := rows.Scan(&c.Name, &c.Next); err != nil {
			return nil, fmt.Errorf("failed to scan counter: %w", err)
		}
		counters = append(counters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counter rows: %w", err)
	}

	return counters, nil
}

// Set overwrites the next value of an existing counter
func (r *CounterRepository) Set(ctx context.Context, name string, value int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE control SET seq = ? WHERE name = ?`, value, name)
	if err != nil {
		return fmt.Errorf("failed to set counter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Provision inserts the counter if it is missing and reports whether it did
func (r *CounterRepository) Provision(ctx context.Context, name string, start int64) (bool, error) {
	query := `
		INSERT INTO control (name, seq) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, name, start)
	if err != nil {
		return false, fmt.Errorf("failed to provision counter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
