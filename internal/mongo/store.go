// Package mongo stores contractor documents in MongoDB. Collection names
// and field names follow the layout of the existing database: counters in
// control, invoice lines embedded under detail.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rdlittle/contractor/internal/repository"
)

// Collection name constants.
const (
	colControl  = "control"
	colClients  = "clients"
	colCompany  = "company"
	colRates    = "rates"
	colInvoices = "invoice"
	colActivity = "activity"
)

// Store holds a MongoDB database handle and hands out repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("contractor/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("contractor/mongo: ping: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// Migrate creates indexes for all collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("contractor/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Counters returns the sequence counter repository.
func (s *Store) Counters() *CounterRepository {
	return &CounterRepository{col: s.db.Collection(colControl)}
}

// Clients returns the client repository.
func (s *Store) Clients() *ClientRepository {
	return &ClientRepository{col: s.db.Collection(colClients)}
}

// Companies returns the company repository.
func (s *Store) Companies() *CompanyRepository {
	return &CompanyRepository{col: s.db.Collection(colCompany)}
}

// Rates returns the rate repository.
func (s *Store) Rates() *RateRepository {
	return &RateRepository{col: s.db.Collection(colRates)}
}

// Invoices returns the invoice repository.
func (s *Store) Invoices() *InvoiceRepository {
	return &InvoiceRepository{col: s.db.Collection(colInvoices)}
}

// Reports returns the paid-invoice report repository.
func (s *Store) Reports() *ReportRepository {
	return &ReportRepository{col: s.db.Collection(colInvoices)}
}

// Activity returns the invoice history repository.
func (s *Store) Activity() *ActivityRepository {
	return &ActivityRepository{
		col:      s.db.Collection(colActivity),
		counters: s.db.Collection(colControl),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// insertErr maps insert failures onto repository sentinels.
func insertErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return fmt.Errorf("contractor/mongo: %s: %w", op, err)
}

// migrationIndexes returns the index definitions for all collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colClients: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		colCompany: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		colInvoices: {
			{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "paid_date", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		colActivity: {
			{Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
}
