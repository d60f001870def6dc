package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/repository"
)

// InvoiceRepository implements invoice.Repository. Updates replace the
// whole document guarded by its version field.
type InvoiceRepository struct {
	col *mongo.Collection
}

var _ invoice.Repository = (*InvoiceRepository)(nil)

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	m, err := toInvoiceModel(inv)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return insertErr("create invoice", err)
	}
	return nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	var m invoiceModel
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("contractor/mongo: get invoice: %w", err)
	}
	return fromInvoiceModel(&m)
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice, expectedVersion int64) error {
	m, err := toInvoiceModel(inv)
	if err != nil {
		return err
	}

	res, err := r.col.ReplaceOne(ctx, versionFilter(inv.ID, expectedVersion), m)
	if err != nil {
		return fmt.Errorf("contractor/mongo: update invoice: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": inv.ID})
	if err != nil {
		return fmt.Errorf("contractor/mongo: check invoice existence: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

func (r *InvoiceRepository) List(ctx context.Context, opts invoice.ListInvoicesOptions) ([]invoice.Invoice, int, error) {
	filter := listFilter(opts.ClientID)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("contractor/mongo: count invoices: %w", err)
	}

	find := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		find.SetSkip(int64(opts.Offset))
	}

	invoices, err := findInvoices(ctx, r.col, filter, find)
	if err != nil {
		return nil, 0, err
	}
	return invoices, int(total), nil
}

func versionFilter(id, version int64) bson.M {
	return bson.M{"_id": id, "version": version}
}

func listFilter(clientID int64) bson.M {
	if clientID > 0 {
		return bson.M{"client_id": clientID}
	}
	return bson.M{}
}

func findInvoices(ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptionsBuilder) ([]invoice.Invoice, error) {
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("contractor/mongo: find invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var models []invoiceModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("contractor/mongo: find invoices decode: %w", err)
	}

	result := make([]invoice.Invoice, len(models))
	for i := range models {
		inv, err := fromInvoiceModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = *inv
	}
	return result, nil
}
