package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
)

// ReportRepository implements report.Repository over the invoice
// collection.
type ReportRepository struct {
	col *mongo.Collection
}

var _ report.Repository = (*ReportRepository)(nil)

func (r *ReportRepository) PaidInvoices(ctx context.Context, clientID int64, start, end time.Time) ([]invoice.Invoice, error) {
	find := options.Find().SetSort(bson.D{{Key: "paid_date", Value: 1}, {Key: "_id", Value: 1}})
	return findInvoices(ctx, r.col, paidFilter(clientID, start, end), find)
}

func (r *ReportRepository) PaidTotals(ctx context.Context, clientID int64, start, end time.Time) (*report.Totals, error) {
	cursor, err := r.col.Aggregate(ctx, paidTotalsPipeline(clientID, start, end))
	if err != nil {
		return nil, fmt.Errorf("contractor/mongo: aggregate paid totals: %w", err)
	}
	defer cursor.Close(ctx)

	var results []totalsModel
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("contractor/mongo: aggregate paid totals decode: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return fromTotalsModel(&results[0])
}

type totalsModel struct {
	Amount bson.Decimal128 `bson:"amount"`
	Hours  bson.Decimal128 `bson:"hours"`
	Count  int             `bson:"count"`
}

func fromTotalsModel(m *totalsModel) (*report.Totals, error) {
	amount, err := fromDecimal128(m.Amount)
	if err != nil {
		return nil, err
	}
	hours, err := fromDecimal128(m.Hours)
	if err != nil {
		return nil, err
	}
	return &report.Totals{Amount: amount, Hours: hours, Count: m.Count}, nil
}

// paidFilter matches invoices paid on any day from start through end.
// The upper bound is the start of the following day so stored times
// later on the end date still match.
func paidFilter(clientID int64, start, end time.Time) bson.M {
	return bson.M{
		"client_id": clientID,
		"paid_date": bson.M{
			"$gte": invoice.Day(start),
			"$lt":  invoice.Day(end).AddDate(0, 0, 1),
		},
	}
}

func paidTotalsPipeline(clientID int64, start, end time.Time) bson.A {
	return bson.A{
		bson.M{"$match": paidFilter(clientID, start, end)},
		bson.M{"$group": bson.M{
			"_id":    nil,
			"amount": bson.M{"$sum": "$amount"},
			"hours":  bson.M{"$sum": "$hours"},
			"count":  bson.M{"$sum": 1},
		}},
	}
}
