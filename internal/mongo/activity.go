package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rdlittle/contractor/internal/domain/activity"
)

// activitySeq names the control document that numbers history entries.
const activitySeq = "activity"

// ActivityRepository implements activity.Repository.
type ActivityRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

var _ activity.Repository = (*ActivityRepository)(nil)

func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	var seq counterModel
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": activitySeq},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&seq)
	if err != nil {
		return fmt.Errorf("contractor/mongo: number activity: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now()
	}
	entry.ID = seq.Seq
	if _, err := r.col.InsertOne(ctx, toActivityModel(entry)); err != nil {
		return insertErr("log activity", err)
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	cursor, err := r.col.Find(ctx, activityFilter(opts), activityFind(opts))
	if err != nil {
		return nil, fmt.Errorf("contractor/mongo: list activity: %w", err)
	}
	defer cursor.Close(ctx)

	var models []activityModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("contractor/mongo: list activity decode: %w", err)
	}

	result := make([]activity.ActivityEntry, len(models))
	for i := range models {
		result[i] = fromActivityModel(&models[i])
	}
	return result, nil
}

func activityFilter(opts activity.ListActivityOptions) bson.M {
	filter := bson.M{}
	if opts.InvoiceID > 0 {
		filter["invoice_id"] = opts.InvoiceID
	}
	if opts.ActivityType != nil {
		filter["type"] = string(*opts.ActivityType)
	}
	return filter
}

func activityFind(opts activity.ListActivityOptions) *options.FindOptionsBuilder {
	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		find.SetSkip(int64(opts.Offset))
	}
	return find
}
