package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/repository"
)

// CounterRepository implements sequence.Repository over the control
// collection.
type CounterRepository struct {
	col *mongo.Collection
}

var _ sequence.Repository = (*CounterRepository)(nil)

// Next increments the counter server-side and returns its prior value.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	var m counterModel
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("contractor/mongo: next %s: %w", name, err)
	}
	return m.Seq, nil
}

func (r *CounterRepository) List(ctx context.Context) ([]sequence.Counter, error) {
	// The history numbering document shares the collection.
	filter := bson.M{"_id": bson.M{"$ne": activitySeq}}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("contractor/mongo: list counters: %w", err)
	}
	defer cursor.Close(ctx)

	var models []counterModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("contractor/mongo: list counters decode: %w", err)
	}

	counters := make([]sequence.Counter, len(models))
	for i, m := range models {
		counters[i] = sequence.Counter{Name: m.Name, Next: m.Seq}
	}
	return counters, nil
}

func (r *CounterRepository) Set(ctx context.Context, name string, value int64) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$set": bson.M{"seq": value}})
	if err != nil {
		return fmt.Errorf("contractor/mongo: set %s: %w", name, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CounterRepository) Provision(ctx context.Context, name string, start int64) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$setOnInsert": bson.M{"seq": start}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("contractor/mongo: provision %s: %w", name, err)
	}
	return res.UpsertedCount == 1, nil
}
