package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/repository"
)

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

// ==================== Clients ====================

// ClientRepository implements client.Repository.
type ClientRepository struct {
	col *mongo.Collection
}

var _ client.Repository = (*ClientRepository)(nil)

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	if _, err := r.col.InsertOne(ctx, toClientModel(c)); err != nil {
		return insertErr("create client", err)
	}
	return nil
}

func (r *ClientRepository) Get(ctx context.Context, id int64) (*client.Client, error) {
	var m clientModel
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("contractor/mongo: get client: %w", err)
	}
	return fromClientModel(&m), nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, toClientModel(c))
	if err != nil {
		return fmt.Errorf("contractor/mongo: update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("contractor/mongo: delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, byName)
	if err != nil {
		return nil, fmt.Errorf("contractor/mongo: list clients: %w", err)
	}
	defer cursor.Close(ctx)

	var models []clientModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("contractor/mongo: list clients decode: %w", err)
	}

	result := make([]client.Client, len(models))
	for i := range models {
		result[i] = *fromClientModel(&models[i])
	}
	return result, nil
}

// ==================== Companies ====================

// CompanyRepository implements client.CompanyRepository.
type CompanyRepository struct {
	col *mongo.Collection
}

var _ client.CompanyRepository = (*CompanyRepository)(nil)

func (r *CompanyRepository) Create(ctx context.Context, c *client.Company) error {
	if _, err := r.col.InsertOne(ctx, toCompanyModel(c)); err != nil {
		return insertErr("create company", err)
	}
	return nil
}

func (r *CompanyRepository) Get(ctx context.Context, id int64) (*client.Company, error) {
	var m companyModel
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("contractor/mongo: get company: %w", err)
	}
	return fromCompanyModel(&m), nil
}

func (r *CompanyRepository) Update(ctx context.Context, c *client.Company) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, toCompanyModel(c))
	if err != nil {
		return fmt.Errorf("contractor/mongo: update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("contractor/mongo: delete company: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) List(ctx context.Context) ([]client.Company, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, byName)
	if err != nil {
		return nil, fmt.Errorf("contractor/mongo: list companies: %w", err)
	}
	defer cursor.Close(ctx)

	var models []companyModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("contractor/mongo: list companies decode: %w", err)
	}

	result := make([]client.Company, len(models))
	for i := range models {
		result[i] = *fromCompanyModel(&models[i])
	}
	return result, nil
}

// ==================== Rates ====================

// RateRepository implements client.RateRepository.
type RateRepository struct {
	col *mongo.Collection
}

var _ client.RateRepository = (*RateRepository)(nil)

func (r *RateRepository) Put(ctx context.Context, rate *client.Rate) error {
	m, err := toRateModel(rate)
	if err != nil {
		return err
	}
	_, err = r.col.ReplaceOne(ctx, bson.M{"_id": m.ID}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("contractor/mongo: put rate: %w", err)
	}
	return nil
}

func (r *RateRepository) Get(ctx context.Context, id string) (*client.Rate, error) {
	var m rateModel
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("contractor/mongo: get rate: %w", err)
	}
	return fromRateModel(&m)
}

func (r *RateRepository) List(ctx context.Context) ([]client.Rate, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("contractor/mongo: list rates: %w", err)
	}
	defer cursor.Close(ctx)

	var models []rateModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("contractor/mongo: list rates decode: %w", err)
	}

	result := make([]client.Rate, len(models))
	for i := range models {
		rate, err := fromRateModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = *rate
	}
	return result, nil
}
