package client

import "context"

// Repository provides persistence operations for clients.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id int64) (*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Client, error)
}

// CompanyRepository provides persistence operations for companies.
type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	Get(ctx context.Context, id int64) (*Company, error)
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Company, error)
}

// RateRepository provides persistence operations for rates.
type RateRepository interface {
	Put(ctx context.Context, r *Rate) error
	Get(ctx context.Context, id string) (*Rate, error)
	List(ctx context.Context) ([]Rate, error)
}

// IDIssuer hands out new entity ids.
type IDIssuer interface {
	Next(ctx context.Context, name string) (int64, error)
}
