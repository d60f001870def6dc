package mocks

import (
	"context"

	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/stretchr/testify/mock"
)

// ClientRepository is a mock for client.Repository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ClientRepository) Get(ctx context.Context, id int64) (*client.Client, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*client.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ClientRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]client.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CompanyRepository is a mock for client.CompanyRepository.
type CompanyRepository struct {
	mock.Mock
}

func (m *CompanyRepository) Create(ctx context.Context, c *client.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CompanyRepository) Get(ctx context.Context, id int64) (*client.Company, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*client.Company); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CompanyRepository) Update(ctx context.Context, c *client.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CompanyRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CompanyRepository) List(ctx context.Context) ([]client.Company, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]client.Company); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// RateRepository is a mock for client.RateRepository.
type RateRepository struct {
	mock.Mock
}

func (m *RateRepository) Put(ctx context.Context, r *client.Rate) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RateRepository) Get(ctx context.Context, id string) (*client.Rate, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*client.Rate); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RateRepository) List(ctx context.Context) ([]client.Rate, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]client.Rate); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
