package mocks

import (
	"context"

	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/stretchr/testify/mock"
)

// CounterRepository is a mock for sequence.Repository.
type CounterRepository struct {
	mock.Mock
}

func (m *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CounterRepository) List(ctx context.Context) ([]sequence.Counter, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]sequence.Counter); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CounterRepository) Set(ctx context.Context, name string, value int64) error {
	args := m.Called(ctx, name, value)
	return args.Error(0)
}

func (m *CounterRepository) Provision(ctx context.Context, name string, start int64) (bool, error) {
	args := m.Called(ctx, name, start)
	return args.Bool(0), args.Error(1)
}
