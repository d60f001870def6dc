package client_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rdlittle/contractor/internal/apperr"
	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/repository"
	"github.com/rdlittle/contractor/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	clients   *mocks.ClientRepository
	companies *mocks.CompanyRepository
	rates     *mocks.RateRepository
	ids       *mocks.CounterRepository
	svc       *client.Service
}

func newFixture() *fixture {
	f := &fixture{
		clients:   &mocks.ClientRepository{},
		companies: &mocks.CompanyRepository{},
		rates:     &mocks.RateRepository{},
		ids:       &mocks.CounterRepository{},
	}
	f.svc = client.NewService(f.clients, f.companies, f.rates, f.ids, nil)
	return f
}

func TestClientService_CreateIssuesID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.ids.On("Next", ctx, sequence.Client).Return(int64(7), nil)
	f.clients.On("Create", ctx, mock.AnythingOfType("*client.Client")).Return(nil)

	c, err := f.svc.CreateClient(ctx, client.Client{Name: "  Acme Corp ", RateID: "std"})
	require.NoError(t, err)
	require.Equal(t, int64(7), c.ID)
	require.Equal(t, "Acme Corp", c.Name)
	require.False(t, c.CreatedAt.IsZero())
}

func TestClientService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.CreateClient(ctx, client.Client{Name: "", RateID: "std"})
	require.ErrorIs(t, err, client.ErrInvalidName)

	_, err = f.svc.CreateClient(ctx, client.Client{Name: strings.Repeat("x", 81), RateID: "std"})
	require.ErrorIs(t, err, client.ErrInvalidName)
	require.True(t, apperr.IsValidation(err))

	_, err = f.svc.CreateClient(ctx, client.Client{Name: "Acme"})
	require.ErrorIs(t, err, client.ErrMissingRate)

	f.ids.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
}

func TestClientService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.clients.On("Get", ctx, int64(3)).Return((*client.Client)(nil), repository.ErrNotFound)

	_, err := f.svc.GetClient(ctx, 3)
	require.ErrorIs(t, err, client.ErrClientNotFound)
	require.True(t, apperr.IsNotFound(err))
}

func TestClientService_ResolveRate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.clients.On("Get", ctx, int64(1)).Return(&client.Client{ID: 1, Name: "Acme", RateID: "std"}, nil)
	f.rates.On("Get", ctx, "std").Return(&client.Rate{ID: "std", Amount: decimal.RequireFromString("50.00")}, nil)

	rate, err := f.svc.ResolveRate(ctx, 1)
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.NewFromInt(50)))
}

func TestClientService_ResolveRateMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.clients.On("Get", ctx, int64(1)).Return(&client.Client{ID: 1, Name: "Acme", RateID: "gone"}, nil)
	f.rates.On("Get", ctx, "gone").Return((*client.Rate)(nil), repository.ErrNotFound)

	_, err := f.svc.ResolveRate(ctx, 1)
	require.ErrorIs(t, err, client.ErrRateNotFound)
	require.Contains(t, err.Error(), "gone")
}

func TestClientService_ResolveRateUnknownClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.clients.On("Get", ctx, int64(9)).Return((*client.Client)(nil), repository.ErrNotFound)

	_, err := f.svc.ResolveRate(ctx, 9)
	require.ErrorIs(t, err, client.ErrClientNotFound)
}

func TestClientService_PutRate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.PutRate(ctx, "std", decimal.NewFromInt(-1))
	require.ErrorIs(t, err, client.ErrInvalidRate)

	f.rates.On("Put", ctx, &client.Rate{ID: "std", Amount: decimal.NewFromInt(75)}).Return(nil)
	r, err := f.svc.PutRate(ctx, " std ", decimal.NewFromInt(75))
	require.NoError(t, err)
	require.Equal(t, "std", r.ID)
}

func TestClientService_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	stored := &client.Client{ID: 4, Name: "Old", RateID: "std"}
	stored.CreatedAt = stored.CreatedAt.AddDate(2020, 0, 0)
	f.clients.On("Get", ctx, int64(4)).Return(stored, nil)
	f.clients.On("Update", ctx, mock.AnythingOfType("*client.Client")).Return(nil)

	c, err := f.svc.UpdateClient(ctx, client.Client{ID: 4, Name: "New", RateID: "std"})
	require.NoError(t, err)
	require.Equal(t, stored.CreatedAt, c.CreatedAt)
	require.Equal(t, "New", c.Name)
}

func TestClientService_CreateCompany(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.ids.On("Next", ctx, sequence.Company).Return(int64(1), nil)
	f.companies.On("Create", ctx, mock.AnythingOfType("*client.Company")).Return(nil)

	c, err := f.svc.CreateCompany(ctx, client.Company{Name: "Little Consulting"})
	require.NoError(t, err)
	require.Equal(t, int64(1), c.ID)
}
