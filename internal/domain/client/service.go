package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/repository"
	"github.com/shopspring/decimal"
)

// Service handles clients, companies and billing rates.
type Service struct {
	clients   Repository
	companies CompanyRepository
	rates     RateRepository
	ids       IDIssuer
	logger    *slog.Logger
}

// NewService creates a new client service.
func NewService(clients Repository, companies CompanyRepository, rates RateRepository, ids IDIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		clients:   clients,
		companies: companies,
		rates:     rates,
		ids:       ids,
		logger:    logger,
	}
}

// CreateClient stores a new client under a freshly issued id.
func (s *Service) CreateClient(ctx context.Context, c Client) (*Client, error) {
	if err := ValidateClient(&c); err != nil {
		return nil, err
	}
	id, err := s.ids.Next(ctx, sequence.Client)
	if err != nil {
		return nil, fmt.Errorf("issuing client id: %w", err)
	}
	now := time.Now().UTC()
	c.ID = id
	c.Name = strings.TrimSpace(c.Name)
	c.CreatedAt = now
	c.ModifiedAt = now
	if err := s.clients.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	s.logger.InfoContext(ctx, "client created", "client_id", c.ID)
	return &c, nil
}

// GetClient fetches a client by id.
func (s *Service) GetClient(ctx context.Context, id int64) (*Client, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return c, nil
}

// UpdateClient replaces the stored fields of an existing client.
func (s *Service) UpdateClient(ctx context.Context, c Client) (*Client, error) {
	if err := ValidateClient(&c); err != nil {
		return nil, err
	}
	existing, err := s.GetClient(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.CreatedAt = existing.CreatedAt
	c.ModifiedAt = time.Now().UTC()
	if err := s.clients.Update(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("updating client: %w", err)
	}
	return &c, nil
}

// DeleteClient removes a client.
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("deleting client: %w", err)
	}
	s.logger.InfoContext(ctx, "client deleted", "client_id", id)
	return nil
}

// ListClients returns all clients sorted by name.
func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.clients.List(ctx)
}

// CreateCompany stores a new issuing company under a freshly issued id.
func (s *Service) CreateCompany(ctx context.Context, c Company) (*Company, error) {
	if err := ValidateName(c.Name); err != nil {
		return nil, err
	}
	id, err := s.ids.Next(ctx, sequence.Company)
	if err != nil {
		return nil, fmt.Errorf("issuing company id: %w", err)
	}
	now := time.Now().UTC()
	c.ID = id
	c.Name = strings.TrimSpace(c.Name)
	c.CreatedAt = now
	c.ModifiedAt = now
	if err := s.companies.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}
	return &c, nil
}

// GetCompany fetches a company by id.
func (s *Service) GetCompany(ctx context.Context, id int64) (*Company, error) {
	c, err := s.companies.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("getting company: %w", err)
	}
	return c, nil
}

// UpdateCompany replaces the stored fields of an existing company.
func (s *Service) UpdateCompany(ctx context.Context, c Company) (*Company, error) {
	if err := ValidateName(c.Name); err != nil {
		return nil, err
	}
	existing, err := s.GetCompany(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.CreatedAt = existing.CreatedAt
	c.ModifiedAt = time.Now().UTC()
	if err := s.companies.Update(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("updating company: %w", err)
	}
	return &c, nil
}

// DeleteCompany removes a company.
func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("deleting company: %w", err)
	}
	return nil
}

// ListCompanies returns all companies sorted by name.
func (s *Service) ListCompanies(ctx context.Context) ([]Company, error) {
	return s.companies.List(ctx)
}

// PutRate creates or replaces a billing rate.
func (s *Service) PutRate(ctx context.Context, id string, amount decimal.Decimal) (*Rate, error) {
	r := &Rate{ID: strings.TrimSpace(id), Amount: amount}
	if err := ValidateRate(r); err != nil {
		return nil, err
	}
	if err := s.rates.Put(ctx, r); err != nil {
		return nil, fmt.Errorf("saving rate: %w", err)
	}
	s.logger.InfoContext(ctx, "rate saved", "rate_id", r.ID, "amount", r.Amount.StringFixed(2))
	return r, nil
}

// GetRate fetches a rate by id.
func (s *Service) GetRate(ctx context.Context, id string) (*Rate, error) {
	r, err := s.rates.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, fmt.Errorf("getting rate: %w", err)
	}
	return r, nil
}

// ListRates returns all rates sorted by id.
func (s *Service) ListRates(ctx context.Context) ([]Rate, error) {
	return s.rates.List(ctx)
}

// ResolveRate looks up the current hourly rate billed to a client.
// A dangling rate reference is an error, never a zero rate.
func (s *Service) ResolveRate(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}
	if strings.TrimSpace(c.RateID) == "" {
		return decimal.Zero, fmt.Errorf("%w: client %d has no rate", ErrRateNotFound, clientID)
	}
	r, err := s.GetRate(ctx, c.RateID)
	if err != nil {
		if errors.Is(err, ErrRateNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %q for client %d", ErrRateNotFound, c.RateID, clientID)
		}
		return decimal.Zero, err
	}
	return r.Amount, nil
}
