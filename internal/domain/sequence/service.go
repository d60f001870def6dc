package sequence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rdlittle/contractor/internal/repository"
)

// Service issues sequence numbers and manages the counter documents.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new sequence service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger}
}

// Next returns the current value of the named counter and advances it.
// Values are never issued twice; a value the caller discards leaves a gap.
func (s *Service) Next(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrInvalidName
	}
	value, err := s.repo.Next(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrCounterNotFound, name)
		}
		return 0, fmt.Errorf("issuing %s sequence: %w", name, err)
	}
	s.logger.DebugContext(ctx, "sequence issued", "name", name, "value", value)
	return value, nil
}

// List returns all counters ordered by name.
func (s *Service) List(ctx context.Context) ([]Counter, error) {
	counters, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing counters: %w", err)
	}
	return counters, nil
}

// Set overwrites the next value of an existing counter.
func (s *Service) Set(ctx context.Context, name string, value int64) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if value < 0 {
		return ErrInvalidValue
	}
	if err := s.repo.Set(ctx, name, value); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrCounterNotFound, name)
		}
		return fmt.Errorf("setting %s counter: %w", name, err)
	}
	s.logger.InfoContext(ctx, "counter reset", "name", name, "next", value)
	return nil
}

// Provision creates each named counter starting at start when it is missing.
// Existing counters keep their value.
func (s *Service) Provision(ctx context.Context, start int64, names ...string) error {
	if start < 0 {
		return ErrInvalidValue
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return ErrInvalidName
		}
		created, err := s.repo.Provision(ctx, name, start)
		if err != nil {
			return fmt.Errorf("provisioning %s counter: %w", name, err)
		}
		if created {
			s.logger.InfoContext(ctx, "counter provisioned", "name", name, "next", start)
		}
	}
	return nil
}
