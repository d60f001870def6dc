package client

import "github.com/rdlittle/contractor/internal/apperr"

var (
	// ErrClientNotFound indicates the client doesn't exist.
	ErrClientNotFound = apperr.New(apperr.ErrNotFound, "client not found")
	// ErrCompanyNotFound indicates the company doesn't exist.
	ErrCompanyNotFound = apperr.New(apperr.ErrNotFound, "company not found")
	// ErrRateNotFound indicates the rate referenced by a client doesn't exist.
	ErrRateNotFound = apperr.New(apperr.ErrNotFound, "rate not found")
	// ErrInvalidName indicates a missing or overlong name.
	ErrInvalidName = apperr.New(apperr.ErrValidation, "name is required and must be at most 80 characters")
	// ErrInvalidRate indicates a missing rate id or a negative amount.
	ErrInvalidRate = apperr.New(apperr.ErrValidation, "rate requires an id and a non-negative amount")
	// ErrMissingRate indicates a client without a rate reference.
	ErrMissingRate = apperr.New(apperr.ErrValidation, "client rate is required")
)
