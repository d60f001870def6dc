package report

import "github.com/rdlittle/contractor/internal/apperr"

var (
	// ErrInvalidRange indicates a start date after the end date.
	ErrInvalidRange = apperr.New(apperr.ErrRange, "start date is after end date")
	// ErrMissingClient indicates a report request without a client.
	ErrMissingClient = apperr.New(apperr.ErrValidation, "client is required")
	// ErrMissingDates indicates a report request without both bounds.
	ErrMissingDates = apperr.New(apperr.ErrValidation, "start and end dates are required")
)
