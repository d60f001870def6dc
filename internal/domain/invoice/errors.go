package invoice

import "github.com/rdlittle/contractor/internal/apperr"

var (
	// ErrInvoiceNotFound indicates the invoice doesn't exist.
	ErrInvoiceNotFound = apperr.New(apperr.ErrNotFound, "invoice not found")
	// ErrEntryNotFound indicates the timesheet entry isn't on the invoice.
	ErrEntryNotFound = apperr.New(apperr.ErrNotFound, "timesheet entry not found")
	// ErrMissingClient indicates an invoice request without a client.
	ErrMissingClient = apperr.New(apperr.ErrValidation, "client is required")
	// ErrMissingEntryDate indicates an entry without a work date.
	ErrMissingEntryDate = apperr.New(apperr.ErrValidation, "entry date is required")
	// ErrMissingDescription indicates an entry without a description.
	ErrMissingDescription = apperr.New(apperr.ErrValidation, "entry description is required")
	// ErrInvalidHours indicates negative hours.
	ErrInvalidHours = apperr.New(apperr.ErrValidation, "hours must be a non-negative number")
	// ErrMissingCloseDate indicates a close request without a date.
	ErrMissingCloseDate = apperr.New(apperr.ErrValidation, "close date is required")
	// ErrMissingCheckNumber indicates a payment without a check or receipt number.
	ErrMissingCheckNumber = apperr.New(apperr.ErrValidation, "check number is required")
	// ErrMissingPaidDate indicates a payment without a received date.
	ErrMissingPaidDate = apperr.New(apperr.ErrValidation, "paid date is required")
	// ErrInvalidTransition indicates a disallowed status change.
	ErrInvalidTransition = apperr.New(apperr.ErrValidation, "invalid status transition")
	// ErrInvoicePosted indicates a change to a posted invoice.
	ErrInvoicePosted = apperr.New(apperr.ErrValidation, "invoice is posted")
	// ErrInvalidAction indicates an unknown form action.
	ErrInvalidAction = apperr.New(apperr.ErrValidation, "invalid action")
	// ErrConcurrencyConflict indicates the write kept losing to other writers.
	ErrConcurrencyConflict = apperr.New(apperr.ErrConflict, "invoice was modified concurrently; retries exhausted")
)
