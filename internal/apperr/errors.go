// Package apperr defines the error categories surfaced to callers.
//
// Domain packages declare their own sentinels with New, tagging each with one
// of the categories below. Callers can match either the specific sentinel or
// the category:
//
//	errors.Is(err, invoice.ErrInvoiceNotFound) // specific
//	errors.Is(err, apperr.ErrNotFound)         // category
package apperr

import "errors"

var (
	// ErrNotFound is the category for missing counters, clients, rates and invoices.
	ErrNotFound = errors.New("not found")
	// ErrValidation is the category for malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrRange is the category for inverted date ranges.
	ErrRange = errors.New("invalid range")
	// ErrConflict is the category for exhausted optimistic-concurrency retries.
	ErrConflict = errors.New("concurrency conflict")
)

// Error is a sentinel error tagged with a category.
type Error struct {
	kind error
	msg  string
}

// New creates a sentinel in the given category.
func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap returns the category.
func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the category of err, or nil when err carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrValidation, ErrRange, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// IsNotFound reports whether err is in the not-found category.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is in the validation category.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsRange reports whether err is in the range category.
func IsRange(err error) bool {
	return errors.Is(err, ErrRange)
}

// IsConflict reports whether err is in the conflict category.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
