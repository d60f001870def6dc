package sequence

import "github.com/rdlittle/contractor/internal/apperr"

var (
	// ErrCounterNotFound indicates no counter is provisioned for the name.
	ErrCounterNotFound = apperr.New(apperr.ErrNotFound, "counter not found")
	// ErrInvalidName indicates an empty entity name.
	ErrInvalidName = apperr.New(apperr.ErrValidation, "counter name required")
	// ErrInvalidValue indicates a negative counter value.
	ErrInvalidValue = apperr.New(apperr.ErrValidation, "counter value must not be negative")
)
