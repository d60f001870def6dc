package render

import "github.com/rdlittle/contractor/internal/apperr"

var (
	// ErrInvoiceOpen indicates a print request for an invoice that is still open.
	ErrInvoiceOpen = apperr.New(apperr.ErrValidation, "invoice must be closed before printing")
	// ErrUnknownTimesheetForm indicates a client whose timesheet form has no template.
	ErrUnknownTimesheetForm = apperr.New(apperr.ErrValidation, "unknown timesheet form")
)
