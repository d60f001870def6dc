package mcp

import (
	"errors"
	"fmt"

	"github.com/rdlittle/contractor/internal/apperr"
	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/rdlittle/contractor/internal/domain/sequence"
)

// ErrInvalidParam indicates a tool argument that could not be parsed.
var ErrInvalidParam = apperr.New(apperr.ErrValidation, "invalid parameter")

func invalidParam(field, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParam, field, msg)
}

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes, one per error category.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeRange      = "INVALID_RANGE"
	CodeConflict   = "CONFLICT"
)

var recoveryHints = []struct {
	err  error
	hint string
}{
	{invoice.ErrInvoicePosted, "Posted invoices are final"},
	{invoice.ErrInvalidTransition, "Reopen the invoice first"},
	{invoice.ErrMissingCloseDate, "Pass date as MM/DD/YYYY"},
	{invoice.ErrMissingCheckNumber, "Pass check_number"},
	{invoice.ErrMissingPaidDate, "Pass paid_date as MM/DD/YYYY"},
	{invoice.ErrConcurrencyConflict, "Retry the request"},
	{client.ErrRateNotFound, "Create the rate with rate_put or fix the client's rate_id"},
	{sequence.ErrCounterNotFound, "Check counter_list for valid names"},
	{report.ErrInvalidRange, "start must not be after end"},
}

// MapError maps categorized domain errors to MCP error codes. It returns
// nil for errors outside the taxonomy.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var code string
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		code = CodeNotFound
	case apperr.ErrValidation:
		code = CodeValidation
	case apperr.ErrRange:
		code = CodeRange
	case apperr.ErrConflict:
		code = CodeConflict
	default:
		return nil
	}

	apiErr := &APIError{Code: code, Message: err.Error()}
	for _, h := range recoveryHints {
		if errors.Is(err, h.err) {
			apiErr.RecoveryHint = h.hint
			break
		}
	}
	return apiErr
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
