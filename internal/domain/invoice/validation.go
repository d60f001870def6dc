package invoice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Action is the explicit intent of a form submission.
type Action string

const (
	ActionSubmit Action = "submit"
	ActionCancel Action = "cancel"
	ActionDelete Action = "delete"
)

// ParseAction maps a caller-supplied action name. An empty name submits.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return ActionSubmit, nil
	case ActionSubmit, ActionCancel, ActionDelete:
		return a, nil
	}
	return "", ErrInvalidAction
}

// EntryInput carries the editable fields of a timesheet entry.
type EntryInput struct {
	Date        time.Time
	Description string
	Hours       decimal.Decimal
}

// ValidateEntryInput validates a timesheet entry before it is stored.
func ValidateEntryInput(in EntryInput) error {
	if in.Date.IsZero() {
		return ErrMissingEntryDate
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrMissingDescription
	}
	if in.Hours.IsNegative() {
		return ErrInvalidHours
	}
	return nil
}

// ValidateTransition validates a requested status change.
func ValidateTransition(from, to Status) error {
	if from == StatusPosted {
		return ErrInvoicePosted
	}
	valid := false
	switch to {
	case StatusClosed:
		valid = from == StatusOpen
	case StatusPaid:
		valid = from == StatusClosed
	case StatusOpen:
		valid = from == StatusClosed || from == StatusPaid
	case StatusPosted:
		valid = from.Valid()
	}
	if !valid {
		return ErrInvalidTransition
	}
	return nil
}

// ValidateClose checks the fields required to close an invoice.
func ValidateClose(date *time.Time) error {
	if date == nil || date.IsZero() {
		return ErrMissingCloseDate
	}
	return nil
}

// ValidatePayment checks the fields required to mark an invoice paid.
func ValidatePayment(checkNumber string, paidDate *time.Time) error {
	if strings.TrimSpace(checkNumber) == "" {
		return ErrMissingCheckNumber
	}
	if paidDate == nil || paidDate.IsZero() {
		return ErrMissingPaidDate
	}
	return nil
}
