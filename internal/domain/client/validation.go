package client

import (
	"strings"
	"unicode/utf8"
)

const maxNameLength = 80

// ValidateName checks a client or company name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return ErrInvalidName
	}
	return nil
}

// ValidateClient validates the fields required to save a client.
func ValidateClient(c *Client) error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if strings.TrimSpace(c.RateID) == "" {
		return ErrMissingRate
	}
	return nil
}

// ValidateRate validates a rate before it is stored.
func ValidateRate(r *Rate) error {
	if strings.TrimSpace(r.ID) == "" || r.Amount.IsNegative() {
		return ErrInvalidRate
	}
	return nil
}
