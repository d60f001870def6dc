package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address holds the mailing fields shared by clients and companies.
type Address struct {
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Attention string `json:"attention,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Fax       string `json:"fax,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Client is a billed customer.
type Client struct {
	Address

	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	RateID        string    `json:"rate_id"`
	Prefix        string    `json:"prefix,omitempty"`
	TimesheetForm string    `json:"timesheet_form,omitempty"`
	Project       string    `json:"project,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
}

// Company is an invoice issuer.
type Company struct {
	Address

	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Rate is an hourly billing rate referenced by clients.
type Rate struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}
