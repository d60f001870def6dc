package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
)

// ==================== Decimal helpers ====================

// Money and hours are stored as Decimal128 so $sum stays exact.
func toDecimal128(d decimal.Decimal) (bson.Decimal128, error) {
	v, err := bson.ParseDecimal128(d.String())
	if err != nil {
		return bson.Decimal128{}, fmt.Errorf("contractor/mongo: encode decimal %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v bson.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("contractor/mongo: decode decimal %s: %w", v, err)
	}
	return d, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// ==================== Counter models ====================

type counterModel struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// ==================== Client models ====================

type addressModel struct {
	Address1  string `bson:"address1,omitempty"`
	Address2  string `bson:"address2,omitempty"`
	City      string `bson:"city,omitempty"`
	State     string `bson:"state,omitempty"`
	Zip       string `bson:"zip,omitempty"`
	Attention string `bson:"attn,omitempty"`
	Phone     string `bson:"phone,omitempty"`
	Fax       string `bson:"fax,omitempty"`
	Email     string `bson:"email,omitempty"`
}

type clientModel struct {
	ID            int64        `bson:"_id"`
	Name          string       `bson:"name"`
	Address       addressModel `bson:",inline"`
	RateID        string       `bson:"rate"`
	Prefix        string       `bson:"prefix,omitempty"`
	TimesheetForm string       `bson:"ts_form,omitempty"`
	Project       string       `bson:"project,omitempty"`
	CreatedAt     time.Time    `bson:"created_at"`
	ModifiedAt    time.Time    `bson:"modified_at"`
}

type companyModel struct {
	ID         int64        `bson:"_id"`
	Name       string       `bson:"name"`
	Address    addressModel `bson:",inline"`
	CreatedAt  time.Time    `bson:"created_at"`
	ModifiedAt time.Time    `bson:"modified_at"`
}

type rateModel struct {
	ID   string          `bson:"_id"`
	Rate bson.Decimal128 `bson:"rate"`
}

func toAddressModel(a client.Address) addressModel {
	return addressModel(a)
}

func fromAddressModel(m addressModel) client.Address {
	return client.Address(m)
}

func toClientModel(c *client.Client) *clientModel {
	return &clientModel{
		ID:            c.ID,
		Name:          c.Name,
		Address:       toAddressModel(c.Address),
		RateID:        c.RateID,
		Prefix:        c.Prefix,
		TimesheetForm: c.TimesheetForm,
		Project:       c.Project,
		CreatedAt:     c.CreatedAt.UTC(),
		ModifiedAt:    c.ModifiedAt.UTC(),
	}
}

func fromClientModel(m *clientModel) *client.Client {
	return &client.Client{
		ID:            m.ID,
		Name:          m.Name,
		Address:       fromAddressModel(m.Address),
		RateID:        m.RateID,
		Prefix:        m.Prefix,
		TimesheetForm: m.TimesheetForm,
		Project:       m.Project,
		CreatedAt:     m.CreatedAt.UTC(),
		ModifiedAt:    m.ModifiedAt.UTC(),
	}
}

func toCompanyModel(c *client.Company) *companyModel {
	return &companyModel{
		ID:         c.ID,
		Name:       c.Name,
		Address:    toAddressModel(c.Address),
		CreatedAt:  c.CreatedAt.UTC(),
		ModifiedAt: c.ModifiedAt.UTC(),
	}
}

func fromCompanyModel(m *companyModel) *client.Company {
	return &client.Company{
		ID:         m.ID,
		Name:       m.Name,
		Address:    fromAddressModel(m.Address),
		CreatedAt:  m.CreatedAt.UTC(),
		ModifiedAt: m.ModifiedAt.UTC(),
	}
}

func toRateModel(r *client.Rate) (*rateModel, error) {
	amount, err := toDecimal128(r.Amount)
	if err != nil {
		return nil, err
	}
	return &rateModel{ID: r.ID, Rate: amount}, nil
}

func fromRateModel(m *rateModel) (*client.Rate, error) {
	amount, err := fromDecimal128(m.Rate)
	if err != nil {
		return nil, err
	}
	return &client.Rate{ID: m.ID, Amount: amount}, nil
}

// ==================== Invoice models ====================

type entryModel struct {
	ID          int64           `bson:"id"`
	Date        time.Time       `bson:"date"`
	Description string          `bson:"description"`
	Hours       bson.Decimal128 `bson:"hours"`
}

type invoiceModel struct {
	ID          int64           `bson:"_id"`
	ClientID    int64           `bson:"client_id"`
	PeriodID    int64           `bson:"period_id"`
	Date        time.Time       `bson:"date"`
	Detail      []entryModel    `bson:"detail"`
	Hours       bson.Decimal128 `bson:"hours"`
	Rate        bson.Decimal128 `bson:"rate"`
	Amount      bson.Decimal128 `bson:"amount"`
	Status      string          `bson:"status"`
	CloseDate   *time.Time      `bson:"close_date,omitempty"`
	PaidDate    *time.Time      `bson:"paid_date,omitempty"`
	CheckNumber string          `bson:"check_number,omitempty"`
	Sent        bool            `bson:"sent"`
	Version     int64           `bson:"version"`
	CreatedAt   time.Time       `bson:"created_at"`
	ModifiedAt  time.Time       `bson:"modified_at"`
}

func toInvoiceModel(inv *invoice.Invoice) (*invoiceModel, error) {
	detail := make([]entryModel, len(inv.Entries))
	for i, e := range inv.Entries {
		hours, err := toDecimal128(e.Hours)
		if err != nil {
			return nil, err
		}
		detail[i] = entryModel{
			ID:          e.ID,
			Date:        e.Date.UTC(),
			Description: e.Description,
			Hours:       hours,
		}
	}

	hours, err := toDecimal128(inv.Hours)
	if err != nil {
		return nil, err
	}
	rate, err := toDecimal128(inv.Rate)
	if err != nil {
		return nil, err
	}
	amount, err := toDecimal128(inv.Amount)
	if err != nil {
		return nil, err
	}

	return &invoiceModel{
		ID:          inv.ID,
		ClientID:    inv.ClientID,
		PeriodID:    inv.PeriodID,
		Date:        inv.Date.UTC(),
		Detail:      detail,
		Hours:       hours,
		Rate:        rate,
		Amount:      amount,
		Status:      string(inv.Status),
		CloseDate:   utcPtr(inv.CloseDate),
		PaidDate:    utcPtr(inv.PaidDate),
		CheckNumber: inv.CheckNumber,
		Sent:        inv.Sent,
		Version:     inv.Version,
		CreatedAt:   inv.CreatedAt.UTC(),
		ModifiedAt:  inv.ModifiedAt.UTC(),
	}, nil
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	entries := make([]invoice.Entry, len(m.Detail))
	for i, e := range m.Detail {
		hours, err := fromDecimal128(e.Hours)
		if err != nil {
			return nil, err
		}
		entries[i] = invoice.Entry{
			ID:          e.ID,
			Date:        e.Date.UTC(),
			Description: e.Description,
			Hours:       hours,
		}
	}

	hours, err := fromDecimal128(m.Hours)
	if err != nil {
		return nil, err
	}
	rate, err := fromDecimal128(m.Rate)
	if err != nil {
		return nil, err
	}
	amount, err := fromDecimal128(m.Amount)
	if err != nil {
		return nil, err
	}

	return &invoice.Invoice{
		ID:          m.ID,
		ClientID:    m.ClientID,
		PeriodID:    m.PeriodID,
		Date:        m.Date.UTC(),
		Entries:     entries,
		Hours:       hours,
		Rate:        rate,
		Amount:      amount,
		Status:      invoice.Status(m.Status),
		CloseDate:   utcPtr(m.CloseDate),
		PaidDate:    utcPtr(m.PaidDate),
		CheckNumber: m.CheckNumber,
		Sent:        m.Sent,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt.UTC(),
		ModifiedAt:  m.ModifiedAt.UTC(),
	}, nil
}

// ==================== Activity models ====================

type activityModel struct {
	ID        int64     `bson:"_id"`
	InvoiceID int64     `bson:"invoice_id"`
	Type      string    `bson:"type"`
	Summary   string    `bson:"summary"`
	Details   string    `bson:"details,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func toActivityModel(e *activity.ActivityEntry) *activityModel {
	return &activityModel{
		ID:        e.ID,
		InvoiceID: e.InvoiceID,
		Type:      string(e.ActivityType),
		Summary:   e.Summary,
		Details:   e.Details,
		CreatedAt: e.CreatedAt.UTC(),
	}
}

func fromActivityModel(m *activityModel) activity.ActivityEntry {
	return activity.ActivityEntry{
		ID:           m.ID,
		InvoiceID:    m.InvoiceID,
		ActivityType: activity.ActivityType(m.Type),
		Summary:      m.Summary,
		Details:      m.Details,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}
