package activity

import "time"

// ActivityType represents the type of invoice event.
type ActivityType string

const (
	TypeInvoiceCreated      ActivityType = "invoice_created"
	TypeEntryAdded          ActivityType = "entry_added"
	TypeEntryUpdated        ActivityType = "entry_updated"
	TypeEntryRemoved        ActivityType = "entry_removed"
	TypeInvoiceRecalculated ActivityType = "invoice_recalculated"
	TypeInvoiceClosed       ActivityType = "invoice_closed"
	TypeInvoicePaid         ActivityType = "invoice_paid"
	TypeInvoiceReopened     ActivityType = "invoice_reopened"
	TypeInvoicePosted       ActivityType = "invoice_posted"
	TypeInvoiceSent         ActivityType = "invoice_sent"
)

// ActivityEntry represents an event in an invoice's history.
type ActivityEntry struct {
	ID           int64        `json:"id"`
	InvoiceID    int64        `json:"invoice_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
