package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	InvoiceID    int64
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
