package sequence

// Entity names with a provisioned counter.
const (
	Client    = "client"
	Company   = "company"
	Invoice   = "invoice"
	Period    = "period"
	Timesheet = "timesheet"
)

// Names lists every counter the system provisions at startup.
var Names = []string{Client, Company, Invoice, Period, Timesheet}

// Counter is the stored state of one sequence: the next value to issue.
type Counter struct {
	Name string `json:"name"`
	Next int64  `json:"next"`
}
