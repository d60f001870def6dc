package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `contractor keeps a contractor's clients, billing rates, timesheets and invoices.

Core concepts:
- Client: a billed customer with an hourly rate id, an invoice file prefix and a timesheet form.
- Invoice: one billing period for one client. Timesheet entries live inside the invoice; hours and amount are always recomputed from them.
- Status: open -> closed -> paid -> posted. Reopen returns closed or paid invoices to open. Posted is final.
- Counters: every id (client, company, invoice, period, timesheet) comes from a named counter.

Conventions:
- Dates are MM/DD/YYYY. Hours, rates and amounts are decimal strings.
- Errors carry a code: NOT_FOUND, VALIDATION_ERROR, INVALID_RANGE or CONFLICT.

Docs:
- contractor://docs/workflows/billing
- contractor://docs/reports
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "contractor://docs/workflows/billing",
		Name:        "docs_billing",
		Title:       "Billing workflow",
		Description: "From a new client to a posted invoice, with the tool to call at each step.",
		Content: `# Billing workflow

1. ` + "`rate_put`" + ` an hourly rate, then ` + "`client_save`" + ` a client that references it by ` + "`rate_id`" + `.
2. ` + "`invoice_create`" + ` for the client. The invoice starts open, priced at the client's current rate.
3. ` + "`invoice_add_entry`" + ` for each day of work. Totals update on every change.
   ` + "`invoice_edit_entry`" + ` replaces an entry; action ` + "`delete`" + ` removes it, ` + "`cancel`" + ` changes nothing.
4. ` + "`invoice_close`" + ` with the close date. Closed invoices can be printed.
5. ` + "`invoice_mark_sent`" + ` once delivered.
6. ` + "`invoice_pay`" + ` with the check number and the date payment arrived.
7. ` + "`invoice_post`" + ` when it is entered in the books. Posted invoices can no longer change.

Mistakes before posting are fixed with ` + "`invoice_reopen`" + `, which clears the close and payment details.
` + "`invoice_history`" + ` shows every change made to an invoice.

## Concurrency

Every invoice write is guarded by a version. Concurrent edits are retried a few times;
a ` + "`CONFLICT`" + ` error means retries ran out and the request can simply be repeated.
`,
	},
	{
		URI:         "contractor://docs/reports",
		Name:        "docs_reports",
		Title:       "Paid invoice report",
		Description: "How paid_report selects invoices and what an empty result looks like.",
		Content: `# Paid invoice report

` + "`paid_report`" + ` returns the invoices one client paid between ` + "`start`" + ` and ` + "`end`" + `,
both days included, ordered by paid date. ` + "`total_amount`" + ` and ` + "`total_hours`" + ` sum the same invoices.

- ` + "`start`" + ` after ` + "`end`" + ` is an ` + "`INVALID_RANGE`" + ` error; the bounds are never swapped.
- When nothing matched, ` + "`empty`" + ` is true and the totals are omitted.
- Only invoices with a paid date are considered, whatever their current status.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
