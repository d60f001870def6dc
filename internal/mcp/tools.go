package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// tool adapts a Handler method to the SDK's typed tool handler, mapping
// domain errors to coded tool errors.
func tool[In, Out any](fn func(context.Context, In) (Out, error)) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		if err != nil {
			var zero Out
			return nil, zero, mapError(err)
		}
		return nil, out, nil
	}
}

// registerTools adds every tool to the server.
func registerTools(server *sdkmcp.Server, h *Handler) {
	// Invoices
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_create",
		Description: "Create an empty open invoice for a client at the client's current rate",
	}, tool(h.CreateInvoice))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_get",
		Description: "Get an invoice with its timesheet entries",
	}, tool(h.GetInvoice))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_list",
		Description: "List invoices newest first, optionally for one client",
	}, tool(h.ListInvoices))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_add_entry",
		Description: "Add a timesheet entry to an invoice and recompute its totals",
	}, tool(h.AddEntry))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_edit_entry",
		Description: "Replace, keep (cancel) or delete a timesheet entry",
	}, tool(h.EditEntry))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_remove_entry",
		Description: "Remove a timesheet entry and recompute totals",
	}, tool(h.RemoveEntry))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_recalculate",
		Description: "Recompute invoice hours and amount from its entries",
	}, tool(h.Recalculate))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_close",
		Description: "Close an open invoice as of a date",
	}, tool(h.CloseInvoice))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_pay",
		Description: "Record payment of a closed invoice",
	}, tool(h.PayInvoice))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_reopen",
		Description: "Reopen a closed or paid invoice, clearing close and payment details",
	}, tool(h.ReopenInvoice))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_post",
		Description: "Post an invoice to the books; posted invoices are final",
	}, tool(h.PostInvoice))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_mark_sent",
		Description: "Mark an invoice as sent to the client",
	}, tool(h.MarkSent))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invoice_history",
		Description: "List changes made to an invoice, newest first",
	}, tool(h.History))

	// Reports
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "paid_report",
		Description: "Invoices a client paid between two dates inclusive, with summed amount and hours",
	}, tool(h.PaidReport))

	// Counters
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "counter_list",
		Description: "List id counters and the next value each will issue",
	}, tool(h.ListCounters))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "counter_set",
		Description: "Reset the next value of an id counter",
	}, tool(h.SetCounter))

	// Clients, companies, rates
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "client_list",
		Description: "List clients by name",
	}, tool(h.ListClients))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "client_get",
		Description: "Get a client",
	}, tool(h.GetClient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "client_save",
		Description: "Create a client (no id) or replace an existing one",
	}, tool(h.SaveClient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "client_delete",
		Description: "Delete a client",
	}, tool(h.DeleteClient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "company_list",
		Description: "List issuing companies by name",
	}, tool(h.ListCompanies))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "company_save",
		Description: "Create a company (no id) or replace an existing one",
	}, tool(h.SaveCompany))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rate_list",
		Description: "List billing rates",
	}, tool(h.ListRates))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rate_put",
		Description: "Create or replace an hourly billing rate",
	}, tool(h.PutRate))
}
