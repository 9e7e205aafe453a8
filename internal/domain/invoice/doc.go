// Package invoice provides the domain model for turning tracked time into invoices.
//
// This package implements the invoicing bounded context, which is responsible for:
//   - Aggregating timesheet entries into billable totals with VAT
//   - Generating unique invoice numbers
//   - Tracking the invoice lifecycle (new, pending, paid, canceled)
//
// Key Aggregates:
//   - Invoice: The issued bill with its number, totals and status
//   - Template: Issuer details, VAT rate, payment terms and calculator choice
//
// Build Context:
//   - Model: Transient aggregation of customer, template, user, date and entries,
//     consumed once by Invoice.SetModel
//   - Calculator: Computes subtotal, tax and total for a Model
//   - NumberGenerator: Produces an invoice number unique among persisted invoices
//
// The invoice domain integrates with:
//   - Partner domain: For the billed customer and its currency
//   - Timetracking domain: As the source of billable entries
//   - Identity domain: For the issuing user
package invoice
