package invoice

import "github.com/timebill/backend/internal/domain/shared"

// Error codes of the invoice domain
const (
	CodeDuplicateInvoiceNumber = "DUPLICATE_INVOICE_NUMBER"
	CodeInvoiceNumberExhausted = "INVOICE_NUMBER_EXHAUSTED"
	CodeNoBillableEntries      = "NO_BILLABLE_ENTRIES"
)

var (
	// ErrUnknownStatus is returned when a status outside the known set is applied
	ErrUnknownStatus = shared.NewInvalidArgument("Unknown invoice status")

	// ErrUnknownCalculator is returned for an unregistered calculator id
	ErrUnknownCalculator = shared.NewInvalidArgument("Unknown invoice calculator")

	// ErrUnknownNumberGenerator is returned for an unregistered number generator id
	ErrUnknownNumberGenerator = shared.NewInvalidArgument("Unknown invoice number generator")

	// ErrDuplicateInvoiceNumber is returned by repositories when the number is already taken
	ErrDuplicateInvoiceNumber = shared.NewDomainError(CodeDuplicateInvoiceNumber, "Invoice number already exists")

	// ErrInvoiceNumberExhausted is returned when a generator runs out of candidates
	ErrInvoiceNumberExhausted = shared.NewDomainError(CodeInvoiceNumberExhausted, "No free invoice number available")

	// ErrNoBillableEntries is returned when the selection yields nothing to invoice
	ErrNoBillableEntries = shared.NewDomainError(CodeNoBillableEntries, "No billable entries found for invoice")

	// ErrAlreadyNumbered is returned when a numbered invoice is populated again
	ErrAlreadyNumbered = shared.NewDomainError(shared.CodeInvalidState, "Invoice number is already assigned")

	// ErrModelIncomplete is returned when a model lacks its calculator or number generator
	ErrModelIncomplete = shared.NewDomainError(shared.CodeInvalidState, "Invoice model requires a calculator and a number generator")
)
