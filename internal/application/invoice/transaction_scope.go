package invoice

import (
	"context"

	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/timetracking"
)

// TransactionScope provides transactional access to invoicing repositories.
// Numbering, saving the invoice and flagging its timesheets as exported
// commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories sharing one transaction
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() invoice.InvoiceRepository
	// TimesheetRepo returns the timesheet repository scoped to the current transaction
	TimesheetRepo() timetracking.TimesheetRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	invoiceRepo   invoice.InvoiceRepository
	timesheetRepo timetracking.TimesheetRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(invoiceRepo invoice.InvoiceRepository, timesheetRepo timetracking.TimesheetRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:   invoiceRepo,
		timesheetRepo: timesheetRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() invoice.InvoiceRepository {
	return s.invoiceRepo
}

// TimesheetRepo returns the timesheet repository.
func (s *NoOpTransactionScope) TimesheetRepo() timetracking.TimesheetRepository {
	return s.timesheetRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
