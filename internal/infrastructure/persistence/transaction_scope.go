package persistence

import (
	"context"

	appinvoice "github.com/timebill/backend/internal/application/invoice"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/timetracking"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Invoice numbering, the invoice row and the exported flags of its
// timesheets commit together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinvoice.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InvoiceRepo() invoice.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// TimesheetRepo returns the timesheet repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TimesheetRepo() timetracking.TimesheetRepository {
	return NewGormTimesheetRepository(r.tx)
}

var _ appinvoice.TransactionScope = (*GormTransactionScope)(nil)
var _ appinvoice.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
