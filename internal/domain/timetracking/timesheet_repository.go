package timetracking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/shared"
)

// ErrTimesheetsAlreadyBilled is returned when entries were exported by another invoice
// between selection and commit
var ErrTimesheetsAlreadyBilled = shared.NewDomainError(shared.CodeConcurrencyConflict, "Timesheets are already billed on another invoice")

// InvoiceCriteria selects the timesheets that go on an invoice.
// Nil fields are not filtered on.
type InvoiceCriteria struct {
	CustomerID      *uuid.UUID
	ProjectID       *uuid.UUID
	ActivityID      *uuid.UUID
	UserID          *uuid.UUID
	Begin           *time.Time
	End             *time.Time
	IncludeExported bool
	BillableOnly    bool
}

// TimesheetRepository defines the interface for timesheet persistence
type TimesheetRepository interface {
	// FindForInvoice returns the entries matching the criteria ordered by begin ascending,
	// with user, activity and project loaded
	FindForInvoice(ctx context.Context, tenantID uuid.UUID, criteria InvoiceCriteria) ([]*Timesheet, error)

	// MarkExported claims the given unexported timesheets for an invoice.
	// It returns ErrTimesheetsAlreadyBilled unless every id was claimed.
	MarkExported(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error

	// Save creates or updates a timesheet
	Save(ctx context.Context, timesheet *Timesheet) error
}

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Project, error)
	Save(ctx context.Context, project *Project) error
}

// ActivityRepository defines the interface for activity persistence
type ActivityRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Activity, error)
	Save(ctx context.Context, activity *Activity) error
}
