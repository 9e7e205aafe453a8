package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/shared"
	"github.com/timebill/backend/internal/domain/timetracking"
)

// Query describes which timesheet entries were selected for an invoice.
// Nil fields are not filtered on.
type Query struct {
	CustomerID      *uuid.UUID
	ProjectID       *uuid.UUID
	ActivityID      *uuid.UUID
	UserID          *uuid.UUID
	Begin           *time.Time
	End             *time.Time
	IncludeExported bool
	BillableOnly    bool
}

// Validate checks the date range
func (q *Query) Validate() error {
	if q.Begin != nil && q.End != nil && q.End.Before(*q.Begin) {
		return shared.NewInvalidArgument("Query end must not be before begin")
	}
	return nil
}

// Criteria converts the query into timesheet selection criteria
func (q *Query) Criteria() timetracking.InvoiceCriteria {
	return timetracking.InvoiceCriteria{
		CustomerID:      q.CustomerID,
		ProjectID:       q.ProjectID,
		ActivityID:      q.ActivityID,
		UserID:          q.UserID,
		Begin:           q.Begin,
		End:             q.End,
		IncludeExported: q.IncludeExported,
		BillableOnly:    q.BillableOnly,
	}
}
