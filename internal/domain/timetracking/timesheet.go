package timetracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/shared"
)

// Timesheet is a single recorded unit of work
type Timesheet struct {
	shared.TenantAggregateRoot
	Begin       time.Time
	End         *time.Time
	Duration    int64 // seconds
	Rate        decimal.Decimal
	HourlyRate  decimal.Decimal
	UserID      uuid.UUID
	User        *identity.User
	ActivityID  uuid.UUID
	Activity    *Activity
	ProjectID   uuid.UUID
	Project     *Project
	Description string
	Billable    bool
	Exported    bool
}

// NewTimesheet starts a billable timesheet for user on project/activity
func NewTimesheet(tenantID uuid.UUID, user *identity.User, project *Project, activity *Activity, begin time.Time) (*Timesheet, error) {
	if user == nil || project == nil || activity == nil {
		return nil, shared.NewInvalidArgument("Timesheet requires user, project and activity")
	}
	if begin.IsZero() {
		return nil, shared.NewInvalidArgument("Timesheet begin is required")
	}

	return &Timesheet{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Begin:               begin,
		Rate:                decimal.Zero,
		HourlyRate:          decimal.Zero,
		UserID:              user.ID,
		User:                user,
		ActivityID:          activity.ID,
		Activity:            activity,
		ProjectID:           project.ID,
		Project:             project,
		Billable:            true,
	}, nil
}

// SetEnd stops the timesheet and derives the duration
func (t *Timesheet) SetEnd(end time.Time) error {
	if end.Before(t.Begin) {
		return shared.NewInvalidArgument("End must not be before begin")
	}
	t.End = &end
	t.Duration = int64(end.Sub(t.Begin) / time.Second)
	t.touch()
	return nil
}

// SetDuration overrides the recorded duration in seconds
func (t *Timesheet) SetDuration(seconds int64) error {
	if seconds < 0 {
		return shared.NewInvalidArgument("Duration cannot be negative")
	}
	t.Duration = seconds
	t.touch()
	return nil
}

// SetRate sets the billed amount of this entry.
// Negative rates are allowed for corrections.
func (t *Timesheet) SetRate(rate decimal.Decimal) {
	t.Rate = rate
	t.touch()
}

// SetHourlyRate sets the informational hourly rate
func (t *Timesheet) SetHourlyRate(rate decimal.Decimal) {
	t.HourlyRate = rate
	t.touch()
}

// SetDescription sets the work description
func (t *Timesheet) SetDescription(description string) {
	t.Description = description
	t.touch()
}

// SetBillable toggles whether the entry is billed
func (t *Timesheet) SetBillable(billable bool) {
	t.Billable = billable
	t.touch()
}

// MarkExported flags the entry as billed
func (t *Timesheet) MarkExported() {
	t.Exported = true
	t.touch()
}

// IsRunning reports whether the timesheet has not been stopped
func (t *Timesheet) IsRunning() bool {
	return t.End == nil
}

func (t *Timesheet) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
