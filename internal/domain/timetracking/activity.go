package timetracking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/shared"
)

// Activity is the kind of work a timesheet records.
// Activities without a project are global and usable in every project.
type Activity struct {
	shared.TenantAggregateRoot
	Name      string
	ProjectID *uuid.UUID
	Project   *Project
	Comment   string
	Visible   bool
	Billable  bool
	Meta      shared.MetaFields
}

// NewActivity creates an activity. A nil project makes it global.
func NewActivity(tenantID uuid.UUID, name string, project *Project) (*Activity, error) {
	if err := validateName("Activity", name); err != nil {
		return nil, err
	}

	a := &Activity{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Visible:             true,
		Billable:            true,
	}
	a.SetProject(project)
	return a, nil
}

// SetProject binds the activity to a project, or makes it global when nil
func (a *Activity) SetProject(project *Project) {
	a.Project = project
	if project != nil {
		id := project.ID
		a.ProjectID = &id
	} else {
		a.ProjectID = nil
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// IsGlobal reports whether the activity is not bound to a project
func (a *Activity) IsGlobal() bool {
	return a.ProjectID == nil
}

// SetMetaField adds or replaces a meta field
func (a *Activity) SetMetaField(name, value string, visible bool) error {
	field, err := shared.NewMetaField(name, value, visible)
	if err != nil {
		return err
	}
	a.Meta.Set(field)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}
