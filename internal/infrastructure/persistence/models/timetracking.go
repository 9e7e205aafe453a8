package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timebill/backend/internal/domain/timetracking"
)

// ProjectModel is the persistence model for the Project domain entity.
type ProjectModel struct {
	TenantAggregateModel
	Name        string           `gorm:"type:varchar(150);not null"`
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Customer    *CustomerModel   `gorm:"foreignKey:CustomerID"`
	OrderNumber string           `gorm:"type:varchar(50)"`
	Comment     string           `gorm:"type:text"`
	Visible     bool             `gorm:"not null"`
	Billable    bool             `gorm:"not null"`
	Meta        MetaFieldsColumn `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
// A preloaded customer is converted as well.
func (m *ProjectModel) ToDomain() *timetracking.Project {
	p := &timetracking.Project{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		CustomerID:          m.CustomerID,
		OrderNumber:         m.OrderNumber,
		Comment:             m.Comment,
		Visible:             m.Visible,
		Billable:            m.Billable,
		Meta:                m.Meta.toDomain(),
	}
	if m.Customer != nil {
		p.Customer = m.Customer.ToDomain()
	}
	return p
}

// ProjectModelFromDomain creates a persistence model from a domain Project entity.
func ProjectModelFromDomain(p *timetracking.Project) *ProjectModel {
	m := &ProjectModel{
		Name:        p.Name,
		CustomerID:  p.CustomerID,
		OrderNumber: p.OrderNumber,
		Comment:     p.Comment,
		Visible:     p.Visible,
		Billable:    p.Billable,
		Meta:        metaColumn(p.Meta),
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// ActivityModel is the persistence model for the Activity domain entity.
type ActivityModel struct {
	TenantAggregateModel
	Name      string           `gorm:"type:varchar(150);not null"`
	ProjectID *uuid.UUID       `gorm:"type:uuid;index"`
	Project   *ProjectModel    `gorm:"foreignKey:ProjectID"`
	Comment   string           `gorm:"type:text"`
	Visible   bool             `gorm:"not null"`
	Billable  bool             `gorm:"not null"`
	Meta      MetaFieldsColumn `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity entity.
func (m *ActivityModel) ToDomain() *timetracking.Activity {
	a := &timetracking.Activity{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		ProjectID:           m.ProjectID,
		Comment:             m.Comment,
		Visible:             m.Visible,
		Billable:            m.Billable,
		Meta:                m.Meta.toDomain(),
	}
	if m.Project != nil {
		a.Project = m.Project.ToDomain()
	}
	return a
}

// ActivityModelFromDomain creates a persistence model from a domain Activity entity.
func ActivityModelFromDomain(a *timetracking.Activity) *ActivityModel {
	m := &ActivityModel{
		Name:      a.Name,
		ProjectID: a.ProjectID,
		Comment:   a.Comment,
		Visible:   a.Visible,
		Billable:  a.Billable,
		Meta:      metaColumn(a.Meta),
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}

// TimesheetModel is the persistence model for the Timesheet domain entity.
type TimesheetModel struct {
	TenantAggregateModel
	Begin       time.Time       `gorm:"column:start_time;not null;index"`
	End         *time.Time      `gorm:"column:end_time"`
	Duration    int64           `gorm:"not null;default:0"`
	Rate        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	User        *UserModel      `gorm:"foreignKey:UserID"`
	ActivityID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Activity    *ActivityModel  `gorm:"foreignKey:ActivityID"`
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Project     *ProjectModel   `gorm:"foreignKey:ProjectID"`
	Description string          `gorm:"type:text"`
	Billable    bool            `gorm:"not null"`
	Exported    bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (TimesheetModel) TableName() string {
	return "timesheets"
}

// ToDomain converts the persistence model to a domain Timesheet entity.
// Preloaded user, activity and project are converted as well.
func (m *TimesheetModel) ToDomain() *timetracking.Timesheet {
	t := &timetracking.Timesheet{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Begin:               m.Begin,
		End:                 m.End,
		Duration:            m.Duration,
		Rate:                m.Rate,
		HourlyRate:          m.HourlyRate,
		UserID:              m.UserID,
		ActivityID:          m.ActivityID,
		ProjectID:           m.ProjectID,
		Description:         m.Description,
		Billable:            m.Billable,
		Exported:            m.Exported,
	}
	if m.User != nil {
		t.User = m.User.ToDomain()
	}
	if m.Activity != nil {
		t.Activity = m.Activity.ToDomain()
	}
	if m.Project != nil {
		t.Project = m.Project.ToDomain()
	}
	return t
}

// TimesheetModelFromDomain creates a persistence model from a domain Timesheet entity.
func TimesheetModelFromDomain(t *timetracking.Timesheet) *TimesheetModel {
	m := &TimesheetModel{
		Begin:       t.Begin,
		End:         t.End,
		Duration:    t.Duration,
		Rate:        t.Rate,
		HourlyRate:  t.HourlyRate,
		UserID:      t.UserID,
		ActivityID:  t.ActivityID,
		ProjectID:   t.ProjectID,
		Description: t.Description,
		Billable:    t.Billable,
		Exported:    t.Exported,
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}
