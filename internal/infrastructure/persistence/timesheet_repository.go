package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/timetracking"
	"github.com/timebill/backend/internal/infrastructure/persistence/models"
	"github.com/timebill/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTimesheetRepository implements TimesheetRepository using GORM
type GormTimesheetRepository struct {
	db *gorm.DB
}

// NewGormTimesheetRepository creates a new GormTimesheetRepository
func NewGormTimesheetRepository(db *gorm.DB) *GormTimesheetRepository {
	return &GormTimesheetRepository{db: db}
}

// FindForInvoice returns finished entries matching the criteria, oldest first.
// Begin and End bound the start of an entry, both inclusive.
func (r *GormTimesheetRepository) FindForInvoice(ctx context.Context, tenantID uuid.UUID, criteria timetracking.InvoiceCriteria) ([]*timetracking.Timesheet, error) {
	query := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("end_time IS NOT NULL")

	if criteria.CustomerID != nil {
		projects := r.db.Model(&models.ProjectModel{}).
			Select("id").
			Where("tenant_id = ? AND customer_id = ?", tenantID, *criteria.CustomerID)
		query = query.Where("project_id IN (?)", projects)
	}
	if criteria.ProjectID != nil {
		query = query.Where("project_id = ?", *criteria.ProjectID)
	}
	if criteria.ActivityID != nil {
		query = query.Where("activity_id = ?", *criteria.ActivityID)
	}
	if criteria.UserID != nil {
		query = query.Where("user_id = ?", *criteria.UserID)
	}
	if criteria.Begin != nil {
		query = query.Where("start_time >= ?", *criteria.Begin)
	}
	if criteria.End != nil {
		query = query.Where("start_time <= ?", *criteria.End)
	}
	if criteria.BillableOnly {
		query = query.Where("billable = ?", true)
	}
	if !criteria.IncludeExported {
		query = query.Where("exported = ?", false)
	}

	var rows []models.TimesheetModel
	err := query.
		Preload("User").
		Preload("Activity").
		Preload("Project.Customer").
		Order("start_time ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	sheets := make([]*timetracking.Timesheet, len(rows))
	for i := range rows {
		sheets[i] = rows[i].ToDomain()
	}
	return sheets, nil
}

// MarkExported flags unexported timesheets of the tenant as billed.
// Rows already exported, missing or of another tenant are not touched
// and fail the whole claim.
func (r *GormTimesheetRepository) MarkExported(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.TimesheetModel{}).
		Scopes(tenant.ScopeIDs(tenantID, ids)).
		Where("exported = ?", false).
		Updates(map[string]any{
			"exported":   true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(len(ids)) {
		return timetracking.ErrTimesheetsAlreadyBilled
	}
	return nil
}

// Save creates or updates a timesheet. Loaded associations are not written.
func (r *GormTimesheetRepository) Save(ctx context.Context, timesheet *timetracking.Timesheet) error {
	timesheet.AssignID()
	model := models.TimesheetModelFromDomain(timesheet)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}
	timesheet.CreatedAt = model.CreatedAt
	timesheet.UpdatedAt = model.UpdatedAt
	return nil
}

var _ timetracking.TimesheetRepository = (*GormTimesheetRepository)(nil)
