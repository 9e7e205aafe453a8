package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/timetracking"
	"github.com/timebill/backend/internal/infrastructure/persistence/models"
	"github.com/timebill/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormActivityRepository implements ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByIDForTenant finds an activity by ID within a tenant.
// Returns nil, nil when none exists.
func (r *GormActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*timetracking.Activity, error) {
	var model models.ActivityModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Preload("Project").
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an activity
func (r *GormActivityRepository) Save(ctx context.Context, activity *timetracking.Activity) error {
	activity.AssignID()
	model := models.ActivityModelFromDomain(activity)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}
	activity.CreatedAt = model.CreatedAt
	activity.UpdatedAt = model.UpdatedAt
	return nil
}

var _ timetracking.ActivityRepository = (*GormActivityRepository)(nil)
