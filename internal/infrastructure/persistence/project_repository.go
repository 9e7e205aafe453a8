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

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByIDForTenant finds a project by ID within a tenant.
// Returns nil, nil when none exists.
func (r *GormProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*timetracking.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Preload("Customer").
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, project *timetracking.Project) error {
	project.AssignID()
	model := models.ProjectModelFromDomain(project)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}
	project.CreatedAt = model.CreatedAt
	project.UpdatedAt = model.UpdatedAt
	return nil
}

var _ timetracking.ProjectRepository = (*GormProjectRepository)(nil)
