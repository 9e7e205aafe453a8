package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/infrastructure/persistence/models"
	"github.com/timebill/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormInvoiceTemplateRepository implements InvoiceTemplateRepository using GORM
type GormInvoiceTemplateRepository struct {
	db *gorm.DB
}

// NewGormInvoiceTemplateRepository creates a new GormInvoiceTemplateRepository
func NewGormInvoiceTemplateRepository(db *gorm.DB) *GormInvoiceTemplateRepository {
	return &GormInvoiceTemplateRepository{db: db}
}

// FindByIDForTenant finds an invoice template by ID within a tenant.
// Returns nil, nil when none exists.
func (r *GormInvoiceTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Template, error) {
	var model models.InvoiceTemplateModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an invoice template
func (r *GormInvoiceTemplateRepository) Save(ctx context.Context, template *invoice.Template) error {
	template.AssignID()
	model := models.InvoiceTemplateModelFromDomain(template)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	template.CreatedAt = model.CreatedAt
	template.UpdatedAt = model.UpdatedAt
	return nil
}

var _ invoice.TemplateRepository = (*GormInvoiceTemplateRepository)(nil)
