package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/infrastructure/persistence/models"
	"github.com/timebill/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant.
// Returns nil, nil when none exists.
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
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

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	customer.AssignID()
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	customer.CreatedAt = model.CreatedAt
	customer.UpdatedAt = model.UpdatedAt
	return nil
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
