package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/infrastructure/persistence/models"
	"github.com/timebill/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func openStatuses() []string {
	return []string{string(invoice.StatusNew), string(invoice.StatusPending)}
}

// HasInvoice checks whether the number is used within the tenant
func (r *GormInvoiceRepository) HasInvoice(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("invoice_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountIssuedBetween counts the invoices dated in [from, to)
func (r *GormInvoiceRepository) CountIssuedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

// FindByIDForTenant finds an invoice by ID within a tenant.
// Returns nil, nil when none exists.
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	return r.first(ctx, tenantID, "id = ?", id)
}

// FindByNumber finds an invoice by its number within a tenant.
// Returns nil, nil when none exists.
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*invoice.Invoice, error) {
	return r.first(ctx, tenantID, "invoice_number = ?", number)
}

func (r *GormInvoiceRepository) first(ctx context.Context, tenantID uuid.UUID, query string, arg any) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where(query, arg).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists invoices for a tenant with the total count
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter invoice.InvoiceFilter) ([]*invoice.Invoice, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(tenant.Scope(tenantID))

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("invoice_number LIKE ? OR comment LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir)).Order("invoice_number " + orderDir)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toInvoices(rows), total, nil
}

// FindOverdue returns open invoices whose due date is before now, oldest first
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*invoice.Invoice, error) {
	var rows []models.InvoiceModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?", openStatuses(), now).
		Order("due_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// CountOverdue counts open invoices past their due date for every tenant
func (r *GormInvoiceRepository) CountOverdue(ctx context.Context, now time.Time) (map[uuid.UUID]int64, error) {
	var rows []struct {
		TenantID uuid.UUID
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("tenant_id, COUNT(*) AS count").
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?", openStatuses(), now).
		Group("tenant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.TenantID] = row.Count
	}
	return counts, nil
}

// Save creates or updates an invoice.
// A taken number is reported as ErrDuplicateInvoiceNumber.
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	inv.AssignID()
	model := models.InvoiceModelFromDomain(inv)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %s", invoice.ErrDuplicateInvoiceNumber, inv.InvoiceNumber)
		}
		return err
	}
	inv.CreatedAt = model.CreatedAt
	inv.UpdatedAt = model.UpdatedAt
	return nil
}

func toInvoices(rows []models.InvoiceModel) []*invoice.Invoice {
	invoices := make([]*invoice.Invoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].ToDomain()
	}
	return invoices
}

var _ invoice.InvoiceRepository = (*GormInvoiceRepository)(nil)
