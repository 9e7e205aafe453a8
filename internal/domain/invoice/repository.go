package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Status     *Status
	CustomerID *uuid.UUID
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	InvoiceNumberLookup
	InvoiceCounter

	// FindByIDForTenant finds an invoice by ID within a tenant.
	// Returns nil, nil when no invoice exists.
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)

	// FindAllForTenant lists invoices with the total count
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]*Invoice, int64, error)

	// FindOverdue returns open invoices whose due date is before now
	FindOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*Invoice, error)

	// Save creates or updates an invoice.
	// Returns ErrDuplicateInvoiceNumber when the number is already taken.
	Save(ctx context.Context, invoice *Invoice) error
}

// TemplateRepository defines the interface for invoice template persistence
type TemplateRepository interface {
	// FindByIDForTenant returns nil, nil when no template exists
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Template, error)
	Save(ctx context.Context, template *Template) error
}
