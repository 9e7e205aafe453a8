package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice domain entity.
// Invoice numbers are unique per tenant.
type InvoiceModel struct {
	AggregateModel
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_tenant_number,priority:1"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	Filename      string          `gorm:"type:varchar(150)"`
	Status        string          `gorm:"type:varchar(20);not null;default:'new';index"`
	DueDate       *time.Time      `gorm:"index"`
	DueDays       int             `gorm:"not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Vat           decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PaymentDate   *time.Time
	Comment       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
// Customer and user are referenced by ID only.
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	return &invoice.Invoice{
		TenantAggregateRoot: m.tenantRoot(m.TenantID),
		InvoiceNumber:       m.InvoiceNumber,
		Filename:            m.Filename,
		Status:              invoice.Status(m.Status),
		DueDate:             m.DueDate,
		DueDays:             m.DueDays,
		Currency:            valueobject.Currency(m.Currency),
		CustomerID:          m.CustomerID,
		UserID:              m.UserID,
		Subtotal:            m.Subtotal,
		Tax:                 m.Tax,
		Vat:                 m.Vat,
		Total:               m.Total,
		PaymentDate:         m.PaymentDate,
		Comment:             m.Comment,
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		TenantID:      i.TenantID,
		InvoiceNumber: i.InvoiceNumber,
		Filename:      i.Filename,
		Status:        string(i.Status),
		DueDate:       i.DueDate,
		DueDays:       i.DueDays,
		Currency:      string(i.Currency),
		CustomerID:    i.CustomerID,
		UserID:        i.UserID,
		Subtotal:      i.Subtotal,
		Tax:           i.Tax,
		Vat:           i.Vat,
		Total:         i.Total,
		PaymentDate:   i.PaymentDate,
		Comment:       i.Comment,
	}
	m.fromTenantRoot(i.TenantAggregateRoot)
	return m
}

// InvoiceTemplateModel is the persistence model for the invoice Template entity.
type InvoiceTemplateModel struct {
	TenantAggregateModel
	Name         string          `gorm:"type:varchar(60);not null"`
	Title        string          `gorm:"type:varchar(255)"`
	Company      string          `gorm:"type:varchar(255)"`
	Address      string          `gorm:"type:text"`
	PaymentTerms string          `gorm:"type:text"`
	VatID        string          `gorm:"type:varchar(50)"`
	DueDays      int             `gorm:"not null"`
	Vat          decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	Calculator   string          `gorm:"type:varchar(20);not null"`
	Language     string          `gorm:"type:varchar(6)"`
}

// TableName returns the table name for GORM
func (InvoiceTemplateModel) TableName() string {
	return "invoice_templates"
}

// ToDomain converts the persistence model to a domain Template entity.
func (m *InvoiceTemplateModel) ToDomain() *invoice.Template {
	return &invoice.Template{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		Title:               m.Title,
		Company:             m.Company,
		Address:             m.Address,
		PaymentTerms:        m.PaymentTerms,
		VatID:               m.VatID,
		DueDays:             m.DueDays,
		Vat:                 m.Vat,
		Calculator:          m.Calculator,
		Language:            m.Language,
	}
}

// InvoiceTemplateModelFromDomain creates a persistence model from a domain Template entity.
func InvoiceTemplateModelFromDomain(t *invoice.Template) *InvoiceTemplateModel {
	m := &InvoiceTemplateModel{
		Name:         t.Name,
		Title:        t.Title,
		Company:      t.Company,
		Address:      t.Address,
		PaymentTerms: t.PaymentTerms,
		VatID:        t.VatID,
		DueDays:      t.DueDays,
		Vat:          t.Vat,
		Calculator:   t.Calculator,
		Language:     t.Language,
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}

// All returns every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&CustomerModel{},
		&ProjectModel{},
		&ActivityModel{},
		&TimesheetModel{},
		&InvoiceTemplateModel{},
		&InvoiceModel{},
	}
}
