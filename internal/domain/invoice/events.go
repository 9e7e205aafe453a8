package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timebill/backend/internal/domain/shared"
)

// Aggregate type constant for Invoice
const AggregateTypeInvoice = "Invoice"

// Event type constants for Invoice
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
)

// InvoiceCreatedEvent is raised when an invoice is populated from a model
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Currency      string          `json:"currency"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Currency:        inv.Currency.String(),
		Subtotal:        inv.Subtotal,
		Tax:             inv.Tax,
		Total:           inv.Total,
		DueDate:         inv.DueDate,
	}
}

// InvoiceStatusChangedEvent is raised when the status of an invoice changes
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	FromStatus    Status          `json:"from_status"`
	ToStatus      Status          `json:"to_status"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, from, to Status) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceNumber:   inv.InvoiceNumber,
		FromStatus:      from,
		ToStatus:        to,
		Total:           inv.Total,
		Currency:        inv.Currency.String(),
	}
}
