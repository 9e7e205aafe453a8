package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/timetracking"
)

// =============================================================================
// Request DTOs
// =============================================================================

// CreateInvoiceRequest selects the entries to bill and the template to apply
type CreateInvoiceRequest struct {
	CustomerID      uuid.UUID  `json:"customer_id" validate:"required"`
	TemplateID      uuid.UUID  `json:"template_id" validate:"required"`
	UserID          uuid.UUID  `json:"user_id" validate:"required"`
	InvoiceDate     *time.Time `json:"invoice_date"`
	ProjectID       *uuid.UUID `json:"project_id"`
	ActivityID      *uuid.UUID `json:"activity_id"`
	EntryUserID     *uuid.UUID `json:"entry_user_id"`
	Begin           *time.Time `json:"begin"`
	End             *time.Time `json:"end"`
	IncludeExported bool       `json:"include_exported"`
	Comment         string     `json:"comment" validate:"max=2000"`
}

// Query builds the entry selection of the request.
// Only billable entries of the customer are selected.
func (r CreateInvoiceRequest) Query() *invoice.Query {
	customerID := r.CustomerID
	return &invoice.Query{
		CustomerID:      &customerID,
		ProjectID:       r.ProjectID,
		ActivityID:      r.ActivityID,
		UserID:          r.EntryUserID,
		Begin:           r.Begin,
		End:             r.End,
		IncludeExported: r.IncludeExported,
		BillableOnly:    true,
	}
}

// ChangeStatusRequest moves an invoice to another status
type ChangeStatusRequest struct {
	Status      string     `json:"status" validate:"required,oneof=new pending paid canceled"`
	PaymentDate *time.Time `json:"payment_date"`
}

// ListInvoicesFilter narrows invoice listings
type ListInvoicesFilter struct {
	Page       int        `json:"page" validate:"omitempty,min=1"`
	PageSize   int        `json:"page_size" validate:"omitempty,min=1,max=100"`
	OrderBy    string     `json:"order_by" validate:"omitempty,oneof=created_at due_date invoice_number total"`
	OrderDir   string     `json:"order_dir" validate:"omitempty,oneof=asc desc"`
	Status     string     `json:"status" validate:"omitempty,oneof=new pending paid canceled"`
	CustomerID *uuid.UUID `json:"customer_id"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// InvoiceLineResponse is one printed line of an invoice
type InvoiceLineResponse struct {
	Begin       time.Time       `json:"begin"`
	End         *time.Time      `json:"end,omitempty"`
	Duration    int64           `json:"duration"`
	Rate        decimal.Decimal `json:"rate"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Description string          `json:"description,omitempty"`
	Activity    string          `json:"activity,omitempty"`
	Project     string          `json:"project,omitempty"`
	User        string          `json:"user,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	TenantID      uuid.UUID             `json:"tenant_id"`
	InvoiceNumber string                `json:"invoice_number"`
	Status        string                `json:"status"`
	CreatedAt     time.Time             `json:"created_at"`
	DueDate       *time.Time            `json:"due_date,omitempty"`
	DueDays       int                   `json:"due_days"`
	Currency      string                `json:"currency"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	CustomerName  string                `json:"customer_name,omitempty"`
	UserID        uuid.UUID             `json:"user_id"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Vat           decimal.Decimal       `json:"vat"`
	Tax           decimal.Decimal       `json:"tax"`
	Total         decimal.Decimal       `json:"total"`
	PaymentDate   *time.Time            `json:"payment_date,omitempty"`
	Comment       string                `json:"comment,omitempty"`
	Filename      string                `json:"filename,omitempty"`
	Overdue       bool                  `json:"overdue"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
	Version       int                   `json:"version"`
}

// PreviewResponse shows what CreateInvoice would produce
type PreviewResponse struct {
	InvoiceNumber string                `json:"invoice_number"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	DueDate       time.Time             `json:"due_date"`
	Currency      string                `json:"currency"`
	Calculator    string                `json:"calculator"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Vat           decimal.Decimal       `json:"vat"`
	Tax           decimal.Decimal       `json:"tax"`
	Total         decimal.Decimal       `json:"total"`
	TimeWorked    int64                 `json:"time_worked"`
	Lines         []InvoiceLineResponse `json:"lines"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status.String(),
		CreatedAt:     inv.CreatedAt,
		DueDate:       inv.DueDate,
		DueDays:       inv.DueDays,
		Currency:      inv.Currency.String(),
		CustomerID:    inv.CustomerID,
		UserID:        inv.UserID,
		Subtotal:      inv.Subtotal,
		Vat:           inv.Vat,
		Tax:           inv.Tax,
		Total:         inv.Total,
		PaymentDate:   inv.PaymentDate,
		Comment:       inv.Comment,
		Filename:      inv.Filename,
		Overdue:       inv.IsOverdue(),
		Version:       inv.GetVersion(),
	}
	if inv.Customer != nil {
		resp.CustomerName = inv.Customer.Name
	}
	return resp
}

// ToInvoiceResponses converts a slice of invoices
func ToInvoiceResponses(invoices []*invoice.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = ToInvoiceResponse(inv)
	}
	return out
}

// ToInvoiceLines converts calculator lines
func ToInvoiceLines(entries []*timetracking.Timesheet) []InvoiceLineResponse {
	lines := make([]InvoiceLineResponse, len(entries))
	for i, e := range entries {
		line := InvoiceLineResponse{
			Begin:       e.Begin,
			End:         e.End,
			Duration:    e.Duration,
			Rate:        e.Rate,
			HourlyRate:  e.HourlyRate,
			Description: e.Description,
		}
		if e.Activity != nil {
			line.Activity = e.Activity.Name
		}
		if e.Project != nil {
			line.Project = e.Project.Name
		}
		if e.User != nil {
			line.User = e.User.DisplayName()
		}
		lines[i] = line
	}
	return lines
}
