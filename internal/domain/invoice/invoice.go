package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/shared"
	"github.com/timebill/backend/internal/domain/shared/valueobject"
)

// DefaultDueDays is the payment period of an invoice without template
const DefaultDueDays = 30

// Invoice is an issued bill.
// CreatedAt is the invoice date and stays zero until SetModel populates it.
// ID stays uuid.Nil until the invoice is persisted.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string
	Filename      string
	Status        Status
	DueDate       *time.Time
	DueDays       int
	Currency      valueobject.Currency
	CustomerID    uuid.UUID
	Customer      *partner.Customer
	UserID        uuid.UUID
	User          *identity.User
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Vat           decimal.Decimal
	Total         decimal.Decimal
	PaymentDate   *time.Time
	Comment       string
}

// NewInvoice creates an empty invoice in status new
func NewInvoice(tenantID uuid.UUID) *Invoice {
	return &Invoice{
		TenantAggregateRoot: shared.NewTransientTenantAggregateRoot(tenantID),
		Status:              StatusNew,
		DueDays:             DefaultDueDays,
		Subtotal:            decimal.Zero,
		Tax:                 decimal.Zero,
		Vat:                 decimal.Zero,
		Total:               decimal.Zero,
	}
}

// SetStatus applies a raw status value
func (i *Invoice) SetStatus(raw Status) error {
	status, err := ParseStatus(string(raw))
	if err != nil {
		return err
	}
	i.changeStatus(status)
	return nil
}

// SetIsNew moves the invoice back to new
func (i *Invoice) SetIsNew() {
	i.changeStatus(StatusNew)
}

// SetIsPending marks the invoice as sent and awaiting payment
func (i *Invoice) SetIsPending() {
	i.changeStatus(StatusPending)
}

// SetIsPaid marks the invoice as paid. The payment date is set separately.
func (i *Invoice) SetIsPaid() {
	i.changeStatus(StatusPaid)
}

// SetIsCanceled voids the invoice
func (i *Invoice) SetIsCanceled() {
	i.changeStatus(StatusCanceled)
}

// IsNew returns true if the status is new
func (i *Invoice) IsNew() bool {
	return i.Status == StatusNew
}

// IsPending returns true if the status is pending
func (i *Invoice) IsPending() bool {
	return i.Status == StatusPending
}

// IsPaid returns true if the status is paid
func (i *Invoice) IsPaid() bool {
	return i.Status == StatusPaid
}

// IsCanceled returns true if the status is canceled
func (i *Invoice) IsCanceled() bool {
	return i.Status == StatusCanceled
}

// IsOverdue reports whether an open invoice is past its due date
func (i *Invoice) IsOverdue() bool {
	return i.IsOverdueAt(time.Now())
}

// IsOverdueAt reports whether the invoice is overdue at the given instant
func (i *Invoice) IsOverdueAt(now time.Time) bool {
	if !i.Status.IsOpen() || i.DueDate == nil {
		return false
	}
	return i.DueDate.Before(now)
}

// Gross returns the total in the invoice currency.
// It fails while no currency is set.
func (i *Invoice) Gross() (valueobject.Money, error) {
	return valueobject.NewMoney(i.Total, i.Currency)
}

// SetPaymentDate records when the invoice was paid.
// Any later move away from paid clears it.
func (i *Invoice) SetPaymentDate(date time.Time) {
	i.PaymentDate = &date
	i.touch()
}

// SetComment sets the free-text comment
func (i *Invoice) SetComment(comment string) {
	i.Comment = comment
	i.touch()
}

// SetInvoiceFilename records the file the invoice was rendered to
func (i *Invoice) SetInvoiceFilename(filename string) {
	i.Filename = filename
	i.touch()
}

// SetModel populates the invoice from a fully bound model.
// The number is generated first so a failure leaves the invoice untouched.
func (i *Invoice) SetModel(ctx context.Context, model *Model) error {
	if i.InvoiceNumber != "" {
		return ErrAlreadyNumbered
	}
	if model == nil {
		return shared.NewInvalidArgument("Invoice model is required")
	}
	calculator := model.Calculator()
	generator := model.NumberGenerator()
	if calculator == nil || generator == nil {
		return ErrModelIncomplete
	}

	number, err := generator.Generate(ctx)
	if err != nil {
		return err
	}

	dueDays := i.DueDays
	if template := model.Template(); template != nil {
		dueDays = template.DueDays
	}
	created := model.InvoiceDate()
	dueDate := created.AddDate(0, 0, dueDays)

	i.CreatedAt = created
	i.DueDays = dueDays
	i.DueDate = &dueDate
	i.Currency = model.Currency()
	i.Customer = model.Customer()
	if i.Customer != nil {
		i.CustomerID = i.Customer.ID
	}
	i.User = model.User()
	if i.User != nil {
		i.UserID = i.User.ID
	}
	i.Subtotal = calculator.Subtotal()
	i.Vat = calculator.Vat()
	i.Tax = calculator.Tax()
	i.Total = calculator.Total()
	i.InvoiceNumber = number
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewInvoiceCreatedEvent(i))

	return nil
}

func (i *Invoice) changeStatus(to Status) {
	from := i.Status
	i.Status = to
	if to != StatusPaid {
		i.PaymentDate = nil
	}
	if from == to {
		return
	}
	i.touch()
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, from, to))
}

func (i *Invoice) touch() {
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
