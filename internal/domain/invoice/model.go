package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/shared/valueobject"
	"github.com/timebill/backend/internal/domain/timetracking"
)

// Model is the build context of one invoice. It is created per request,
// handed to the calculator and number generator, and consumed by Invoice.SetModel.
type Model struct {
	tenantID        uuid.UUID
	customer        *partner.Customer
	template        *Template
	user            *identity.User
	invoiceDate     time.Time
	entries         []*timetracking.Timesheet
	query           *Query
	calculator      Calculator
	numberGenerator NumberGenerator
}

// NewModel creates an empty model dated now
func NewModel(tenantID uuid.UUID) *Model {
	return &Model{
		tenantID:    tenantID,
		invoiceDate: time.Now(),
		entries:     make([]*timetracking.Timesheet, 0),
	}
}

// TenantID returns the owning tenant
func (m *Model) TenantID() uuid.UUID {
	return m.tenantID
}

func (m *Model) SetCustomer(customer *partner.Customer) {
	m.customer = customer
}

func (m *Model) Customer() *partner.Customer {
	return m.customer
}

func (m *Model) SetTemplate(template *Template) {
	m.template = template
}

func (m *Model) Template() *Template {
	return m.template
}

func (m *Model) SetUser(user *identity.User) {
	m.user = user
}

func (m *Model) User() *identity.User {
	return m.user
}

func (m *Model) SetInvoiceDate(date time.Time) {
	m.invoiceDate = date
}

func (m *Model) InvoiceDate() time.Time {
	return m.invoiceDate
}

// AddEntries appends entries keeping their order
func (m *Model) AddEntries(entries ...*timetracking.Timesheet) {
	m.entries = append(m.entries, entries...)
}

// Entries returns the raw entries in insertion order
func (m *Model) Entries() []*timetracking.Timesheet {
	out := make([]*timetracking.Timesheet, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Model) SetQuery(query *Query) {
	m.query = query
}

func (m *Model) Query() *Query {
	return m.query
}

// SetCalculator binds the calculator to this model
func (m *Model) SetCalculator(calculator Calculator) {
	m.calculator = calculator
	if calculator != nil {
		calculator.SetModel(m)
	}
}

func (m *Model) Calculator() Calculator {
	return m.calculator
}

// SetNumberGenerator binds the generator to this model
func (m *Model) SetNumberGenerator(generator NumberGenerator) {
	m.numberGenerator = generator
	if generator != nil {
		generator.SetModel(m)
	}
}

func (m *Model) NumberGenerator() NumberGenerator {
	return m.numberGenerator
}

// Currency returns the customer's currency, or empty without customer
func (m *Model) Currency() valueobject.Currency {
	if m.customer == nil {
		return ""
	}
	return m.customer.Currency
}

// DueDate returns the invoice date plus the template's due days
func (m *Model) DueDate() time.Time {
	days := DefaultDueDays
	if m.template != nil {
		days = m.template.DueDays
	}
	return m.invoiceDate.AddDate(0, 0, days)
}
