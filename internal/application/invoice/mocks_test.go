package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/shared"
	"github.com/timebill/backend/internal/domain/timetracking"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockTemplateRepository is a mock implementation of TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Template, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *invoice.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) HasInvoice(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) CountIssuedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter invoice.InvoiceFilter) ([]*invoice.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*invoice.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

// MockTimesheetRepository is a mock implementation of TimesheetRepository
type MockTimesheetRepository struct {
	mock.Mock
}

func (m *MockTimesheetRepository) FindForInvoice(ctx context.Context, tenantID uuid.UUID, criteria timetracking.InvoiceCriteria) ([]*timetracking.Timesheet, error) {
	args := m.Called(ctx, tenantID, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*timetracking.Timesheet), args.Error(1)
}

func (m *MockTimesheetRepository) MarkExported(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, tenantID, ids)
	return args.Error(0)
}

func (m *MockTimesheetRepository) Save(ctx context.Context, timesheet *timetracking.Timesheet) error {
	args := m.Called(ctx, timesheet)
	return args.Error(0)
}

// MockReservationStore is a mock implementation of ReservationStore
type MockReservationStore struct {
	mock.Mock
}

func (m *MockReservationStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationStore) IsReserved(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockMetrics is a mock implementation of Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordInvoiceCreated(ctx context.Context, tenantID uuid.UUID, currency string, total decimal.Decimal) {
	m.Called(ctx, tenantID, currency, total)
}

func (m *MockMetrics) RecordInvoicePaid(ctx context.Context, tenantID uuid.UUID, currency string, total decimal.Decimal) {
	m.Called(ctx, tenantID, currency, total)
}

func (m *MockMetrics) RecordNumberCollision(ctx context.Context, tenantID uuid.UUID) {
	m.Called(ctx, tenantID)
}

func (m *MockMetrics) RecordGenerationDuration(ctx context.Context, tenantID uuid.UUID, d time.Duration, success bool) {
	m.Called(ctx, tenantID, d, success)
}
