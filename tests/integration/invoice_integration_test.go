package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appinvoice "github.com/timebill/backend/internal/application/invoice"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/timetracking"
	"github.com/timebill/backend/internal/infrastructure/cache"
	"github.com/timebill/backend/internal/infrastructure/event"
	"github.com/timebill/backend/internal/infrastructure/persistence"
	"github.com/timebill/backend/tests/testutil"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var invoiceDate = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type tenantData struct {
	tenantID uuid.UUID
	user     *identity.User
	customer *partner.Customer
	template *invoice.Template
	projects []*timetracking.Project
}

// seedTenant creates one customer with a project per entry set, each project
// holding two billable hours
func seedTenant(t *testing.T, db *gorm.DB, projects int) tenantData {
	t.Helper()
	ctx := context.Background()
	tenantID := uuid.New()

	user, err := identity.NewUser(tenantID, "accountant")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(db).Save(ctx, user))

	customer, err := partner.NewCustomer(tenantID, "Acme", "EUR")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(db).Save(ctx, customer))

	tpl, err := invoice.NewTemplate(tenantID, "Standard")
	require.NoError(t, err)
	require.NoError(t, tpl.SetVat(decimal.RequireFromString("19")))
	require.NoError(t, persistence.NewGormInvoiceTemplateRepository(db).Save(ctx, tpl))

	data := tenantData{tenantID: tenantID, user: user, customer: customer, template: tpl}
	for i := 0; i < projects; i++ {
		project, err := timetracking.NewProject(tenantID, "Project", customer)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormProjectRepository(db).Save(ctx, project))

		activity, err := timetracking.NewActivity(tenantID, "Consulting", project)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormActivityRepository(db).Save(ctx, activity))

		begin := invoiceDate.AddDate(0, 0, -7)
		for _, rate := range []string{"100.00", "33.33"} {
			sheet, err := timetracking.NewTimesheet(tenantID, user, project, activity, begin)
			require.NoError(t, err)
			require.NoError(t, sheet.SetEnd(begin.Add(time.Hour)))
			sheet.SetRate(decimal.RequireFromString(rate))
			require.NoError(t, persistence.NewGormTimesheetRepository(db).Save(ctx, sheet))
			begin = begin.Add(2 * time.Hour)
		}
		data.projects = append(data.projects, project)
	}
	return data
}

func newService(t *testing.T, db *gorm.DB, opts ...appinvoice.InvoiceServiceOption) *appinvoice.InvoiceService {
	t.Helper()
	return appinvoice.NewInvoiceService(
		persistence.NewGormCustomerRepository(db),
		persistence.NewGormUserRepository(db),
		persistence.NewGormInvoiceTemplateRepository(db),
		persistence.NewGormInvoiceRepository(db),
		persistence.NewGormTimesheetRepository(db),
		persistence.NewGormTransactionScope(db),
		zaptest.NewLogger(t),
		opts...,
	)
}

func (d tenantData) request(project int) appinvoice.CreateInvoiceRequest {
	date := invoiceDate
	projectID := d.projects[project].ID
	return appinvoice.CreateInvoiceRequest{
		CustomerID:  d.customer.ID,
		TemplateID:  d.template.ID,
		UserID:      d.user.ID,
		InvoiceDate: &date,
		ProjectID:   &projectID,
	}
}

func TestInvoiceRepository_UniqueNumberPerTenant(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	repo := persistence.NewGormInvoiceRepository(testDB.DB)
	a := seedTenant(t, testDB.DB, 0)
	b := seedTenant(t, testDB.DB, 0)

	newInvoice := func(d tenantData) *invoice.Invoice {
		inv := invoice.NewInvoice(d.tenantID)
		inv.InvoiceNumber = "240315"
		inv.CustomerID = d.customer.ID
		inv.UserID = d.user.ID
		inv.Currency = d.customer.Currency
		inv.CreatedAt = invoiceDate
		return inv
	}

	require.NoError(t, repo.Save(ctx, newInvoice(a)))

	err := repo.Save(ctx, newInvoice(a))
	assert.ErrorIs(t, err, invoice.ErrDuplicateInvoiceNumber)

	assert.NoError(t, repo.Save(ctx, newInvoice(b)))
}

func TestInvoiceService_CreateInvoice_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	data := seedTenant(t, testDB.DB, 1)
	svc := newService(t, testDB.DB)

	resp, err := svc.CreateInvoice(ctx, data.tenantID, data.request(0))
	require.NoError(t, err)

	assert.Equal(t, "240315", resp.InvoiceNumber)
	assert.Equal(t, "133.33", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "25.33", resp.Tax.StringFixed(2))
	assert.Equal(t, "158.66", resp.Total.StringFixed(2))
	assert.Equal(t, string(invoice.StatusNew), resp.Status)

	stored, err := persistence.NewGormInvoiceRepository(testDB.DB).FindByNumber(ctx, data.tenantID, "240315")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Total.Equal(resp.Total))

	t.Run("billed entries are not selected again", func(t *testing.T) {
		_, err := svc.CreateInvoice(ctx, data.tenantID, data.request(0))
		assert.ErrorIs(t, err, invoice.ErrNoBillableEntries)
	})
}

func TestInvoiceService_ConcurrentNumbering(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	const workers = 5

	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	data := seedTenant(t, testDB.DB, workers)

	store := cache.NewInMemoryReservationStore()
	defer store.Close()
	svc := newService(t, testDB.DB, appinvoice.WithReservationStore(store))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]bool)
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(project int) {
			defer wg.Done()
			resp, err := svc.CreateInvoice(ctx, data.tenantID, data.request(project))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[resp.InvoiceNumber] = true
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, workers)
	assert.True(t, numbers["240315"])
	for n := 2; n <= workers; n++ {
		assert.True(t, numbers["240315-"+string(rune('0'+n))], "missing suffix %d", n)
	}

	var count int64
	require.NoError(t, testDB.DB.Table("invoices").Where("tenant_id = ?", data.tenantID).Count(&count).Error)
	assert.Equal(t, int64(workers), count)
}

func TestInvoiceService_ConcurrentCreateOverSharedEntries(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	const workers = 4

	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	data := seedTenant(t, testDB.DB, 1)
	svc := newService(t, testDB.DB)

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.CreateInvoice(ctx, data.tenantID, data.request(0))
		}()
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, timetracking.ErrTimesheetsAlreadyBilled), errors.Is(err, invoice.ErrNoBillableEntries):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)

	var count int64
	require.NoError(t, testDB.DB.Table("invoices").Where("tenant_id = ?", data.tenantID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestInvoiceService_StatusLifecycle_PublishesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	data := seedTenant(t, testDB.DB, 1)

	bus := event.NewInMemoryEventBus(zaptest.NewLogger(t))
	recorder := testutil.NewRecordingHandler()
	bus.Subscribe(recorder)
	svc := newService(t, testDB.DB, appinvoice.WithEventPublisher(bus))

	created, err := svc.CreateInvoice(ctx, data.tenantID, data.request(0))
	require.NoError(t, err)
	require.Len(t, recorder.OfType(invoice.EventTypeInvoiceCreated), 1)
	assert.Equal(t, created.ID, recorder.OfType(invoice.EventTypeInvoiceCreated)[0].AggregateID())

	paidOn := invoiceDate.AddDate(0, 0, 10)
	paid, err := svc.ChangeStatus(ctx, data.tenantID, created.ID, appinvoice.ChangeStatusRequest{
		Status:      string(invoice.StatusPaid),
		PaymentDate: &paidOn,
	})
	require.NoError(t, err)
	assert.Equal(t, string(invoice.StatusPaid), paid.Status)
	require.NotNil(t, paid.PaymentDate)

	changes := recorder.OfType(invoice.EventTypeInvoiceStatusChanged)
	require.Len(t, changes, 1)
	change, ok := changes[0].(*invoice.InvoiceStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, invoice.StatusNew, change.FromStatus)
	assert.Equal(t, invoice.StatusPaid, change.ToStatus)

	stored, err := persistence.NewGormInvoiceRepository(testDB.DB).FindByIDForTenant(ctx, data.tenantID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PaymentDate)
	assert.True(t, stored.PaymentDate.Equal(paidOn))
}
