package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/timetracking"
	"github.com/timebill/backend/internal/infrastructure/config"
	"gorm.io/gorm"
)

// newTestDB opens a migrated SQLite database in a temp dir
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "repo.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())
	return db.DB
}

// billingFixture holds one tenant's master data
type billingFixture struct {
	tenantID uuid.UUID
	user     *identity.User
	customer *partner.Customer
	project  *timetracking.Project
	activity *timetracking.Activity
}

func seedBilling(t *testing.T, db *gorm.DB, tenantID uuid.UUID) billingFixture {
	t.Helper()
	ctx := context.Background()

	user, err := identity.NewUser(tenantID, "jdoe")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Save(ctx, user))

	customer, err := partner.NewCustomer(tenantID, "Acme", "EUR")
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(ctx, customer))

	project, err := timetracking.NewProject(tenantID, "Website", customer)
	require.NoError(t, err)
	require.NoError(t, NewGormProjectRepository(db).Save(ctx, project))

	activity, err := timetracking.NewActivity(tenantID, "Development", project)
	require.NoError(t, err)
	require.NoError(t, NewGormActivityRepository(db).Save(ctx, activity))

	return billingFixture{
		tenantID: tenantID,
		user:     user,
		customer: customer,
		project:  project,
		activity: activity,
	}
}

func (f billingFixture) timesheet(t *testing.T, db *gorm.DB, begin time.Time, rate string) *timetracking.Timesheet {
	t.Helper()
	sheet, err := timetracking.NewTimesheet(f.tenantID, f.user, f.project, f.activity, begin)
	require.NoError(t, err)
	require.NoError(t, sheet.SetEnd(begin.Add(time.Hour)))
	sheet.SetRate(decimal.RequireFromString(rate))
	require.NoError(t, NewGormTimesheetRepository(db).Save(context.Background(), sheet))
	return sheet
}

func (f billingFixture) invoice(number string, createdAt time.Time) *invoice.Invoice {
	inv := invoice.NewInvoice(f.tenantID)
	inv.InvoiceNumber = number
	inv.CustomerID = f.customer.ID
	inv.UserID = f.user.ID
	inv.Currency = f.customer.Currency
	inv.CreatedAt = createdAt
	inv.UpdatedAt = createdAt
	due := createdAt.AddDate(0, 0, inv.DueDays)
	inv.DueDate = &due
	inv.Subtotal = decimal.RequireFromString("100")
	inv.Vat = decimal.RequireFromString("19")
	inv.Tax = decimal.RequireFromString("19")
	inv.Total = decimal.RequireFromString("119")
	return inv
}
