package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appinvoice "github.com/timebill/backend/internal/application/invoice"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/timetracking"
	"github.com/timebill/backend/internal/infrastructure/persistence/models"
	"github.com/timebill/backend/tests/testutil"
	"go.uber.org/zap/zaptest"
)

// selectionBarrier holds every caller after selecting entries until all callers have selected
type selectionBarrier struct {
	*GormTimesheetRepository
	selected sync.WaitGroup
}

func (b *selectionBarrier) FindForInvoice(ctx context.Context, tenantID uuid.UUID, criteria timetracking.InvoiceCriteria) ([]*timetracking.Timesheet, error) {
	sheets, err := b.GormTimesheetRepository.FindForInvoice(ctx, tenantID, criteria)
	b.selected.Done()
	b.selected.Wait()
	return sheets, err
}

func TestMarkExported_GuardsOnExportedFlag(t *testing.T) {
	db := testutil.NewMockDB(t)
	repo := NewGormTimesheetRepository(db.DB)
	tenantID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("succeeds when every row is claimed", func(t *testing.T) {
		db.Mock.ExpectExec(`UPDATE "timesheets" SET .* WHERE .*tenant_id = .*exported = `).
			WillReturnResult(sqlmock.NewResult(0, 2))

		require.NoError(t, repo.MarkExported(context.Background(), tenantID, ids))
		db.ExpectationsWereMet(t)
	})

	t.Run("fails when another transaction claimed a row first", func(t *testing.T) {
		db.Mock.ExpectExec(`UPDATE "timesheets" SET .* WHERE .*exported = `).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkExported(context.Background(), tenantID, ids)
		assert.ErrorIs(t, err, timetracking.ErrTimesheetsAlreadyBilled)
		db.ExpectationsWereMet(t)
	})
}

func TestInvoiceService_ConcurrentCreateBillsEntryOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedBilling(t, db, uuid.New())
	f.timesheet(t, db, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC), "100")

	template, err := invoice.NewTemplate(f.tenantID, "Standard")
	require.NoError(t, err)
	require.NoError(t, NewGormInvoiceTemplateRepository(db).Save(ctx, template))

	const workers = 2
	sheets := &selectionBarrier{GormTimesheetRepository: NewGormTimesheetRepository(db)}
	sheets.selected.Add(workers)

	service := appinvoice.NewInvoiceService(
		NewGormCustomerRepository(db),
		NewGormUserRepository(db),
		NewGormInvoiceTemplateRepository(db),
		NewGormInvoiceRepository(db),
		sheets,
		NewGormTransactionScope(db),
		zaptest.NewLogger(t),
	)
	req := appinvoice.CreateInvoiceRequest{
		CustomerID: f.customer.ID,
		TemplateID: template.ID,
		UserID:     f.user.ID,
	}

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = service.CreateInvoice(ctx, f.tenantID, req)
		}()
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, timetracking.ErrTimesheetsAlreadyBilled)
	}
	assert.Equal(t, 1, created)

	var stored int64
	require.NoError(t, db.Model(&models.InvoiceModel{}).Where("tenant_id = ?", f.tenantID).Count(&stored).Error)
	assert.Equal(t, int64(1), stored)

	open, err := NewGormTimesheetRepository(db).FindForInvoice(ctx, f.tenantID, timetracking.InvoiceCriteria{})
	require.NoError(t, err)
	assert.Empty(t, open)
}
