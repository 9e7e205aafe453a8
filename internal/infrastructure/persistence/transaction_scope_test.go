package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appinvoice "github.com/timebill/backend/internal/application/invoice"
	"github.com/timebill/backend/internal/domain/timetracking"
)

func TestGormTransactionScope(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedBilling(t, db, uuid.New())
	scope := NewGormTransactionScope(db)
	sheet := f.timesheet(t, db, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC), "100")

	t.Run("rolls back invoice and exported flags together", func(t *testing.T) {
		boom := errors.New("boom")
		err := scope.Execute(ctx, func(repos appinvoice.TransactionalRepositories) error {
			if err := repos.InvoiceRepo().Save(ctx, f.invoice("240301", invoiceDay)); err != nil {
				return err
			}
			if err := repos.TimesheetRepo().MarkExported(ctx, f.tenantID, []uuid.UUID{sheet.ID}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		exists, err := NewGormInvoiceRepository(db).HasInvoice(ctx, f.tenantID, "240301")
		require.NoError(t, err)
		assert.False(t, exists)

		sheets, err := NewGormTimesheetRepository(db).FindForInvoice(ctx, f.tenantID, timetracking.InvoiceCriteria{})
		require.NoError(t, err)
		assert.Len(t, sheets, 1)
	})

	t.Run("commits on success", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appinvoice.TransactionalRepositories) error {
			if err := repos.InvoiceRepo().Save(ctx, f.invoice("240301", invoiceDay)); err != nil {
				return err
			}
			return repos.TimesheetRepo().MarkExported(ctx, f.tenantID, []uuid.UUID{sheet.ID})
		})
		require.NoError(t, err)

		exists, err := NewGormInvoiceRepository(db).HasInvoice(ctx, f.tenantID, "240301")
		require.NoError(t, err)
		assert.True(t, exists)

		sheets, err := NewGormTimesheetRepository(db).FindForInvoice(ctx, f.tenantID, timetracking.InvoiceCriteria{})
		require.NoError(t, err)
		assert.Empty(t, sheets)
	})
}
