package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	db := NewMockDB(t)
	require.NotNil(t, db.DB)
	db.ExpectationsWereMet(t)
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("tenant"), NewTestUUID("tenant"))
	assert.NotEqual(t, NewTestUUID("tenant"), NewTestUUID("user"))
}

func TestWaitForCondition(t *testing.T) {
	start := time.Now()
	ok := WaitForCondition(t, func() bool {
		return time.Since(start) > 20*time.Millisecond
	}, time.Second, 5*time.Millisecond)
	assert.True(t, ok)

	assert.False(t, WaitForCondition(t, func() bool { return false }, 20*time.Millisecond, 5*time.Millisecond))
}

func TestRecordingHandler(t *testing.T) {
	tenantID := uuid.New()
	h := NewRecordingHandler("InvoiceCreated")
	assert.Equal(t, []string{"InvoiceCreated"}, h.EventTypes())

	require.NoError(t, h.Handle(context.Background(), NewTestEvent("InvoiceCreated", tenantID)))
	require.NoError(t, h.Handle(context.Background(), NewTestEvent("InvoiceStatusChanged", tenantID)))

	assert.Equal(t, 2, h.HandledCount())
	assert.Len(t, h.OfType("InvoiceCreated"), 1)
	assert.Equal(t, tenantID, h.Handled()[0].TenantID())

	boom := errors.New("boom")
	h.SetError(boom)
	assert.ErrorIs(t, h.Handle(context.Background(), NewTestEvent("x", tenantID)), boom)
	assert.True(t, WaitForEventCount(t, h, 3, 10*time.Millisecond))
}
