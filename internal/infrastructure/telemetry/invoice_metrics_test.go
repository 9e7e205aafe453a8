package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebill/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type overdueStub struct {
	counts map[uuid.UUID]int64
	err    error
}

func (s overdueStub) CountOverdue(context.Context, time.Time) (map[uuid.UUID]int64, error) {
	return s.counts, s.err
}

func newRecordedMetrics(t *testing.T, overdue telemetry.OverdueCounter) (*telemetry.InvoiceMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewInvoiceMetrics(telemetry.InvoiceMetricsConfig{
		Meter:   provider.Meter("test"),
		Overdue: overdue,
	})
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewInvoiceMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewInvoiceMetrics(telemetry.InvoiceMetricsConfig{})
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Nil(t, m)
}

func TestInvoiceMetrics_NoopMeter(t *testing.T) {
	m, err := telemetry.NewInvoiceMetrics(telemetry.InvoiceMetricsConfig{Meter: noop.NewMeterProvider().Meter("test")})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		ctx := context.Background()
		m.RecordInvoiceCreated(ctx, uuid.New(), "EUR", decimal.NewFromInt(10))
		m.RecordInvoicePaid(ctx, uuid.New(), "EUR", decimal.NewFromInt(10))
		m.RecordNumberCollision(ctx, uuid.New())
		m.RecordGenerationDuration(ctx, uuid.New(), time.Millisecond, true)
		m.CollectOverdue(ctx, time.Now())
	})
}

func TestInvoiceMetrics_Recording(t *testing.T) {
	m, reader := newRecordedMetrics(t, nil)
	ctx := context.Background()
	tenantID := uuid.New()

	m.RecordInvoiceCreated(ctx, tenantID, "USD", decimal.RequireFromString("348.99"))
	m.RecordInvoiceCreated(ctx, tenantID, "USD", decimal.RequireFromString("-12.50"))
	m.RecordInvoicePaid(ctx, tenantID, "USD", decimal.RequireFromString("348.99"))
	m.RecordNumberCollision(ctx, tenantID)
	m.RecordGenerationDuration(ctx, tenantID, 40*time.Millisecond, true)
	m.RecordGenerationDuration(ctx, tenantID, 10*time.Millisecond, false)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data["timebill_invoice_created_total"]))
	assert.Equal(t, int64(34899), sumOf(t, data["timebill_invoice_amount_cents_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["timebill_invoice_paid_total"]))
	assert.Equal(t, int64(34899), sumOf(t, data["timebill_invoice_paid_cents_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["timebill_invoice_number_collision_total"]))

	hist, ok := data["timebill_invoice_generation_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestInvoiceMetrics_CollectOverdue(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	m, reader := newRecordedMetrics(t, overdueStub{counts: map[uuid.UUID]int64{a: 3, b: 1}})

	m.CollectOverdue(context.Background(), time.Now())

	gauge, ok := collect(t, reader)["timebill_invoice_overdue_count"].(metricdata.Gauge[int64])
	require.True(t, ok)
	values := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		v, _ := dp.Attributes.Value(telemetry.AttrTenantID)
		values[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{a.String(): 3, b.String(): 1}, values)
}

func TestInvoiceMetrics_CollectOverdueError(t *testing.T) {
	m, reader := newRecordedMetrics(t, overdueStub{err: errors.New("db down")})

	m.CollectOverdue(context.Background(), time.Now())

	assert.NotContains(t, collect(t, reader), "timebill_invoice_overdue_count")
}

func TestInvoiceMetrics_PeriodicCollection(t *testing.T) {
	tenantID := uuid.New()
	m, reader := newRecordedMetrics(t, overdueStub{counts: map[uuid.UUID]int64{tenantID: 2}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartPeriodicCollection(ctx, time.Hour)
	defer m.Stop()

	assert.Eventually(t, func() bool {
		_, ok := collect(t, reader)["timebill_invoice_overdue_count"]
		return ok
	}, time.Second, 10*time.Millisecond)

	m.Stop()
	assert.NotPanics(t, m.Stop)
}
