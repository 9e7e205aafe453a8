package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// OverdueCounter reports open invoices past their due date, per tenant.
type OverdueCounter interface {
	CountOverdue(ctx context.Context, now time.Time) (map[uuid.UUID]int64, error)
}

// InvoiceMetrics records invoice generation and payment activity.
type InvoiceMetrics struct {
	logger *zap.Logger

	createdTotal       *Counter
	amountCentsTotal   *Counter
	paidTotal          *Counter
	paidCentsTotal     *Counter
	collisionTotal     *Counter
	generationDuration *Histogram
	overdueGauge       *Gauge

	overdue  OverdueCounter
	stopChan chan struct{}
	stopOnce sync.Once
	runOnce  sync.Once
}

// InvoiceMetricsConfig holds configuration for invoice metrics.
type InvoiceMetricsConfig struct {
	Meter   metric.Meter
	Logger  *zap.Logger
	Overdue OverdueCounter
}

// NewInvoiceMetrics creates the invoice instruments on cfg.Meter.
func NewInvoiceMetrics(cfg InvoiceMetricsConfig) (*InvoiceMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &InvoiceMetrics{logger: logger, overdue: cfg.Overdue, stopChan: make(chan struct{})}

	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&m.createdTotal, "timebill_invoice_created_total", "Total number of invoices created", "{invoices}"},
		{&m.amountCentsTotal, "timebill_invoice_amount_cents_total", "Total invoiced gross amount in minor units", "{cents}"},
		{&m.paidTotal, "timebill_invoice_paid_total", "Total number of invoices marked paid", "{invoices}"},
		{&m.paidCentsTotal, "timebill_invoice_paid_cents_total", "Total paid gross amount in minor units", "{cents}"},
		{&m.collisionTotal, "timebill_invoice_number_collision_total", "Invoice numbers taken between lookup and commit", "{collisions}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	m.generationDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "timebill_invoice_generation_duration_seconds",
		Description: "Time to select entries, number and persist an invoice",
		Unit:        "s",
		Boundaries:  GenerationDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	m.overdueGauge, err = NewGauge(cfg.Meter, "timebill_invoice_overdue_count", "Open invoices past their due date", "{invoices}")
	if err != nil {
		return nil, err
	}

	return m, nil
}

func cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// RecordInvoiceCreated counts a persisted invoice and its gross total
func (m *InvoiceMetrics) RecordInvoiceCreated(ctx context.Context, tenantID uuid.UUID, currency string, total decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrTenantID.String(tenantID.String()), AttrCurrency.String(currency)}
	m.createdTotal.Inc(ctx, attrs...)
	if c := cents(total); c > 0 {
		m.amountCentsTotal.Add(ctx, c, attrs...)
	}
}

// RecordInvoicePaid counts an invoice moving to paid
func (m *InvoiceMetrics) RecordInvoicePaid(ctx context.Context, tenantID uuid.UUID, currency string, total decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrTenantID.String(tenantID.String()), AttrCurrency.String(currency)}
	m.paidTotal.Inc(ctx, attrs...)
	if c := cents(total); c > 0 {
		m.paidCentsTotal.Add(ctx, c, attrs...)
	}
}

// RecordNumberCollision counts a rejected save due to a duplicate number
func (m *InvoiceMetrics) RecordNumberCollision(ctx context.Context, tenantID uuid.UUID) {
	m.collisionTotal.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordGenerationDuration records how long CreateInvoice took
func (m *InvoiceMetrics) RecordGenerationDuration(ctx context.Context, tenantID uuid.UUID, d time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.generationDuration.RecordDuration(ctx, d,
		AttrTenantID.String(tenantID.String()),
		AttrOutcome.String(outcome),
	)
}

// CollectOverdue records the overdue gauge once for every tenant
func (m *InvoiceMetrics) CollectOverdue(ctx context.Context, now time.Time) {
	if m.overdue == nil {
		return
	}
	counts, err := m.overdue.CountOverdue(ctx, now)
	if err != nil {
		m.logger.Warn("Failed to count overdue invoices", zap.Error(err))
		return
	}
	for tenantID, n := range counts {
		m.overdueGauge.Record(ctx, n, AttrTenantID.String(tenantID.String()))
	}
}

// StartPeriodicCollection refreshes the overdue gauge every interval until
// Stop is called or ctx ends. Only the first call starts a collector.
func (m *InvoiceMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	m.runOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			m.CollectOverdue(ctx, time.Now())
			for {
				select {
				case <-m.stopChan:
					return
				case <-ctx.Done():
					return
				case <-ticker.C:
					m.CollectOverdue(ctx, time.Now())
				}
			}
		}()
	})
}

// Stop stops the periodic collection.
func (m *InvoiceMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}
