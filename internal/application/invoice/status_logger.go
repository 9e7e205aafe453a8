package invoice

import (
	"context"

	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceStatusLogger handles InvoiceStatusChangedEvent.
// It logs every transition and counts paid invoices.
type InvoiceStatusLogger struct {
	metrics Metrics
	logger  *zap.Logger
}

// NewInvoiceStatusLogger creates a new handler for invoice status events.
// metrics may be nil.
func NewInvoiceStatusLogger(metrics Metrics, logger *zap.Logger) *InvoiceStatusLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceStatusLogger{metrics: metrics, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceStatusLogger) EventTypes() []string {
	return []string{invoice.EventTypeInvoiceStatusChanged}
}

// Handle logs the transition
func (h *InvoiceStatusLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*invoice.InvoiceStatusChangedEvent)
	if !ok {
		h.logger.Warn("Unexpected event type",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return nil
	}

	h.logger.Info("Invoice status transition",
		zap.String("tenant_id", changed.TenantID().String()),
		zap.String("invoice_id", changed.AggregateID().String()),
		zap.String("invoice_number", changed.InvoiceNumber),
		zap.String("from", changed.FromStatus.String()),
		zap.String("to", changed.ToStatus.String()),
	)

	if changed.ToStatus == invoice.StatusPaid && h.metrics != nil {
		h.metrics.RecordInvoicePaid(ctx, changed.TenantID(), changed.Currency, changed.Total)
	}
	return nil
}

var _ shared.EventHandler = (*InvoiceStatusLogger)(nil)
