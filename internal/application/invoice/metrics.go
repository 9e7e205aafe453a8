package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metrics records invoicing activity.
// Implemented by telemetry.InvoiceMetrics.
type Metrics interface {
	RecordInvoiceCreated(ctx context.Context, tenantID uuid.UUID, currency string, total decimal.Decimal)
	RecordInvoicePaid(ctx context.Context, tenantID uuid.UUID, currency string, total decimal.Decimal)
	RecordNumberCollision(ctx context.Context, tenantID uuid.UUID)
	RecordGenerationDuration(ctx context.Context, tenantID uuid.UUID, d time.Duration, success bool)
}
