package logger

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey   contextKey = "logger"
	tenantIDKey contextKey = "tenant_id"
	invoiceKey  contextKey = "invoice_number"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithTenantID scopes ctx and its logger to a tenant
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	return WithContext(ctx, FromContext(ctx).With(zap.String("tenant_id", tenantID.String())))
}

// WithInvoiceNumber scopes ctx and its logger to an invoice number
func WithInvoiceNumber(ctx context.Context, number string) context.Context {
	ctx = context.WithValue(ctx, invoiceKey, number)
	return WithContext(ctx, FromContext(ctx).With(zap.String("invoice_number", number)))
}

// TenantID returns the tenant stored in ctx, or uuid.Nil
func TenantID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(tenantIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// InvoiceNumber returns the invoice number stored in ctx
func InvoiceNumber(ctx context.Context) string {
	if n, ok := ctx.Value(invoiceKey).(string); ok {
		return n
	}
	return ""
}

// TraceFields returns trace_id and span_id of the active span, if any
func TraceFields(ctx context.Context) []zap.Field {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	}
}

// L returns the context logger enriched with trace correlation.
//
//	logger.L(ctx).Info("Invoice created", zap.String("total", total))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	if fields := TraceFields(ctx); len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}
