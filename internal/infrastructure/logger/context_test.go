package logger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

func TestWithTenantAndInvoice(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	tenantID := uuid.New()
	ctx = WithTenantID(ctx, tenantID)
	ctx = WithInvoiceNumber(ctx, "240301")

	assert.Equal(t, tenantID, TenantID(ctx))
	assert.Equal(t, "240301", InvoiceNumber(ctx))

	L(ctx).Info("Invoice created")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, tenantID.String(), fields["tenant_id"])
	assert.Equal(t, "240301", fields["invoice_number"])
	assert.NotContains(t, fields, "trace_id")
}

func TestEmptyContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, uuid.Nil, TenantID(ctx))
	assert.Empty(t, InvoiceNumber(ctx))
	assert.Nil(t, TraceFields(ctx))
}

func TestTraceFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	core, recorded := observer.New(zapcore.InfoLevel)
	ctx = WithContext(ctx, zap.New(core))
	L(ctx).Info("traced")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
}
