package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebill/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, telemetry.Config{Enabled: false, ServiceName: "timebill"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, providers.Tracer.IsEnabled())
	assert.False(t, providers.Meter.IsEnabled())
	assert.False(t, providers.Logs.IsEnabled())
	assert.NotNil(t, providers.Tracer.Tracer("test"))
	assert.NotNil(t, providers.Meter.Meter("test"))

	base := zap.NewNop()
	assert.Same(t, base, providers.Logs.Bridge(base, zap.InfoLevel))

	assert.NoError(t, providers.Shutdown(ctx))
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := telemetry.DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.NoError(t, telemetry.RegisterDBTracing(nil, cfg, nil))
}
