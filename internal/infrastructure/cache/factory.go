package cache

import (
	"fmt"

	"github.com/timebill/backend/internal/domain/shared"
	"github.com/timebill/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReservationStoreFactory creates reservation stores based on configuration
type ReservationStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReservationStoreFactoryOption is a functional option for configuring the factory
type ReservationStoreFactoryOption func(*ReservationStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ReservationStoreFactoryOption {
	return func(f *ReservationStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory store. Default is true.
func WithInMemoryFallback(allow bool) ReservationStoreFactoryOption {
	return func(f *ReservationStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReservationStoreFactory creates a new factory
func NewReservationStoreFactory(cfg config.RedisConfig, opts ...ReservationStoreFactoryOption) *ReservationStoreFactory {
	f := &ReservationStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStore creates a Redis-backed reservation store
func (f *ReservationStoreFactory) CreateRedisStore() (*RedisReservationStore, error) {
	store, err := NewRedisReservationStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis reservation store: %w", err)
	}
	return store, nil
}

// CreateStore returns a Redis store when Redis is configured and reachable,
// and an in-memory store otherwise (unless fallback is disabled).
// The returned close function releases the store's resources.
func (f *ReservationStoreFactory) CreateStore() (shared.ReservationStore, func() error, error) {
	if f.redisConfig.Addr() == "" {
		f.logger.Info("Redis not configured, using in-memory invoice number reservations")
		store := NewInMemoryReservationStore()
		return store, store.Close, nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("Using Redis invoice number reservations", zap.String("addr", f.redisConfig.Addr()))
		return store, store.Close, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("Redis required for invoice number reservations but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory invoice number reservations. "+
		"Concurrent generators in other processes may pick the same number.",
		zap.Error(err),
	)
	mem := NewInMemoryReservationStore()
	return mem, mem.Close, nil
}
