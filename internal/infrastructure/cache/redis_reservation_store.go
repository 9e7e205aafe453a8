package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/timebill/backend/internal/domain/shared"
)

// DefaultReservationKeyPrefix namespaces invoice number claims in Redis
const DefaultReservationKeyPrefix = "timebill:invoice-number:"

// RedisReservationStore implements ReservationStore using Redis.
// Every process generating invoices for the same database must point at the
// same Redis so their number claims are visible to each other.
type RedisReservationStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisReservationStore connects to Redis and verifies the connection
func NewRedisReservationStore(cfg RedisConfig) (*RedisReservationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReservationStore{
		client:    client,
		keyPrefix: DefaultReservationKeyPrefix,
	}, nil
}

// NewRedisReservationStoreWithClient creates a store with an existing Redis client
func NewRedisReservationStoreWithClient(client *redis.Client, keyPrefix string) *RedisReservationStore {
	if keyPrefix == "" {
		keyPrefix = DefaultReservationKeyPrefix
	}
	return &RedisReservationStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Reserve claims key for ttl with SETNX.
// Returns false if the key is already claimed.
func (s *RedisReservationStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve %q: %w", key, err)
	}
	return ok, nil
}

// IsReserved checks if key is currently claimed
func (s *RedisReservationStore) IsReserved(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check reservation %q: %w", key, err)
	}
	return n > 0, nil
}

// Release drops the claim on key. Releasing an unclaimed key is not an error.
func (s *RedisReservationStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release reservation %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisReservationStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client
func (s *RedisReservationStore) GetClient() *redis.Client {
	return s.client
}

var _ shared.ReservationStore = (*RedisReservationStore)(nil)
