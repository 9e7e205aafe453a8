package shared

import (
	"context"
	"time"
)

// ReservationStore holds short-lived exclusive claims on keys.
// It lets concurrent processes agree on who may use a value (such as an
// invoice number) before the value is persisted.
type ReservationStore interface {
	// Reserve claims key for ttl.
	// Returns true if the claim was acquired, false if someone else holds it.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsReserved checks whether key is currently claimed
	IsReserved(ctx context.Context, key string) (bool, error)

	// Release drops the claim on key
	Release(ctx context.Context, key string) error
}
