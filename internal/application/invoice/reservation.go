package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/shared"
)

// reservingLookup treats a number as taken when it is persisted or claimed
// by a concurrent request. Free numbers are claimed as they are found.
type reservingLookup struct {
	repo     invoice.InvoiceNumberLookup
	store    shared.ReservationStore
	ttl      time.Duration
	reserved []string
}

func newReservingLookup(repo invoice.InvoiceNumberLookup, store shared.ReservationStore, ttl time.Duration) *reservingLookup {
	return &reservingLookup{repo: repo, store: store, ttl: ttl}
}

// HasInvoice implements invoice.InvoiceNumberLookup
func (l *reservingLookup) HasInvoice(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	exists, err := l.repo.HasInvoice(ctx, tenantID, number)
	if err != nil || exists {
		return exists, err
	}
	if l.store == nil {
		return false, nil
	}

	key := reservationKey(tenantID, number)
	acquired, err := l.store.Reserve(ctx, key, l.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to reserve invoice number: %w", err)
	}
	if !acquired {
		return true, nil
	}
	l.reserved = append(l.reserved, key)
	return false, nil
}

// release drops every claim made through this lookup
func (l *reservingLookup) release(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	var firstErr error
	for _, key := range l.reserved {
		if err := l.store.Release(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.reserved = nil
	return firstErr
}

func reservationKey(tenantID uuid.UUID, number string) string {
	return tenantID.String() + ":" + number
}
