package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByIDForTenant finds a user by ID within a tenant.
	// Returns nil, nil when no user exists.
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
