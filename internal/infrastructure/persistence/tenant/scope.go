// Package tenant scopes GORM queries to a single tenant.
//
//	db.Scopes(tenant.Scope(tenantID)).Find(&invoices)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column is the tenant column present on every tenant-owned table
const Column = "tenant_id"

// ErrTenantIDRequired is returned when a query is scoped to uuid.Nil
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Scope restricts a query to tenantID. Scoping to uuid.Nil fails the
// statement instead of silently matching rows of every tenant.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(Column+" = ?", tenantID)
	}
}

// ScopeIDs restricts a query to tenantID and the given primary keys
func ScopeIDs(tenantID uuid.UUID, ids []uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return Scope(tenantID)(db).Where("id IN ?", ids)
	}
}
