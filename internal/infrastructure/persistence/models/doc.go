// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Every model converts with ToDomain and a *ModelFromDomain constructor.
// Associations on the models exist for preloading only; they are never
// populated from the domain, so saving a model never writes its relations.
//
// Structure:
//   - base.go: base persistence models (BaseModel, TenantAggregateModel)
//   - meta.go: meta fields stored as a JSON column
//   - identity.go: users
//   - partner.go: customers
//   - timetracking.go: projects, activities and timesheets
//   - invoice.go: invoices and invoice templates
package models
