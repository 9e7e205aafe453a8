package models

import (
	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	TenantID    uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_user_tenant_username,priority:1"`
	Username    string                    `gorm:"type:varchar(180);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	Title       string                    `gorm:"type:varchar(50)"`
	Alias       string                    `gorm:"type:varchar(60)"`
	Email       string                    `gorm:"type:varchar(180)"`
	Enabled     bool                      `gorm:"not null"`
	Preferences []identity.UserPreference `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	prefs := m.Preferences
	if prefs == nil {
		prefs = make([]identity.UserPreference, 0)
	}
	return &identity.User{
		TenantAggregateRoot: m.tenantRoot(m.TenantID),
		Username:            m.Username,
		Title:               m.Title,
		Alias:               m.Alias,
		Email:               m.Email,
		Enabled:             m.Enabled,
		Preferences:         prefs,
	}
}

// UserModelFromDomain creates a persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		TenantID:    u.TenantID,
		Username:    u.Username,
		Title:       u.Title,
		Alias:       u.Alias,
		Email:       u.Email,
		Enabled:     u.Enabled,
		Preferences: u.Preferences,
	}
	m.fromTenantRoot(u.TenantAggregateRoot)
	return m
}
