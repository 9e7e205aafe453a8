package models

import (
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/shared/valueobject"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	TenantAggregateModel
	Name     string           `gorm:"type:varchar(150);not null"`
	Number   string           `gorm:"type:varchar(50)"`
	Company  string           `gorm:"type:varchar(100)"`
	VatID    string           `gorm:"type:varchar(50)"`
	Currency string           `gorm:"type:varchar(3);not null"`
	Country  string           `gorm:"type:varchar(2)"`
	Email    string           `gorm:"type:varchar(75)"`
	Comment  string           `gorm:"type:text"`
	Visible  bool             `gorm:"not null"`
	Billable bool             `gorm:"not null"`
	Meta     MetaFieldsColumn `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		Number:              m.Number,
		Company:             m.Company,
		VatID:               m.VatID,
		Currency:            valueobject.Currency(m.Currency),
		Country:             m.Country,
		Email:               m.Email,
		Comment:             m.Comment,
		Visible:             m.Visible,
		Billable:            m.Billable,
		Meta:                m.Meta.toDomain(),
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:     c.Name,
		Number:   c.Number,
		Company:  c.Company,
		VatID:    c.VatID,
		Currency: string(c.Currency),
		Country:  c.Country,
		Email:    c.Email,
		Comment:  c.Comment,
		Visible:  c.Visible,
		Billable: c.Billable,
		Meta:     metaColumn(c.Meta),
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
