package timetracking

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/shared"
)

const (
	maxNameLength        = 150
	maxOrderNumberLength = 50
)

// Project groups activities and timesheets for one customer
type Project struct {
	shared.TenantAggregateRoot
	Name        string
	CustomerID  uuid.UUID
	Customer    *partner.Customer
	OrderNumber string
	Comment     string
	Visible     bool
	Billable    bool
	Meta        shared.MetaFields
}

// NewProject creates a visible, billable project for the customer
func NewProject(tenantID uuid.UUID, name string, customer *partner.Customer) (*Project, error) {
	if err := validateName("Project", name); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewInvalidArgument("Project requires a customer")
	}

	p := &Project{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Visible:             true,
		Billable:            true,
	}
	p.SetCustomer(customer)
	return p, nil
}

// SetCustomer binds the project to the customer
func (p *Project) SetCustomer(customer *partner.Customer) {
	p.Customer = customer
	if customer != nil {
		p.CustomerID = customer.ID
	} else {
		p.CustomerID = uuid.Nil
	}
	p.touch()
}

// SetName renames the project
func (p *Project) SetName(name string) error {
	if err := validateName("Project", name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.touch()
	return nil
}

// SetOrderNumber sets the customer's purchase order number
func (p *Project) SetOrderNumber(number string) error {
	if utf8.RuneCountInString(number) > maxOrderNumberLength {
		return shared.NewInvalidArgument("Order number cannot exceed 50 characters")
	}
	p.OrderNumber = number
	p.touch()
	return nil
}

// SetMetaField adds or replaces a meta field
func (p *Project) SetMetaField(name, value string, visible bool) error {
	field, err := shared.NewMetaField(name, value, visible)
	if err != nil {
		return err
	}
	p.Meta.Set(field)
	p.touch()
	return nil
}

func (p *Project) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateName(kind, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidArgument(kind + " name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewInvalidArgument(kind + " name cannot exceed 150 characters")
	}
	return nil
}
