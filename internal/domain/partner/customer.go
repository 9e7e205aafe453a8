package partner

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/shared"
	"github.com/timebill/backend/internal/domain/shared/valueobject"
	"golang.org/x/text/language"
)

const (
	maxCustomerNameLength   = 150
	maxCustomerNumberLength = 50
	maxCompanyLength        = 100
	maxVatIDLength          = 50
)

var customerEmailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// Customer is the party time is billed to
// It is the aggregate root for customer-related operations
type Customer struct {
	shared.TenantAggregateRoot
	Name     string
	Number   string
	Company  string
	VatID    string
	Currency valueobject.Currency
	Country  string // ISO 3166-1 alpha-2
	Email    string
	Comment  string
	Visible  bool
	Billable bool
	Meta     shared.MetaFields
}

// NewCustomer creates a visible, billable customer
func NewCustomer(tenantID uuid.UUID, name, currency string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	cur, err := parseCurrency(currency)
	if err != nil {
		return nil, err
	}

	customer := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Currency:            cur,
		Visible:             true,
		Billable:            true,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// SetName renames the customer
func (c *Customer) SetName(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.touch()
	return nil
}

// SetNumber sets the customer number used for external references
func (c *Customer) SetNumber(number string) error {
	if utf8.RuneCountInString(number) > maxCustomerNumberLength {
		return shared.NewInvalidArgument("Customer number cannot exceed 50 characters")
	}
	c.Number = number
	c.touch()
	return nil
}

// SetCompany sets the legal company name
func (c *Customer) SetCompany(company string) error {
	if utf8.RuneCountInString(company) > maxCompanyLength {
		return shared.NewInvalidArgument("Company cannot exceed 100 characters")
	}
	c.Company = company
	c.touch()
	return nil
}

// SetCurrency sets the billing currency
func (c *Customer) SetCurrency(currency string) error {
	cur, err := parseCurrency(currency)
	if err != nil {
		return err
	}
	c.Currency = cur
	c.touch()
	return nil
}

// SetVatID sets the customer's VAT identification number
func (c *Customer) SetVatID(vatID string) error {
	vatID = strings.TrimSpace(vatID)
	if utf8.RuneCountInString(vatID) > maxVatIDLength {
		return shared.NewInvalidArgument("VAT ID cannot exceed 50 characters")
	}
	c.VatID = vatID
	c.touch()
	return nil
}

// SetCountry sets the country from an ISO 3166-1 region code
func (c *Customer) SetCountry(country string) error {
	if country == "" {
		c.Country = ""
		c.touch()
		return nil
	}
	region, err := language.ParseRegion(country)
	if err != nil || !region.IsCountry() {
		return shared.NewInvalidArgument("Unknown country code")
	}
	c.Country = region.String()
	c.touch()
	return nil
}

// SetEmail sets the customer contact email
func (c *Customer) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !customerEmailRegex.MatchString(email) {
		return shared.NewInvalidArgument("Invalid email format")
	}
	c.Email = email
	c.touch()
	return nil
}

// SetComment sets a free text comment
func (c *Customer) SetComment(comment string) {
	c.Comment = comment
	c.touch()
}

// SetVisible toggles visibility in selections
func (c *Customer) SetVisible(visible bool) {
	c.Visible = visible
	c.touch()
}

// SetBillable toggles whether time for this customer is billed
func (c *Customer) SetBillable(billable bool) {
	c.Billable = billable
	c.touch()
}

// SetMetaField adds or replaces a meta field
func (c *Customer) SetMetaField(name, value string, visible bool) error {
	field, err := shared.NewMetaField(name, value, visible)
	if err != nil {
		return err
	}
	c.Meta.Set(field)
	c.touch()
	return nil
}

// GetMetaField returns the named meta field
func (c *Customer) GetMetaField(name string) (shared.MetaField, bool) {
	return c.Meta.Get(name)
}

// VisibleMetaFields returns the meta fields shown on exports
func (c *Customer) VisibleMetaFields() []shared.MetaField {
	return c.Meta.Visible()
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidArgument("Customer name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCustomerNameLength {
		return shared.NewInvalidArgument("Customer name cannot exceed 150 characters")
	}
	return nil
}

func parseCurrency(code string) (valueobject.Currency, error) {
	cur, err := valueobject.ParseCurrency(code)
	if err != nil {
		return "", shared.NewInvalidArgument(err.Error())
	}
	return cur, nil
}
