package invoice

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timebill/backend/internal/domain/shared"
	"golang.org/x/text/language"
)

const (
	maxTemplateNameLength = 60
	maxVatIDLength        = 50
)

// Template holds the issuer details and billing rules applied to an invoice
type Template struct {
	shared.TenantAggregateRoot
	Name         string
	Title        string
	Company      string
	Address      string
	PaymentTerms string
	VatID        string
	DueDays      int
	Vat          decimal.Decimal
	Calculator   string
	Language     string
}

// NewTemplate creates a template with 30 due days, no VAT and the default calculator
func NewTemplate(tenantID uuid.UUID, name string) (*Template, error) {
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}
	return &Template{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		DueDays:             DefaultDueDays,
		Vat:                 decimal.Zero,
		Calculator:          CalculatorDefault,
		Language:            language.English.String(),
	}, nil
}

// SetName renames the template
func (t *Template) SetName(name string) error {
	if err := validateTemplateName(name); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(name)
	t.touch()
	return nil
}

// SetTitle sets the heading printed on invoices
func (t *Template) SetTitle(title string) {
	t.Title = title
	t.touch()
}

// SetCompany sets the issuing company
func (t *Template) SetCompany(company string) {
	t.Company = company
	t.touch()
}

// SetAddress sets the issuer address
func (t *Template) SetAddress(address string) {
	t.Address = address
	t.touch()
}

// SetPaymentTerms sets the payment terms text
func (t *Template) SetPaymentTerms(terms string) {
	t.PaymentTerms = terms
	t.touch()
}

// SetVatID sets the issuer's VAT identification number
func (t *Template) SetVatID(vatID string) error {
	if utf8.RuneCountInString(vatID) > maxVatIDLength {
		return shared.NewInvalidArgument("VAT ID cannot exceed 50 characters")
	}
	t.VatID = vatID
	t.touch()
	return nil
}

// SetDueDays sets the payment period in days
func (t *Template) SetDueDays(days int) error {
	if days < 0 {
		return shared.NewInvalidArgument("Due days cannot be negative")
	}
	t.DueDays = days
	t.touch()
	return nil
}

// SetVat sets the VAT percentage
func (t *Template) SetVat(vat decimal.Decimal) error {
	if vat.IsNegative() {
		return shared.NewInvalidArgument("VAT cannot be negative")
	}
	t.Vat = vat
	t.touch()
	return nil
}

// SetCalculator selects a registered calculator
func (t *Template) SetCalculator(id string) error {
	if _, err := NewCalculator(id); err != nil {
		return err
	}
	t.Calculator = id
	t.touch()
	return nil
}

// SetLanguage sets the BCP 47 language invoices are rendered in
func (t *Template) SetLanguage(tag string) error {
	parsed, err := language.Parse(tag)
	if err != nil {
		return shared.NewInvalidArgument("Unknown language: " + tag)
	}
	t.Language = parsed.String()
	t.touch()
	return nil
}

func (t *Template) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

func validateTemplateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidArgument("Template name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLength {
		return shared.NewInvalidArgument("Template name cannot exceed 60 characters")
	}
	return nil
}
