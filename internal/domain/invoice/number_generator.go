package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Number generator ids
const (
	NumberGeneratorDate     = "date"
	NumberGeneratorSequence = "sequence"
)

const (
	// MaxDateSuffix is the highest suffix the date generator appends on collision
	MaxDateSuffix = 99
	// MaxSequenceProbe bounds how many counter values the sequence generator tries
	MaxSequenceProbe = 1000
)

// NumberGenerator produces an invoice number for the model it is bound to
type NumberGenerator interface {
	ID() string
	SetModel(model *Model)
	Generate(ctx context.Context) (string, error)
}

// InvoiceNumberLookup checks whether a number is already used within a tenant
type InvoiceNumberLookup interface {
	HasInvoice(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}

// InvoiceCounter counts the invoices dated in [from, to)
type InvoiceCounter interface {
	CountIssuedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int64, error)
}

// NewNumberGenerator returns a generator for the given id
func NewNumberGenerator(id string, lookup InvoiceNumberLookup, counter InvoiceCounter, prefix string) (NumberGenerator, error) {
	switch id {
	case NumberGeneratorDate:
		return NewDateNumberGenerator(lookup), nil
	case NumberGeneratorSequence:
		return NewSequenceNumberGenerator(lookup, counter, prefix), nil
	}
	return nil, ErrUnknownNumberGenerator
}

// NumberGeneratorIDs returns the registered generator ids
func NumberGeneratorIDs() []string {
	return []string{NumberGeneratorDate, NumberGeneratorSequence}
}

// DateNumberGenerator formats the invoice date as yymmdd.
// Taken numbers get a -2 ... -99 suffix.
type DateNumberGenerator struct {
	lookup InvoiceNumberLookup
	model  *Model
}

// NewDateNumberGenerator creates a DateNumberGenerator
func NewDateNumberGenerator(lookup InvoiceNumberLookup) *DateNumberGenerator {
	return &DateNumberGenerator{lookup: lookup}
}

func (g *DateNumberGenerator) ID() string {
	return NumberGeneratorDate
}

func (g *DateNumberGenerator) SetModel(model *Model) {
	g.model = model
}

// Generate returns the first free candidate
func (g *DateNumberGenerator) Generate(ctx context.Context) (string, error) {
	if g.model == nil {
		return "", ErrModelIncomplete
	}
	base := g.model.InvoiceDate().Format("060102")
	for n := 1; n <= MaxDateSuffix; n++ {
		candidate := base
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d", base, n)
		}
		taken, err := g.lookup.HasInvoice(ctx, g.model.TenantID(), candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check invoice number %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrInvoiceNumberExhausted
}

// SequenceNumberGenerator produces <prefix><yyyy>-<nnnn>, counting per year
type SequenceNumberGenerator struct {
	lookup  InvoiceNumberLookup
	counter InvoiceCounter
	prefix  string
	model   *Model
}

// NewSequenceNumberGenerator creates a SequenceNumberGenerator
func NewSequenceNumberGenerator(lookup InvoiceNumberLookup, counter InvoiceCounter, prefix string) *SequenceNumberGenerator {
	return &SequenceNumberGenerator{lookup: lookup, counter: counter, prefix: prefix}
}

func (g *SequenceNumberGenerator) ID() string {
	return NumberGeneratorSequence
}

func (g *SequenceNumberGenerator) SetModel(model *Model) {
	g.model = model
}

// Generate starts after the number of invoices already issued this year
// and skips values the lookup reports as taken
func (g *SequenceNumberGenerator) Generate(ctx context.Context) (string, error) {
	if g.model == nil {
		return "", ErrModelIncomplete
	}
	// The year is the one of the invoice date in its own location.
	date := g.model.InvoiceDate()
	year := date.Year()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, date.Location())
	issued, err := g.counter.CountIssuedBetween(ctx, g.model.TenantID(), from, from.AddDate(1, 0, 0))
	if err != nil {
		return "", fmt.Errorf("failed to count invoices for %d: %w", year, err)
	}
	for seq := issued + 1; seq <= issued+MaxSequenceProbe; seq++ {
		candidate := fmt.Sprintf("%s%04d-%04d", g.prefix, year, seq)
		taken, err := g.lookup.HasInvoice(ctx, g.model.TenantID(), candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check invoice number %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrInvoiceNumberExhausted
}
