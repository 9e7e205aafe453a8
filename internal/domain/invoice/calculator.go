package invoice

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/timebill/backend/internal/domain/shared/valueobject"
	"github.com/timebill/backend/internal/domain/timetracking"
)

// Calculator ids
const (
	CalculatorDefault  = "default"
	CalculatorShort    = "short"
	CalculatorActivity = "activity"
	CalculatorProject  = "project"
	CalculatorUser     = "user"
	CalculatorDate     = "date"
)

var hundred = decimal.NewFromInt(100)

// Calculator computes the totals of the model it is bound to.
// All amounts are rounded with valueobject.RoundMoney.
type Calculator interface {
	ID() string
	SetModel(model *Model)
	// Entries returns the lines to print, possibly grouped
	Entries() []*timetracking.Timesheet
	Subtotal() decimal.Decimal
	Vat() decimal.Decimal
	Tax() decimal.Decimal
	Total() decimal.Decimal
	// TimeWorked returns the summed duration in seconds
	TimeWorked() int64
}

// NewCalculator returns a fresh calculator for the given id
func NewCalculator(id string) (Calculator, error) {
	switch id {
	case CalculatorDefault:
		return &DefaultCalculator{}, nil
	case CalculatorShort:
		return newGroupingCalculator(CalculatorShort, func(*timetracking.Timesheet) string { return "" }), nil
	case CalculatorActivity:
		return newGroupingCalculator(CalculatorActivity, func(e *timetracking.Timesheet) string { return e.ActivityID.String() }), nil
	case CalculatorProject:
		return newGroupingCalculator(CalculatorProject, func(e *timetracking.Timesheet) string { return e.ProjectID.String() }), nil
	case CalculatorUser:
		return newGroupingCalculator(CalculatorUser, func(e *timetracking.Timesheet) string { return e.UserID.String() }), nil
	case CalculatorDate:
		return newGroupingCalculator(CalculatorDate, func(e *timetracking.Timesheet) string { return e.Begin.Format("2006-01-02") }), nil
	}
	return nil, ErrUnknownCalculator
}

// CalculatorIDs returns the registered calculator ids in sorted order
func CalculatorIDs() []string {
	ids := []string{
		CalculatorDefault, CalculatorShort, CalculatorActivity,
		CalculatorProject, CalculatorUser, CalculatorDate,
	}
	sort.Strings(ids)
	return ids
}

// DefaultCalculator lists every entry as its own line
type DefaultCalculator struct {
	model *Model
}

func (c *DefaultCalculator) ID() string {
	return CalculatorDefault
}

func (c *DefaultCalculator) SetModel(model *Model) {
	c.model = model
}

func (c *DefaultCalculator) Entries() []*timetracking.Timesheet {
	if c.model == nil {
		return nil
	}
	return c.model.Entries()
}

// Subtotal sums the rate of every entry
func (c *DefaultCalculator) Subtotal() decimal.Decimal {
	if c.model == nil {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, e := range c.model.entries {
		sum = sum.Add(e.Rate)
	}
	return valueobject.RoundMoney(sum)
}

// Vat returns the template's VAT percentage
func (c *DefaultCalculator) Vat() decimal.Decimal {
	if c.model == nil || c.model.template == nil {
		return decimal.Zero
	}
	return c.model.template.Vat
}

// Tax returns subtotal * VAT / 100
func (c *DefaultCalculator) Tax() decimal.Decimal {
	vat := c.Vat()
	if vat.IsZero() {
		return decimal.Zero
	}
	return valueobject.RoundMoney(c.Subtotal().Mul(vat).Div(hundred))
}

// Total returns subtotal + tax
func (c *DefaultCalculator) Total() decimal.Decimal {
	return valueobject.RoundMoney(c.Subtotal().Add(c.Tax()))
}

func (c *DefaultCalculator) TimeWorked() int64 {
	if c.model == nil {
		return 0
	}
	var total int64
	for _, e := range c.model.entries {
		total += e.Duration
	}
	return total
}

// groupingCalculator merges entries sharing a key into one line.
// Totals are identical to DefaultCalculator.
type groupingCalculator struct {
	DefaultCalculator
	id  string
	key func(*timetracking.Timesheet) string
}

func newGroupingCalculator(id string, key func(*timetracking.Timesheet) string) *groupingCalculator {
	return &groupingCalculator{id: id, key: key}
}

func (c *groupingCalculator) ID() string {
	return c.id
}

// Entries returns one line per group in order of first appearance.
// A line keeps the first entry's references and begin and the last entry's end.
func (c *groupingCalculator) Entries() []*timetracking.Timesheet {
	if c.model == nil {
		return nil
	}
	groups := make(map[string]*timetracking.Timesheet)
	lines := make([]*timetracking.Timesheet, 0)
	for _, e := range c.model.entries {
		k := c.key(e)
		line, ok := groups[k]
		if !ok {
			line = &timetracking.Timesheet{
				Begin:       e.Begin,
				End:         e.End,
				Duration:    e.Duration,
				Rate:        e.Rate,
				HourlyRate:  e.HourlyRate,
				UserID:      e.UserID,
				User:        e.User,
				ActivityID:  e.ActivityID,
				Activity:    e.Activity,
				ProjectID:   e.ProjectID,
				Project:     e.Project,
				Description: e.Description,
				Billable:    e.Billable,
				Exported:    e.Exported,
			}
			line.TenantID = e.TenantID
			groups[k] = line
			lines = append(lines, line)
			continue
		}
		line.Duration += e.Duration
		line.Rate = line.Rate.Add(e.Rate)
		if e.End != nil {
			line.End = e.End
		}
	}
	return lines
}
