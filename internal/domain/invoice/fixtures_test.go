package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/timetracking"
)

// numberSet is an in-memory InvoiceNumberLookup and InvoiceCounter
type numberSet struct {
	numbers map[string]bool
	issued  int64
	err     error
	calls   int
	from    time.Time
	to      time.Time
}

func newNumberSet(numbers ...string) *numberSet {
	s := &numberSet{numbers: make(map[string]bool)}
	for _, n := range numbers {
		s.numbers[n] = true
	}
	return s
}

func (s *numberSet) HasInvoice(_ context.Context, _ uuid.UUID, number string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.numbers[number], nil
}

func (s *numberSet) CountIssuedBetween(_ context.Context, _ uuid.UUID, from, to time.Time) (int64, error) {
	s.from, s.to = from, to
	if s.err != nil {
		return 0, s.err
	}
	return s.issued, nil
}

type fixture struct {
	tenantID uuid.UUID
	customer *partner.Customer
	project  *timetracking.Project
	activity *timetracking.Activity
	user     *identity.User
	template *Template
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tenantID := uuid.New()

	user, err := identity.NewUser(tenantID, "one-user")
	require.NoError(t, err)
	require.NoError(t, user.SetTitle("user title"))
	require.NoError(t, user.SetAlias("genious alias"))
	require.NoError(t, user.SetEmail("fantastic@four"))
	require.NoError(t, user.AddPreference(identity.UserPreference{Name: "kitty", Value: "kat"}))

	customer, err := partner.NewCustomer(tenantID, "customer,with/special#name", "USD")
	require.NoError(t, err)
	require.NoError(t, customer.SetMetaField("foo-customer", "bar-customer", true))
	require.NoError(t, customer.SetVatID("kjuo8967"))

	template, err := NewTemplate(tenantID, "test")
	require.NoError(t, err)
	template.SetTitle("a test invoice template title")
	require.NoError(t, template.SetVat(decimal.NewFromInt(19)))
	require.NoError(t, template.SetDueDays(9))

	project, err := timetracking.NewProject(tenantID, "project name", customer)
	require.NoError(t, err)
	activity, err := timetracking.NewActivity(tenantID, "activity description", project)
	require.NoError(t, err)

	return &fixture{
		tenantID: tenantID,
		customer: customer,
		project:  project,
		activity: activity,
		user:     user,
		template: template,
	}
}

func (f *fixture) entry(t *testing.T, begin time.Time, seconds int64, rate string) *timetracking.Timesheet {
	t.Helper()
	ts, err := timetracking.NewTimesheet(f.tenantID, f.user, f.project, f.activity, begin)
	require.NoError(t, err)
	require.NoError(t, ts.SetEnd(begin.Add(time.Duration(seconds)*time.Second)))
	ts.SetRate(decimal.RequireFromString(rate))
	return ts
}

func (f *fixture) model(t *testing.T, date time.Time, lookup InvoiceNumberLookup, entries ...*timetracking.Timesheet) *Model {
	t.Helper()
	m := NewModel(f.tenantID)
	m.SetCustomer(f.customer)
	m.SetTemplate(f.template)
	m.SetUser(f.user)
	m.SetInvoiceDate(date)
	m.AddEntries(entries...)
	m.SetQuery(&Query{ActivityID: &f.activity.ID})
	m.SetCalculator(&DefaultCalculator{})
	m.SetNumberGenerator(NewDateNumberGenerator(lookup))
	return m
}
