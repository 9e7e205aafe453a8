package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/timetracking"
)

func TestDefaultCalculator(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	t.Run("no model", func(t *testing.T) {
		c := &DefaultCalculator{}
		assert.True(t, c.Subtotal().IsZero())
		assert.True(t, c.Total().IsZero())
		assert.Nil(t, c.Entries())
		assert.Zero(t, c.TimeWorked())
	})

	t.Run("no entries", func(t *testing.T) {
		m := f.model(t, now, newNumberSet())
		c := m.Calculator()
		assert.True(t, c.Subtotal().IsZero())
		assert.True(t, c.Tax().IsZero())
		assert.True(t, c.Total().IsZero())
		assert.True(t, c.Vat().Equal(decimal.NewFromInt(19)))
	})

	t.Run("no template means no vat", func(t *testing.T) {
		m := NewModel(f.tenantID)
		m.AddEntries(f.entry(t, now, 60, "100"))
		c := &DefaultCalculator{}
		m.SetCalculator(c)
		assert.True(t, c.Vat().IsZero())
		assert.True(t, c.Tax().IsZero())
		assert.Equal(t, "100.00", c.Total().StringFixed(2))
	})

	t.Run("sums rates and rounds half up", func(t *testing.T) {
		m := f.model(t, now, newNumberSet(),
			f.entry(t, now, 3600, "100.005"),
			f.entry(t, now, 1800, "50.00"),
		)
		c := m.Calculator()
		assert.Equal(t, "150.01", c.Subtotal().StringFixed(2))
		// 150.01 * 19 / 100 = 28.5019
		assert.Equal(t, "28.50", c.Tax().StringFixed(2))
		assert.Equal(t, "178.51", c.Total().StringFixed(2))
		assert.Equal(t, int64(5400), c.TimeWorked())
		assert.Len(t, c.Entries(), 2)
	})

	t.Run("tax tie rounds away from zero", func(t *testing.T) {
		require.NoError(t, f.template.SetVat(decimal.NewFromInt(10)))
		defer func() { require.NoError(t, f.template.SetVat(decimal.NewFromInt(19))) }()

		m := f.model(t, now, newNumberSet(), f.entry(t, now, 60, "0.25"))
		c := m.Calculator()
		// 0.25 * 10 / 100 = 0.025
		assert.Equal(t, "0.03", c.Tax().StringFixed(2))
		assert.Equal(t, "0.28", c.Total().StringFixed(2))
	})

	t.Run("negative rates reduce subtotal", func(t *testing.T) {
		m := f.model(t, now, newNumberSet(),
			f.entry(t, now, 3600, "200"),
			f.entry(t, now, 0, "-50"),
		)
		c := m.Calculator()
		assert.Equal(t, "150.00", c.Subtotal().StringFixed(2))
		assert.Equal(t, "28.50", c.Tax().StringFixed(2))
		assert.Equal(t, "178.50", c.Total().StringFixed(2))
	})

	t.Run("total equals subtotal plus tax", func(t *testing.T) {
		m := f.model(t, now, newNumberSet(), f.entry(t, now, 3600, "293.27"))
		c := m.Calculator()
		assert.True(t, c.Total().Equal(c.Subtotal().Add(c.Tax())))
	})
}

func TestNewCalculator(t *testing.T) {
	for _, id := range CalculatorIDs() {
		t.Run(id, func(t *testing.T) {
			c, err := NewCalculator(id)
			require.NoError(t, err)
			assert.Equal(t, id, c.ID())
		})
	}

	_, err := NewCalculator("unknown")
	assert.ErrorIs(t, err, ErrUnknownCalculator)
}

func TestGroupingCalculators(t *testing.T) {
	f := newFixture(t)
	day1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	other, err := identity.NewUser(f.tenantID, "two-user")
	require.NoError(t, err)
	global, err := timetracking.NewActivity(f.tenantID, "support", nil)
	require.NoError(t, err)

	e1 := f.entry(t, day1, 3600, "100")
	e2 := f.entry(t, day1.Add(2*time.Hour), 1800, "50")
	e3, err := timetracking.NewTimesheet(f.tenantID, other, f.project, global, day2)
	require.NoError(t, err)
	require.NoError(t, e3.SetEnd(day2.Add(time.Hour)))
	e3.SetRate(decimal.NewFromInt(75))

	tests := []struct {
		id        string
		lines     int
		firstRate string
	}{
		{CalculatorDefault, 3, "100"},
		{CalculatorShort, 1, "225"},
		{CalculatorActivity, 2, "150"},
		{CalculatorProject, 1, "225"},
		{CalculatorUser, 2, "150"},
		{CalculatorDate, 2, "150"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c, err := NewCalculator(tt.id)
			require.NoError(t, err)

			m := f.model(t, day2, newNumberSet(), e1, e2, e3)
			m.SetCalculator(c)

			lines := c.Entries()
			require.Len(t, lines, tt.lines)
			assert.True(t, lines[0].Rate.Equal(decimal.RequireFromString(tt.firstRate)))
			assert.Equal(t, day1, lines[0].Begin)

			assert.Equal(t, "225.00", c.Subtotal().StringFixed(2))
			assert.Equal(t, "42.75", c.Tax().StringFixed(2))
			assert.Equal(t, "267.75", c.Total().StringFixed(2))
			assert.Equal(t, int64(9000), c.TimeWorked())
		})
	}

	t.Run("grouped line spans first begin to last end", func(t *testing.T) {
		c, err := NewCalculator(CalculatorShort)
		require.NoError(t, err)
		m := f.model(t, day2, newNumberSet(), e1, e2, e3)
		m.SetCalculator(c)

		line := c.Entries()[0]
		assert.Equal(t, day1, line.Begin)
		require.NotNil(t, line.End)
		assert.Equal(t, *e3.End, *line.End)
		assert.Equal(t, int64(9000), line.Duration)
		assert.Equal(t, f.user.ID, line.UserID)
	})

	t.Run("source entries untouched", func(t *testing.T) {
		assert.True(t, e1.Rate.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, int64(3600), e1.Duration)
	})
}
