package shared

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetaField(t *testing.T) {
	t.Run("trims name", func(t *testing.T) {
		f, err := NewMetaField("  foo-customer ", "bar-customer", true)
		require.NoError(t, err)
		assert.Equal(t, "foo-customer", f.Name)
		assert.Equal(t, "bar-customer", f.Value)
		assert.True(t, f.Visible)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewMetaField(" ", "x", false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := NewMetaField(strings.Repeat("a", 51), "x", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "50 characters")
	})

	t.Run("value too long", func(t *testing.T) {
		_, err := NewMetaField("a", strings.Repeat("v", 256), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "255 characters")
	})
}

func TestMetaFields(t *testing.T) {
	var m MetaFields
	m.Set(MetaField{Name: "a", Value: "1", Visible: true})
	m.Set(MetaField{Name: "b", Value: "2"})
	m.Set(MetaField{Name: "c", Value: "3", Visible: true})

	t.Run("keeps insertion order", func(t *testing.T) {
		all := m.All()
		require.Len(t, all, 3)
		assert.Equal(t, "a", all[0].Name)
		assert.Equal(t, "b", all[1].Name)
		assert.Equal(t, "c", all[2].Name)
	})

	t.Run("replace keeps position", func(t *testing.T) {
		m.Set(MetaField{Name: "a", Value: "10", Visible: false})
		all := m.All()
		assert.Equal(t, "a", all[0].Name)
		assert.Equal(t, "10", all[0].Value)
		assert.Equal(t, 3, m.Len())
	})

	t.Run("visible filter", func(t *testing.T) {
		visible := m.Visible()
		require.Len(t, visible, 1)
		assert.Equal(t, "c", visible[0].Name)
	})

	t.Run("get and remove", func(t *testing.T) {
		f, ok := m.Get("b")
		assert.True(t, ok)
		assert.Equal(t, "2", f.Value)

		m.Remove("b")
		_, ok = m.Get("b")
		assert.False(t, ok)
		assert.Equal(t, 2, m.Len())
	})

	t.Run("All returns a copy", func(t *testing.T) {
		all := m.All()
		all[0].Value = "changed"
		f, _ := m.Get("a")
		assert.Equal(t, "10", f.Value)
	})
}

func TestDomainError_Is(t *testing.T) {
	err := NewInvalidArgument("Unknown invoice status")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Unknown invoice status", err.Error())
}
