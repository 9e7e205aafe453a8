package shared

import (
	"strings"
	"unicode/utf8"
)

const (
	maxMetaNameLength  = 50
	maxMetaValueLength = 255
)

// MetaField is a custom name/value pair attached to an entity.
// Invisible fields are kept for integrations but hidden from exports.
type MetaField struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Visible bool   `json:"visible"`
}

// NewMetaField creates a validated meta field
func NewMetaField(name, value string, visible bool) (MetaField, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MetaField{}, NewInvalidArgument("Meta field name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxMetaNameLength {
		return MetaField{}, NewInvalidArgument("Meta field name cannot exceed 50 characters")
	}
	if utf8.RuneCountInString(value) > maxMetaValueLength {
		return MetaField{}, NewInvalidArgument("Meta field value cannot exceed 255 characters")
	}
	return MetaField{Name: name, Value: value, Visible: visible}, nil
}

// MetaFields is an ordered set of meta fields keyed by name.
// The zero value is ready to use.
type MetaFields struct {
	fields []MetaField
}

// Set adds the field or replaces the value and visibility of the field
// with the same name, keeping its original position.
func (m *MetaFields) Set(field MetaField) {
	for i := range m.fields {
		if m.fields[i].Name == field.Name {
			m.fields[i] = field
			return
		}
	}
	m.fields = append(m.fields, field)
}

// Get returns the field with the given name
func (m *MetaFields) Get(name string) (MetaField, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f, true
		}
	}
	return MetaField{}, false
}

// Remove deletes the field with the given name, if present
func (m *MetaFields) Remove(name string) {
	for i, f := range m.fields {
		if f.Name == name {
			m.fields = append(m.fields[:i], m.fields[i+1:]...)
			return
		}
	}
}

// All returns a copy of all fields in insertion order
func (m *MetaFields) All() []MetaField {
	out := make([]MetaField, len(m.fields))
	copy(out, m.fields)
	return out
}

// Visible returns the visible fields in insertion order
func (m *MetaFields) Visible() []MetaField {
	out := make([]MetaField, 0, len(m.fields))
	for _, f := range m.fields {
		if f.Visible {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of fields
func (m *MetaFields) Len() int {
	return len(m.fields)
}

// MetaFieldsFrom builds a MetaFields collection from a slice, later
// duplicates overriding earlier ones.
func MetaFieldsFrom(fields []MetaField) MetaFields {
	var m MetaFields
	for _, f := range fields {
		m.Set(f)
	}
	return m
}
