package models

import "github.com/timebill/backend/internal/domain/shared"

// MetaFieldsColumn holds meta fields as a JSON array in one column
type MetaFieldsColumn []shared.MetaField

func metaColumn(m shared.MetaFields) MetaFieldsColumn {
	return MetaFieldsColumn(m.All())
}

func (c MetaFieldsColumn) toDomain() shared.MetaFields {
	return shared.MetaFieldsFrom(c)
}
