package repository

// SortField is a column memos may be ordered by.
type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortTitle     SortField = "title"
	SortDateTo    SortField = "date_to"
	SortCompleted SortField = "completed"
	SortUpdatedAt SortField = "updated_at"
)

// DefaultSortField is used when the caller asks for nothing or for an unknown field.
const DefaultSortField = SortCreatedAt

// ParseSortField maps a client-supplied name onto the allowed columns.
// Unknown names are not an error: they fall back to DefaultSortField.
func ParseSortField(s string) SortField {
	switch f := SortField(s); f {
	case SortCreatedAt, SortTitle, SortDateTo, SortCompleted, SortUpdatedAt:
		return f
	default:
		return DefaultSortField
	}
}

// Column returns the SQL column for f. Unknown values map to the default column
// so that no caller-controlled text ever reaches the query.
func (f SortField) Column() string {
	return string(ParseSortField(string(f)))
}

// SortOrder is the direction of a list ordering.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder returns OrderAsc for "asc" and OrderDesc for anything else.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}

// SQL returns the ORDER BY keyword for o.
func (o SortOrder) SQL() string {
	if o == OrderAsc {
		return "ASC"
	}
	return "DESC"
}
