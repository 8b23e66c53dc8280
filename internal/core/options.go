package core

// options.go declares per-column load rules. Sheets are free-form, but
// well-known task columns get declared kinds and enum constraints so
// edits can be validated instead of accepted blindly.

import "strings"

// Well-known task sheet columns.
const (
	ColumnTaskName   = "Task Name"
	ColumnAssignee   = "Assignee"
	ColumnStatus     = "Status"
	ColumnComments   = "Comments"
	ColumnPlannedEnd = "Planned End"
	ColumnActualEnd  = "Actual End"
)

// Task status values, in display order.
const (
	StatusPending   = "Pending"
	StatusInProcess = "In process"
	StatusCompleted = "Completed"
)

// ColumnKind is the declared or inferred type of a column.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindDate
	KindEnum
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindEnum:
		return "enum"
	default:
		return "text"
	}
}

// ColumnSpec declares the kind of a named column ahead of loading.
// EnumValues is the fixed, ordered allowed-value set for KindEnum.
type ColumnSpec struct {
	Name       string
	Kind       ColumnKind
	EnumValues []string
}

// Options controls how raw sheet data is turned into a Table.
type Options struct {
	// Columns declares kinds for known column names (matched
	// case-insensitively). Undeclared columns are inferred from the
	// first non-null cell.
	Columns []ColumnSpec

	// IDColumns lists candidate natural-key columns, tried in order. A
	// candidate is used as the row identity only if every row has a
	// distinct non-null value for it; otherwise identities are
	// synthetic sequential numbers.
	IDColumns []string

	// EnsureColumns are appended (with null cells in every row) when
	// the sheet does not already have them.
	EnsureColumns []ColumnSpec
}

// DefaultTaskOptions returns the load rules for VEEMAP task sheets:
// Status is a closed enum, the timeline columns are dates, and a
// Comments column is guaranteed to exist.
func DefaultTaskOptions() Options {
	return Options{
		Columns: []ColumnSpec{
			{Name: ColumnTaskName, Kind: KindText},
			{Name: ColumnAssignee, Kind: KindText},
			{Name: ColumnStatus, Kind: KindEnum, EnumValues: []string{StatusPending, StatusInProcess, StatusCompleted}},
			{Name: ColumnComments, Kind: KindText},
			{Name: ColumnPlannedEnd, Kind: KindDate},
			{Name: ColumnActualEnd, Kind: KindDate},
		},
		IDColumns: []string{"ID", "Task ID"},
		EnsureColumns: []ColumnSpec{
			{Name: ColumnComments, Kind: KindText},
		},
	}
}

// spec returns the declared ColumnSpec for name, if any.
func (o Options) spec(name string) (ColumnSpec, bool) {
	for _, c := range o.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return ColumnSpec{}, false
}
