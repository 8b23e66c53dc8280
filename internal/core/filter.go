package core

// filter.go implements the composable row predicate behind the sidebar
// filters: each constrained column carries an accepted value set, rows
// must match every constrained column (AND), and an empty accepted set
// means "All", no constraint on that column.
//
// Filtering is pure: it never touches the Table, and a filtered view is
// a read-only subsequence of the Table's rows in original order.

import (
	"iter"
	"strings"
)

// constraint is one (column, accepted values) pair of a FilterSpec.
type constraint struct {
	column   string
	accepted map[string]bool
}

// FilterSpec is an immutable conjunction of per-column accepted value
// sets. The zero value matches every row.
type FilterSpec struct {
	constraints []constraint
}

// With returns a new FilterSpec with the constraint for column added or
// replaced. An empty accepted slice removes the constraint, matching
// the "All" selection in the filter UI. The receiver is not modified.
func (s FilterSpec) With(column string, accepted []string) FilterSpec {
	next := FilterSpec{}
	for _, c := range s.constraints {
		if !strings.EqualFold(c.column, column) {
			next.constraints = append(next.constraints, c)
		}
	}
	if len(accepted) == 0 {
		return next
	}

	set := make(map[string]bool, len(accepted))
	for _, v := range accepted {
		set[v] = true
	}
	next.constraints = append(next.constraints, constraint{column: column, accepted: set})
	return next
}

// Empty reports whether the spec has no constraints.
func (s FilterSpec) Empty() bool { return len(s.constraints) == 0 }

// Columns returns the constrained column names in constraint order.
func (s FilterSpec) Columns() []string {
	cols := make([]string, len(s.constraints))
	for i, c := range s.constraints {
		cols[i] = c.column
	}
	return cols
}

// Matches reports whether a row of t satisfies every constraint.
// Unconstrained columns are ignored; membership is tested against the
// cell's canonical display string.
func (s FilterSpec) Matches(t *Table, r Row) bool {
	for _, c := range s.constraints {
		if !c.accepted[t.Value(r, c.column).String()] {
			return false
		}
	}
	return true
}

// View is a read-only filtered subsequence of one Table's rows,
// preserving original order. A View never mutates its Table.
type View struct {
	table *Table
	rows  []Row
}

// Apply filters t through s. With no constraints the view contains all
// rows in original order.
func Apply(t *Table, s FilterSpec) *View {
	v := &View{table: t}
	for r := range t.Rows() {
		if s.Matches(t, r) {
			v.rows = append(v.rows, r)
		}
	}
	return v
}

// Table returns the view's backing table.
func (v *View) Table() *Table { return v.table }

// Rows returns the view's rows as a restartable sequence.
func (v *View) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, r := range v.rows {
			if !yield(r) {
				return
			}
		}
	}
}

// Len returns the number of rows in the view.
func (v *View) Len() int { return len(v.rows) }

// Value returns the cell value for a column of r via the backing table.
func (v *View) Value(r Row, column string) Value {
	return v.table.Value(r, column)
}
