package core

// table.go holds the in-memory representation of one sheet: typed
// columns, rows with stable identities, and the loader that builds a
// Table from the codec's raw cell grid.
//
// Row identity is assigned once, at load time, and never changes across
// filter or edit cycles. It is either a natural unique key column from
// the data or a synthetic sequential number, never a display position,
// so filtering can never redirect an edit to the wrong row.

import (
	"iter"
	"strconv"
	"strings"
)

// RawSheet is one sheet as delivered by the spreadsheet codec: a header
// row of column names and the data rows beneath it, all as display
// strings. Dates may arrive as text and are parsed during load.
type RawSheet struct {
	Name    string
	Header  []string
	Records [][]string
}

// Column is one typed column of a Table.
type Column struct {
	Name       string
	Kind       ColumnKind
	EnumValues []string // allowed values, in order, when Kind is KindEnum
}

// AllowsValue reports whether raw is an allowed value for an enum
// column. Non-enum columns allow everything.
func (c Column) AllowsValue(raw string) bool {
	if c.Kind != KindEnum {
		return true
	}
	for _, v := range c.EnumValues {
		if v == raw {
			return true
		}
	}
	return false
}

// Row is one row of a Table. Cells are parallel to the Table's column
// order, so a Row's keys always match its Table's declared columns.
type Row struct {
	ID    string
	Cells []Value
}

// clone returns a deep copy of the row.
func (r Row) clone() Row {
	cells := make([]Value, len(r.Cells))
	copy(cells, r.Cells)
	return Row{ID: r.ID, Cells: cells}
}

// Table is one sheet's structured rows and columns.
type Table struct {
	name    string
	columns []Column
	index   map[string]int // lowercase column name -> position
	rows    []Row
}

// LoadTable builds a Table from raw sheet data.
//
// Column kinds come from opts.Columns when declared, otherwise from the
// first non-null cell seen in the column (parseable date, then number,
// then text). Returns a SchemaError when the sheet has no columns.
func LoadTable(raw RawSheet, opts Options) (*Table, error) {
	if len(raw.Header) == 0 {
		return nil, &SchemaError{Sheet: raw.Name, Detail: "sheet has no columns"}
	}

	t := &Table{
		name:  raw.Name,
		index: make(map[string]int, len(raw.Header)),
	}

	for _, h := range raw.Header {
		name := CleanCell(h)
		col := Column{Name: name, Kind: inferKind(raw, len(t.columns))}
		if spec, ok := opts.spec(name); ok {
			col.Kind = spec.Kind
			col.EnumValues = spec.EnumValues
		}
		t.index[strings.ToLower(name)] = len(t.columns)
		t.columns = append(t.columns, col)
	}

	for _, spec := range opts.EnsureColumns {
		if _, ok := t.index[strings.ToLower(spec.Name)]; ok {
			continue
		}
		t.index[strings.ToLower(spec.Name)] = len(t.columns)
		t.columns = append(t.columns, Column{Name: spec.Name, Kind: spec.Kind, EnumValues: spec.EnumValues})
	}

	t.rows = make([]Row, 0, len(raw.Records))
	for _, record := range raw.Records {
		cells := make([]Value, len(t.columns))
		for i, col := range t.columns {
			cells[i] = Null
			if i < len(record) {
				cells[i] = parseCell(record[i], col.Kind)
			}
		}
		t.rows = append(t.rows, Row{Cells: cells})
	}

	assignIdentities(t, opts.IDColumns)

	return t, nil
}

// Name returns the sheet name.
func (t *Table) Name() string { return t.name }

// Columns returns the declared columns in order.
func (t *Table) Columns() []Column { return t.columns }

// Column looks up a column by name (case-insensitive). Returns a
// NotFoundError when the table has no such column.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[strings.ToLower(name)]
	if !ok {
		return Column{}, &NotFoundError{Kind: "column", Name: name}
	}
	return t.columns[i], nil
}

// HasColumn reports whether the table declares a column with this name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[strings.ToLower(name)]
	return ok
}

// Rows returns the table's rows as a restartable sequence in original
// load order.
func (t *Table) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, r := range t.rows {
			if !yield(r) {
				return
			}
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Value returns the cell value for a column of r, which must be a row of
// this table. Null when the column does not exist.
func (t *Table) Value(r Row, column string) Value {
	i, ok := t.index[strings.ToLower(column)]
	if !ok || i >= len(r.Cells) {
		return Null
	}
	return r.Cells[i]
}

// Row returns the row with the given identity, if present.
func (t *Table) Row(id string) (Row, bool) {
	for _, r := range t.rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Equal reports whether two tables are value-equal: same name, columns,
// row identities, and cell values in the same order.
func (t *Table) Equal(o *Table) bool {
	if t.name != o.name || len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i, c := range t.columns {
		oc := o.columns[i]
		if c.Name != oc.Name || c.Kind != oc.Kind || len(c.EnumValues) != len(oc.EnumValues) {
			return false
		}
		for j, v := range c.EnumValues {
			if v != oc.EnumValues[j] {
				return false
			}
		}
	}
	for i, r := range t.rows {
		or := o.rows[i]
		if r.ID != or.ID || len(r.Cells) != len(or.Cells) {
			return false
		}
		for j, v := range r.Cells {
			if !v.Equal(or.Cells[j]) {
				return false
			}
		}
	}
	return true
}

// Raw re-encodes the table into codec form: header from the declared
// columns, cells in their canonical display strings.
func (t *Table) Raw() RawSheet {
	raw := RawSheet{Name: t.name}
	for _, c := range t.columns {
		raw.Header = append(raw.Header, c.Name)
	}
	raw.Records = make([][]string, len(t.rows))
	for i, r := range t.rows {
		record := make([]string, len(r.Cells))
		for j, v := range r.Cells {
			record[j] = v.String()
		}
		raw.Records[i] = record
	}
	return raw
}

// emptyCopy returns a table with the same name-independent schema and
// zero rows, used when seeding a new project sheet.
func (t *Table) emptyCopy(name string) *Table {
	c := &Table{
		name:    name,
		columns: make([]Column, len(t.columns)),
		index:   make(map[string]int, len(t.index)),
	}
	copy(c.columns, t.columns)
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}

// parseCell converts a raw display string into a typed Value according
// to the column kind. Values that fail to parse degrade to text rather
// than vanish, matching how the source spreadsheets are actually used.
func parseCell(raw string, kind ColumnKind) Value {
	s := CleanCell(raw)
	if s == "" {
		return Null
	}
	switch kind {
	case KindNumber:
		if f, ok := ParseNumber(s); ok {
			return Number(f)
		}
	case KindDate:
		if d, ok := ParseDate(s); ok {
			return Date(d)
		}
	}
	return Text(s)
}

// inferKind picks a kind for an undeclared column from its first
// non-null cell: date if the cell parses as a date, number if numeric,
// otherwise text. A column with no data is text.
func inferKind(raw RawSheet, col int) ColumnKind {
	for _, record := range raw.Records {
		if col >= len(record) {
			continue
		}
		s := CleanCell(record[col])
		if s == "" {
			continue
		}
		if _, ok := ParseDate(s); ok {
			return KindDate
		}
		if _, ok := ParseNumber(s); ok {
			return KindNumber
		}
		return KindText
	}
	return KindText
}

// assignIdentities sets every row's ID. The first candidate natural-key
// column whose values are all distinct and non-null wins; otherwise the
// identity is the 1-based load position.
func assignIdentities(t *Table, candidates []string) {
	for _, name := range candidates {
		i, ok := t.index[strings.ToLower(name)]
		if !ok {
			continue
		}
		seen := make(map[string]bool, len(t.rows))
		unique := true
		for _, r := range t.rows {
			v := r.Cells[i]
			if v.IsNull() || seen[v.String()] {
				unique = false
				break
			}
			seen[v.String()] = true
		}
		if unique {
			for j := range t.rows {
				t.rows[j].ID = t.rows[j].Cells[i].String()
			}
			return
		}
	}
	for j := range t.rows {
		t.rows[j].ID = strconv.Itoa(j + 1)
	}
}
