package core

// editset.go accumulates pending cell edits for one sheet. Edits are
// keyed by row identity plus column name, never by display position, so
// a filter change between edit and reconcile cannot retarget them.
//
// An EditSet lives for one editing session: created empty, populated by
// user actions, consumed by the Reconciler, then cleared.

// editKey addresses one pending cell edit.
type editKey struct {
	rowID  string
	column string
}

// EditSet is a sparse batch of not-yet-applied cell edits against one
// Table.
type EditSet struct {
	table *Table
	edits map[editKey]Value
	order []editKey
}

// NewEditSet creates an empty EditSet targeting t.
func NewEditSet(t *Table) *EditSet {
	return &EditSet{
		table: t,
		edits: make(map[editKey]Value),
	}
}

// Set records or overwrites a pending edit. The raw value is parsed
// according to the column's kind.
//
// Returns an InvalidColumnError when the column is not part of the
// target table, or an InvalidValueError when the column is an enum and
// the value is not among its allowed values.
func (e *EditSet) Set(rowID, column, raw string) error {
	col, err := e.table.Column(column)
	if err != nil {
		return &InvalidColumnError{Column: column, Sheet: e.table.Name()}
	}

	cleaned := CleanCell(raw)
	if cleaned != "" && !col.AllowsValue(cleaned) {
		return &InvalidValueError{Column: col.Name, Value: cleaned, Reason: "not an allowed value"}
	}

	key := editKey{rowID: rowID, column: col.Name}
	if _, exists := e.edits[key]; !exists {
		e.order = append(e.order, key)
	}
	e.edits[key] = parseCell(raw, col.Kind)
	return nil
}

// Get returns the pending value for (rowID, column). The second result
// is false when no edit is recorded for that cell.
func (e *EditSet) Get(rowID, column string) (Value, bool) {
	col, err := e.table.Column(column)
	if err != nil {
		return Null, false
	}
	v, ok := e.edits[editKey{rowID: rowID, column: col.Name}]
	return v, ok
}

// Len returns the number of pending edits.
func (e *EditSet) Len() int { return len(e.edits) }

// Clear discards all pending edits.
func (e *EditSet) Clear() {
	e.edits = make(map[editKey]Value)
	e.order = nil
}

// rowEdits returns the pending column values for one row identity.
func (e *EditSet) rowEdits(rowID string) map[string]Value {
	var out map[string]Value
	for _, key := range e.order {
		if key.rowID != rowID {
			continue
		}
		if out == nil {
			out = make(map[string]Value)
		}
		out[key.column] = e.edits[key]
	}
	return out
}
