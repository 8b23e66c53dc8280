package core

// reconcile.go merges an EditSet back into the full document. Both
// operations are pure: they build a new Table/Workbook and leave the
// inputs untouched, so a failure never leaves a half-edited sheet
// behind.

import "strings"

// Reconcile applies every pending edit in e to t and returns the
// resulting Table. Rows whose identity carries no edits pass through
// unchanged, in original order; edits referencing a row identity the
// table does not contain are ignored. The row count and column set are
// always preserved.
func Reconcile(t *Table, e *EditSet) *Table {
	next := &Table{
		name:    t.name,
		columns: t.columns,
		index:   t.index,
		rows:    make([]Row, len(t.rows)),
	}

	for i, r := range t.rows {
		edits := e.rowEdits(r.ID)
		if len(edits) == 0 {
			next.rows[i] = r
			continue
		}

		edited := r.clone()
		for column, v := range edits {
			if j, ok := t.index[strings.ToLower(column)]; ok {
				edited.Cells[j] = v
			}
		}
		next.rows[i] = edited
	}

	return next
}

// ReconcileIntoWorkbook applies e to the named sheet of w and returns a
// new Workbook with the reconciled sheet in place. The merge is atomic:
// either the returned Workbook carries every pending edit for the
// sheet, or an error is returned and w is untouched. Returns a
// NotFoundError when the sheet does not exist.
func ReconcileIntoWorkbook(w *Workbook, sheetName string, e *EditSet) (*Workbook, error) {
	t, err := w.Table(sheetName)
	if err != nil {
		return nil, err
	}
	return w.ReplaceSheet(sheetName, Reconcile(t, e))
}
