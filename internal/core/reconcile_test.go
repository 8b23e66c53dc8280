package core

import "testing"

func TestReconcile_AppliesEdits(t *testing.T) {
	raw := RawSheet{
		Name:   "Tasks",
		Header: []string{"ID", "Status"},
		Records: [][]string{
			{"1", StatusPending},
			{"2", StatusCompleted},
		},
	}
	tbl := mustLoadTable(t, raw)

	es := NewEditSet(tbl)
	if err := es.Set("1", ColumnStatus, StatusCompleted); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	next := Reconcile(tbl, es)

	for r := range next.Rows() {
		if got := next.Value(r, ColumnStatus).String(); got != StatusCompleted {
			t.Errorf("row %s: Status = %q, want %q", r.ID, got, StatusCompleted)
		}
	}

	// The input table is untouched.
	orig, _ := tbl.Row("1")
	if got := tbl.Value(orig, ColumnStatus).String(); got != StatusPending {
		t.Errorf("original row 1 Status = %q, want %q (input mutated)", got, StatusPending)
	}
}

func TestReconcile_PreservesShapeAndOrder(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())

	es := NewEditSet(tbl)
	es.Set("2", ColumnStatus, StatusCompleted)
	es.Set("2", ColumnComments, "shipped early")

	next := Reconcile(tbl, es)

	if next.Len() != tbl.Len() {
		t.Fatalf("row count = %d, want %d", next.Len(), tbl.Len())
	}
	if len(next.Columns()) != len(tbl.Columns()) {
		t.Fatalf("column count = %d, want %d", len(next.Columns()), len(tbl.Columns()))
	}

	wantIDs := []string{"1", "2", "3"}
	i := 0
	for r := range next.Rows() {
		if r.ID != wantIDs[i] {
			t.Errorf("row order [%d] = %q, want %q", i, r.ID, wantIDs[i])
		}
		i++
	}

	// Edited cells carry the recorded values, all others are unchanged.
	edited, _ := next.Row("2")
	if got := next.Value(edited, ColumnStatus).String(); got != StatusCompleted {
		t.Errorf("edited Status = %q, want %q", got, StatusCompleted)
	}
	if got := next.Value(edited, ColumnComments).String(); got != "shipped early" {
		t.Errorf("edited Comments = %q, want %q", got, "shipped early")
	}
	if got := next.Value(edited, ColumnAssignee).String(); got != "Ben" {
		t.Errorf("untouched Assignee = %q, want %q", got, "Ben")
	}
}

func TestReconcile_EmptyEditSetIsIdentity(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())

	next := Reconcile(tbl, NewEditSet(tbl))
	if !tbl.Equal(next) {
		t.Error("Reconcile with empty EditSet differs from input, want value equality")
	}
}

func TestReconcile_UnknownRowIdentityIgnored(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())

	es := NewEditSet(tbl)
	es.Set("99", ColumnStatus, StatusCompleted)

	next := Reconcile(tbl, es)
	if !tbl.Equal(next) {
		t.Error("edit for absent row identity changed the table, want it silently ignored")
	}
}

func TestReconcileIntoWorkbook(t *testing.T) {
	wb, err := LoadWorkbook([]RawSheet{taskSheet()}, DefaultTaskOptions())
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}

	tbl, _ := wb.Table("Project Alpha")
	es := NewEditSet(tbl)
	es.Set("3", ColumnStatus, StatusInProcess)

	next, err := ReconcileIntoWorkbook(wb, "Project Alpha", es)
	if err != nil {
		t.Fatalf("ReconcileIntoWorkbook() error = %v", err)
	}

	reconciled, _ := next.Table("Project Alpha")
	row, _ := reconciled.Row("3")
	if got := reconciled.Value(row, ColumnStatus).String(); got != StatusInProcess {
		t.Errorf("Status after merge = %q, want %q", got, StatusInProcess)
	}

	// The input workbook still holds the old sheet.
	before, _ := wb.Table("Project Alpha")
	row, _ = before.Row("3")
	if got := before.Value(row, ColumnStatus).String(); got != StatusPending {
		t.Errorf("input workbook Status = %q, want %q (input mutated)", got, StatusPending)
	}
}

func TestReconcileIntoWorkbook_SheetNotFound(t *testing.T) {
	wb, err := LoadWorkbook([]RawSheet{taskSheet()}, DefaultTaskOptions())
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}
	tbl, _ := wb.Table("Project Alpha")

	_, err = ReconcileIntoWorkbook(wb, "Ghost", NewEditSet(tbl))
	var notFound *NotFoundError
	if !asError(err, &notFound) {
		t.Fatalf("ReconcileIntoWorkbook() error = %v, want *NotFoundError", err)
	}
}
