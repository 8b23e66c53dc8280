package session

import (
	"errors"
	"testing"
	"time"

	"github.com/veemap/taskdash/internal/core"
)

func testWorkbook(t *testing.T) *core.Workbook {
	t.Helper()
	raw := core.RawSheet{
		Name:   "Project Alpha",
		Header: []string{"Task Name", "Assignee", "Status"},
		Records: [][]string{
			{"Design schema", "Ana", "Pending"},
			{"Build importer", "Ben", "Completed"},
		},
	}
	wb, err := core.LoadWorkbook([]core.RawSheet{raw}, core.DefaultTaskOptions())
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}
	return wb
}

func TestStore_CreateAndGet(t *testing.T) {
	st := NewStore(time.Hour, 10)

	sess, err := st.Create(testWorkbook(t), "tasks.xlsx")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Create() returned empty session ID")
	}
	if sess.FileName != "tasks.xlsx" {
		t.Errorf("FileName = %q, want %q", sess.FileName, "tasks.xlsx")
	}

	got, err := st.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != sess {
		t.Error("Get() returned a different session")
	}
}

func TestStore_GetUnknown(t *testing.T) {
	st := NewStore(time.Hour, 10)

	_, err := st.Get("nope")
	var notFound *core.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get() error = %v, want *core.NotFoundError", err)
	}
}

func TestStore_Delete(t *testing.T) {
	st := NewStore(time.Hour, 10)
	sess, _ := st.Create(testWorkbook(t), "tasks.xlsx")

	if !st.Delete(sess.ID) {
		t.Error("Delete() = false, want true")
	}
	if st.Delete(sess.ID) {
		t.Error("second Delete() = true, want false")
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}
}

func TestStore_CapacityLimit(t *testing.T) {
	st := NewStore(time.Hour, 1)
	st.Create(testWorkbook(t), "a.xlsx")

	_, err := st.Create(testWorkbook(t), "b.xlsx")
	if !errors.Is(err, ErrStoreFull) {
		t.Fatalf("Create() error = %v, want ErrStoreFull", err)
	}
}

func TestStore_SweepExpires(t *testing.T) {
	st := NewStore(time.Minute, 10)
	st.Create(testWorkbook(t), "a.xlsx")

	if dropped := st.Sweep(time.Now()); dropped != 0 {
		t.Errorf("Sweep(now) = %d, want 0", dropped)
	}
	if dropped := st.Sweep(time.Now().Add(2 * time.Minute)); dropped != 1 {
		t.Errorf("Sweep(now+2m) = %d, want 1", dropped)
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after sweep", st.Len())
	}
}

func TestSession_AddEditsAndReconcile(t *testing.T) {
	st := NewStore(time.Hour, 10)
	sess, _ := st.Create(testWorkbook(t), "tasks.xlsx")

	n, err := sess.AddEdits("Project Alpha", []CellEdit{
		{RowID: "1", Column: core.ColumnStatus, Value: core.StatusCompleted},
		{RowID: "1", Column: core.ColumnComments, Value: "done ahead of plan"},
	})
	if err != nil {
		t.Fatalf("AddEdits() error = %v", err)
	}
	if n != 2 {
		t.Errorf("AddEdits() = %d, want 2", n)
	}
	if got := sess.PendingEdits("Project Alpha"); got != 2 {
		t.Errorf("PendingEdits() = %d, want 2", got)
	}

	before := sess.Snapshot()

	applied, err := sess.Reconcile("Project Alpha")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("Reconcile() = %d, want 2", applied)
	}
	if got := sess.PendingEdits("Project Alpha"); got != 0 {
		t.Errorf("PendingEdits() after reconcile = %d, want 0", got)
	}

	// The reconciled workbook carries the edit.
	after := sess.Snapshot()
	tbl, _ := after.Table("Project Alpha")
	row, _ := tbl.Row("1")
	if got := tbl.Value(row, core.ColumnStatus).String(); got != core.StatusCompleted {
		t.Errorf("Status after reconcile = %q, want %q", got, core.StatusCompleted)
	}

	// The pre-reconcile snapshot is untouched.
	oldTbl, _ := before.Table("Project Alpha")
	oldRow, _ := oldTbl.Row("1")
	if got := oldTbl.Value(oldRow, core.ColumnStatus).String(); got != core.StatusPending {
		t.Errorf("old snapshot Status = %q, want %q", got, core.StatusPending)
	}
}

func TestSession_AddEditsAtomicBatch(t *testing.T) {
	st := NewStore(time.Hour, 10)
	sess, _ := st.Create(testWorkbook(t), "tasks.xlsx")

	_, err := sess.AddEdits("Project Alpha", []CellEdit{
		{RowID: "1", Column: core.ColumnComments, Value: "fine"},
		{RowID: "1", Column: core.ColumnStatus, Value: "NotAStatus"},
	})
	var valErr *core.InvalidValueError
	if !errors.As(err, &valErr) {
		t.Fatalf("AddEdits() error = %v, want *core.InvalidValueError", err)
	}

	// The valid edit before the invalid one was not recorded either.
	if got := sess.PendingEdits("Project Alpha"); got != 0 {
		t.Errorf("PendingEdits() = %d, want 0 after rejected batch", got)
	}
}

func TestSession_AddEdit(t *testing.T) {
	st := NewStore(time.Hour, 10)
	sess, _ := st.Create(testWorkbook(t), "tasks.xlsx")

	if err := sess.AddEdit("Project Alpha", "1", core.ColumnStatus, core.StatusCompleted); err != nil {
		t.Fatalf("AddEdit() error = %v", err)
	}
	if got := sess.PendingEdits("Project Alpha"); got != 1 {
		t.Errorf("PendingEdits() = %d, want 1", got)
	}

	if err := sess.AddEdit("Project Alpha", "1", core.ColumnStatus, "Done"); err == nil {
		t.Fatal("AddEdit() error = nil, want enum violation")
	}
	if err := sess.AddEdit("Ghost", "1", core.ColumnStatus, core.StatusCompleted); err == nil {
		t.Fatal("AddEdit() error = nil, want unknown sheet")
	}
}

func TestSession_ClearEdits(t *testing.T) {
	st := NewStore(time.Hour, 10)
	sess, _ := st.Create(testWorkbook(t), "tasks.xlsx")

	sess.AddEdits("Project Alpha", []CellEdit{
		{RowID: "2", Column: core.ColumnComments, Value: "check totals"},
	})

	if dropped := sess.ClearEdits("Project Alpha"); dropped != 1 {
		t.Errorf("ClearEdits() = %d, want 1", dropped)
	}
	if dropped := sess.ClearEdits("Project Alpha"); dropped != 0 {
		t.Errorf("second ClearEdits() = %d, want 0", dropped)
	}
}

func TestSession_AddSheet(t *testing.T) {
	st := NewStore(time.Hour, 10)
	sess, _ := st.Create(testWorkbook(t), "tasks.xlsx")

	if err := sess.AddSheet("Project Beta", "Project Alpha"); err != nil {
		t.Fatalf("AddSheet() error = %v", err)
	}

	wb := sess.Snapshot()
	names := wb.SheetNames()
	if len(names) != 2 || names[1] != "Project Beta" {
		t.Errorf("SheetNames() = %v, want [Project Alpha Project Beta]", names)
	}

	err := sess.AddSheet("Project Beta", "Project Alpha")
	var dup *core.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("duplicate AddSheet() error = %v, want *core.DuplicateNameError", err)
	}
}

func TestSession_ReconcileUnknownSheet(t *testing.T) {
	st := NewStore(time.Hour, 10)
	sess, _ := st.Create(testWorkbook(t), "tasks.xlsx")

	_, err := sess.Reconcile("Ghost")
	var notFound *core.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Reconcile(Ghost) error = %v, want *core.NotFoundError", err)
	}
}
