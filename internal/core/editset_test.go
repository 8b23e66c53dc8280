package core

import "testing"

func TestEditSet_SetAndGet(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	es := NewEditSet(tbl)

	if err := es.Set("2", ColumnComments, "waiting on review"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, ok := es.Get("2", ColumnComments)
	if !ok {
		t.Fatal("Get() ok = false, want recorded edit")
	}
	if v.String() != "waiting on review" {
		t.Errorf("Get() = %q, want %q", v.String(), "waiting on review")
	}

	if _, ok := es.Get("1", ColumnComments); ok {
		t.Error("Get() for unedited cell ok = true, want false")
	}
}

func TestEditSet_SetOverwrites(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	es := NewEditSet(tbl)

	if err := es.Set("2", ColumnStatus, StatusInProcess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := es.Set("2", ColumnStatus, StatusCompleted); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if es.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after overwriting the same cell", es.Len())
	}
	v, _ := es.Get("2", ColumnStatus)
	if v.String() != StatusCompleted {
		t.Errorf("Get() = %q, want %q", v.String(), StatusCompleted)
	}
}

func TestEditSet_InvalidColumn(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	es := NewEditSet(tbl)

	err := es.Set("1", "Severity", "high")
	var colErr *InvalidColumnError
	if !asError(err, &colErr) {
		t.Fatalf("Set() error = %v, want *InvalidColumnError", err)
	}
	if colErr.Column != "Severity" {
		t.Errorf("InvalidColumnError.Column = %q, want %q", colErr.Column, "Severity")
	}
	if es.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after rejected edit", es.Len())
	}
}

func TestEditSet_EnumViolation(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	es := NewEditSet(tbl)

	err := es.Set("1", ColumnStatus, "Done")
	var valErr *InvalidValueError
	if !asError(err, &valErr) {
		t.Fatalf("Set() error = %v, want *InvalidValueError", err)
	}
	if valErr.Value != "Done" {
		t.Errorf("InvalidValueError.Value = %q, want %q", valErr.Value, "Done")
	}
}

func TestEditSet_EnumAcceptsAllowedValues(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	es := NewEditSet(tbl)

	for _, status := range []string{StatusPending, StatusInProcess, StatusCompleted} {
		if err := es.Set("1", ColumnStatus, status); err != nil {
			t.Errorf("Set(%q) error = %v, want nil", status, err)
		}
	}
}

func TestEditSet_ClearingEnumCellAllowed(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	es := NewEditSet(tbl)

	if err := es.Set("1", ColumnStatus, ""); err != nil {
		t.Fatalf("Set(\"\") error = %v, want nil (clearing a cell)", err)
	}
	v, ok := es.Get("1", ColumnStatus)
	if !ok || !v.IsNull() {
		t.Errorf("Get() = %v, %v, want null edit recorded", v, ok)
	}
}

func TestEditSet_Clear(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	es := NewEditSet(tbl)

	es.Set("1", ColumnComments, "a")
	es.Set("2", ColumnComments, "b")
	es.Clear()

	if es.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", es.Len())
	}
	if _, ok := es.Get("1", ColumnComments); ok {
		t.Error("Get() after Clear ok = true, want false")
	}
}
