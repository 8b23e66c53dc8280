package core

import (
	"math"
	"testing"
)

func TestSummarize_Metrics(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	s := Summarize(Apply(tbl, FilterSpec{}))

	if s.TotalTasks != 3 {
		t.Errorf("TotalTasks = %d, want 3", s.TotalTasks)
	}
	if s.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", s.CompletedTasks)
	}
	if s.PendingTasks != 2 {
		t.Errorf("PendingTasks = %d, want 2", s.PendingTasks)
	}
	if s.Assignees != 2 {
		t.Errorf("Assignees = %d, want 2", s.Assignees)
	}
	if math.Abs(s.CompletionRate-100.0/3) > 0.001 {
		t.Errorf("CompletionRate = %v, want %v", s.CompletionRate, 100.0/3)
	}
}

func TestSummarize_EmptyView(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	spec := FilterSpec{}.With(ColumnAssignee, []string{"Nobody"})

	s := Summarize(Apply(tbl, spec))
	if s.TotalTasks != 0 {
		t.Errorf("TotalTasks = %d, want 0", s.TotalTasks)
	}
	if s.CompletionRate != 0 {
		t.Errorf("CompletionRate = %v, want 0 for an empty view", s.CompletionRate)
	}
}

func TestSummarize_StatusCountsInEnumOrder(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	s := Summarize(Apply(tbl, FilterSpec{}))

	want := []StatusCount{
		{Status: StatusPending, Count: 1},
		{Status: StatusInProcess, Count: 1},
		{Status: StatusCompleted, Count: 1},
	}
	if len(s.StatusCounts) != len(want) {
		t.Fatalf("StatusCounts = %v, want %v", s.StatusCounts, want)
	}
	for i := range want {
		if s.StatusCounts[i] != want[i] {
			t.Errorf("StatusCounts[%d] = %v, want %v", i, s.StatusCounts[i], want[i])
		}
	}
}

func TestSummarize_TimelineAvailable(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	s := Summarize(Apply(tbl, FilterSpec{}))

	if !s.TimelineAvailable {
		t.Fatal("TimelineAvailable = false, want true (both end-date columns present)")
	}
	if len(s.Timeline) != 3 {
		t.Fatalf("len(Timeline) = %d, want 3", len(s.Timeline))
	}

	first := s.Timeline[0]
	if first.Task != "Design schema" {
		t.Errorf("Timeline[0].Task = %q, want %q", first.Task, "Design schema")
	}
	if first.Planned == nil || first.Actual == nil {
		t.Fatal("Timeline[0] dates are nil, want both parsed")
	}

	// Empty Actual End cell stays nil.
	if s.Timeline[1].Actual != nil {
		t.Errorf("Timeline[1].Actual = %v, want nil for empty cell", s.Timeline[1].Actual)
	}
}

func TestSummarize_TimelineUnavailable(t *testing.T) {
	raw := RawSheet{
		Name:    "Minimal",
		Header:  []string{"Task Name", "Status"},
		Records: [][]string{{"Only task", "Pending"}},
	}
	tbl := mustLoadTable(t, raw)

	s := Summarize(Apply(tbl, FilterSpec{}))
	if s.TimelineAvailable {
		t.Error("TimelineAvailable = true, want false without end-date columns")
	}
	if s.Timeline != nil {
		t.Errorf("Timeline = %v, want nil", s.Timeline)
	}
}

func TestSummarize_RespectsFilter(t *testing.T) {
	tbl := mustLoadTable(t, taskSheet())
	spec := FilterSpec{}.With(ColumnAssignee, []string{"Ana"})

	s := Summarize(Apply(tbl, spec))
	if s.TotalTasks != 2 {
		t.Errorf("TotalTasks = %d, want 2", s.TotalTasks)
	}
	if s.Assignees != 1 {
		t.Errorf("Assignees = %d, want 1", s.Assignees)
	}
}
