package core

// summary.go computes the dashboard numbers for a (possibly filtered)
// view of a task sheet: headline metrics, per-status counts for the
// status chart, and the planned-vs-actual timeline pairs.

import "time"

// StatusCount is the number of rows carrying one status value.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TimelinePoint pairs a task with its planned and actual end dates.
// A nil date means the cell was empty or unparseable.
type TimelinePoint struct {
	Task    string     `json:"task"`
	Planned *time.Time `json:"planned"`
	Actual  *time.Time `json:"actual"`
}

// Summary is the metric block shown above a task sheet.
type Summary struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	PendingTasks   int     `json:"pendingTasks"` // every non-completed task
	Assignees      int     `json:"assignees"`    // distinct non-empty assignees
	CompletionRate float64 `json:"completionRate"` // percent, 0 when the view is empty

	// StatusCounts lists counts in enum order for declared status
	// enums, then any undeclared values in first-seen order.
	StatusCounts []StatusCount `json:"statusCounts"`

	// Timeline is present only when the sheet has both end-date
	// columns; TimelineAvailable lets the shell warn instead of
	// rendering an empty chart.
	TimelineAvailable bool            `json:"timelineAvailable"`
	Timeline          []TimelinePoint `json:"timeline,omitempty"`
}

// Summarize computes the Summary for a view.
func Summarize(v *View) Summary {
	s := Summary{TotalTasks: v.Len()}

	assignees := make(map[string]bool)
	statusOrder := enumOrder(v.Table(), ColumnStatus)
	counts := make(map[string]int)
	var extraStatuses []string

	for r := range v.Rows() {
		status := v.Value(r, ColumnStatus).String()
		if status == StatusCompleted {
			s.CompletedTasks++
		} else {
			s.PendingTasks++
		}
		if status != "" {
			if _, known := counts[status]; !known && !contains(statusOrder, status) {
				extraStatuses = append(extraStatuses, status)
			}
			counts[status]++
		}

		if a := v.Value(r, ColumnAssignee).String(); a != "" {
			assignees[a] = true
		}
	}
	s.Assignees = len(assignees)

	if s.TotalTasks > 0 {
		s.CompletionRate = float64(s.CompletedTasks) / float64(s.TotalTasks) * 100
	}

	for _, status := range statusOrder {
		if counts[status] > 0 {
			s.StatusCounts = append(s.StatusCounts, StatusCount{Status: status, Count: counts[status]})
		}
	}
	for _, status := range extraStatuses {
		s.StatusCounts = append(s.StatusCounts, StatusCount{Status: status, Count: counts[status]})
	}

	t := v.Table()
	if t.HasColumn(ColumnPlannedEnd) && t.HasColumn(ColumnActualEnd) {
		s.TimelineAvailable = true
		for r := range v.Rows() {
			s.Timeline = append(s.Timeline, TimelinePoint{
				Task:    v.Value(r, ColumnTaskName).String(),
				Planned: dateOrNil(v.Value(r, ColumnPlannedEnd)),
				Actual:  dateOrNil(v.Value(r, ColumnActualEnd)),
			})
		}
	}

	return s
}

// enumOrder returns the declared enum values of a column, or nil when
// the column is absent or not an enum.
func enumOrder(t *Table, column string) []string {
	col, err := t.Column(column)
	if err != nil || col.Kind != KindEnum {
		return nil
	}
	return col.EnumValues
}

func dateOrNil(v Value) *time.Time {
	if v.Kind() != ValueDate {
		return nil
	}
	d := v.Time()
	return &d
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
