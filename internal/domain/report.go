package domain

import (
	"slices"
	"strings"
)

// ReportColumns is the column schema of a completion report.
var ReportColumns = []string{"assignee", "tasks_received", "tasks_completed", "completion_rate"}

// ReportRow holds the completion figures of one assignee.
type ReportRow struct {
	Assignee       string  `json:"assignee"`
	TasksReceived  int     `json:"tasks_received"`
	TasksCompleted int     `json:"tasks_completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// Report is a per-assignee completion report.
type Report struct {
	Columns []string    `json:"columns"`
	Rows    []ReportRow `json:"rows"`
}

// IsEmpty returns true if the report has no rows.
func (r Report) IsEmpty() bool {
	return len(r.Rows) == 0
}

// Totals sums all rows into a single row labelled "TOTAL".
func (r Report) Totals() ReportRow {
	total := ReportRow{Assignee: "TOTAL"}
	for _, row := range r.Rows {
		total.TasksReceived += row.TasksReceived
		total.TasksCompleted += row.TasksCompleted
	}
	total.CompletionRate = completionRate(total.TasksCompleted, total.TasksReceived)
	return total
}

// Aggregate computes one report row per distinct assignee, sorted by assignee.
// An empty task list yields an empty report that still carries the columns.
func Aggregate(tasks []Task) Report {
	byAssignee := make(map[string]*ReportRow)
	for _, t := range tasks {
		row, ok := byAssignee[t.Assignee]
		if !ok {
			row = &ReportRow{Assignee: t.Assignee}
			byAssignee[t.Assignee] = row
		}
		row.TasksReceived++
		if t.IsCompleted() {
			row.TasksCompleted++
		}
	}

	rows := make([]ReportRow, 0, len(byAssignee))
	for _, row := range byAssignee {
		row.CompletionRate = completionRate(row.TasksCompleted, row.TasksReceived)
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b ReportRow) int {
		return strings.Compare(a.Assignee, b.Assignee)
	})

	return Report{
		Columns: slices.Clone(ReportColumns),
		Rows:    rows,
	}
}

// completionRate returns completed/received; 0 when nothing was received.
func completionRate(completed, received int) float64 {
	if received == 0 {
		return 0
	}
	return float64(completed) / float64(received)
}
