package report

import (
	"math"
	"sort"

	"github.com/sprintlens/sprintlens/pkg/task"
)

// SummarizeByUser groups completed tasks by assignee and sums effort. Tasks in
// any other state are ignored entirely; an export without completed tasks
// yields an empty result. Rows are ordered ascending by assignee (an empty
// assignee forms its own group).
func SummarizeByUser(records []task.TaskRecord, doneState string) []UserSummaryRow {
	totals := make(map[string]*UserSummaryRow)
	for _, record := range records {
		if !record.IsDone(doneState) {
			continue
		}
		row := totals[record.AssignedTo]
		if row == nil {
			row = &UserSummaryRow{AssignedTo: record.AssignedTo}
			totals[record.AssignedTo] = row
		}
		row.TotalPlannedHours += record.PlannedHours
		row.TotalRealHours += record.RealHours
	}

	rows := make([]UserSummaryRow, 0, len(totals))
	for _, row := range totals {
		row.Difference = row.TotalRealHours - row.TotalPlannedHours
		row.EstimationAccuracy = estimationAccuracy(row.TotalPlannedHours, row.Difference)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].AssignedTo < rows[j].AssignedTo
	})
	return rows
}

// SummarizeByEpic groups all tasks by epic, dropping tasks without one.
// Rows are ordered by task count descending, ties ascending by epic.
func SummarizeByEpic(records []task.TaskRecord, doneState string) []GroupSummaryRow {
	withEpic := make([]task.TaskRecord, 0, len(records))
	for _, record := range records {
		if record.Epic != "" {
			withEpic = append(withEpic, record)
		}
	}
	rows := summarizeBy(withEpic, doneState, func(r task.TaskRecord) string { return r.Epic })
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].NumTasks > rows[j].NumTasks
	})
	return rows
}

// SummarizeBySprint groups all tasks by sprint, ordered ascending by sprint
// key. A missing sprint is retained as its own (empty) group.
func SummarizeBySprint(records []task.TaskRecord, doneState string) []GroupSummaryRow {
	return summarizeBy(records, doneState, func(r task.TaskRecord) string { return r.Sprint })
}

// summarizeBy is the shared grouping pass behind the epic and sprint
// summaries. Returned rows are ordered ascending by key, which doubles as the
// deterministic tie-break once callers re-sort.
func summarizeBy(records []task.TaskRecord, doneState string, key func(task.TaskRecord) string) []GroupSummaryRow {
	type groupTotals struct {
		row  GroupSummaryRow
		done int
	}
	totals := make(map[string]*groupTotals)
	for _, record := range records {
		k := key(record)
		group := totals[k]
		if group == nil {
			group = &groupTotals{row: GroupSummaryRow{Key: k}}
			totals[k] = group
		}
		group.row.NumTasks++
		group.row.TotalPlannedHours += record.PlannedHours
		group.row.TotalRealHours += record.RealHours
		if record.IsDone(doneState) {
			group.done++
		}
	}

	rows := make([]GroupSummaryRow, 0, len(totals))
	for _, group := range totals {
		row := group.row
		row.Difference = row.TotalRealHours - row.TotalPlannedHours
		row.PctCompleted = float64(group.done) / float64(row.NumTasks) * 100
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// SummarizeByStatus counts tasks per distinct state string, ordered by count
// descending, ties ascending by state.
func SummarizeByStatus(records []task.TaskRecord) []StatusCount {
	counts := make(map[string]int)
	for _, record := range records {
		counts[record.State]++
	}
	rows := make([]StatusCount, 0, len(counts))
	for state, count := range counts {
		rows = append(rows, StatusCount{State: state, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].State < rows[j].State
	})
	return rows
}

// Summarize computes the overview metrics block for a whole export.
// Effort totals cover completed tasks only (they come from the user summary);
// the completion ratio covers every task.
func Summarize(records []task.TaskRecord, doneState string) OverviewMetrics {
	userRows := SummarizeByUser(records, doneState)

	metrics := OverviewMetrics{TotalTasks: len(records)}
	for _, record := range records {
		if record.IsDone(doneState) {
			metrics.CompletedTasks++
		}
	}
	if metrics.TotalTasks > 0 {
		metrics.PctCompleted = float64(metrics.CompletedTasks) / float64(metrics.TotalTasks) * 100
	}

	accuracySum := 0.0
	for _, row := range userRows {
		metrics.TotalPlannedHours += row.TotalPlannedHours
		metrics.TotalRealHours += row.TotalRealHours
		accuracySum += row.EstimationAccuracy
	}
	metrics.TotalDifference = metrics.TotalRealHours - metrics.TotalPlannedHours
	if len(userRows) > 0 {
		metrics.AvgEstimationAccuracy = accuracySum / float64(len(userRows))
	}

	metrics.TopContributors = topContributors(userRows, 5)
	return metrics
}

func topContributors(rows []UserSummaryRow, limit int) []UserSummaryRow {
	top := make([]UserSummaryRow, len(rows))
	copy(top, rows)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalRealHours > top[j].TotalRealHours
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

// estimationAccuracy is 100 minus the absolute percentage deviation of actual
// from planned hours, clamped to [0, 100]. A group without planned hours is
// defined as 0 rather than undefined.
func estimationAccuracy(planned, difference float64) float64 {
	if planned == 0 {
		return 0
	}
	return clamp(100-math.Abs(difference/planned*100), 0, 100)
}
