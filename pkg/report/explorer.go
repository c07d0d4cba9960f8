package report

import (
	"math"

	"github.com/sprintlens/sprintlens/pkg/task"
)

// TaskFilter narrows the task explorer result. Empty string fields mean "any";
// nil bounds leave the planned-hours range open on that side.
type TaskFilter struct {
	State      string
	Epic       string
	AssignedTo string
	Sprint     string
	MinPlanned *float64
	MaxPlanned *float64
}

// TaskView is one explorer row: the record plus its derived per-task fields.
type TaskView struct {
	task.TaskRecord
	Difference         float64
	Efficiency         float64
	HasEstimate        bool
	SprintDurationDays *int
}

// ExplorerMetrics summarizes the filtered selection.
type ExplorerMetrics struct {
	TaskCount        int
	CompletedTasks   int
	CompletionRate   float64
	MissingEstimates int
	MissingRate      float64
}

// ExplorerResult is the filtered task list with its selection metrics.
type ExplorerResult struct {
	Tasks   []TaskView
	Metrics ExplorerMetrics
}

// ExploreTasks applies the filter to the record set and derives per-task
// fields and selection metrics.
func ExploreTasks(records []task.TaskRecord, filter TaskFilter, doneState string) ExplorerResult {
	result := ExplorerResult{Tasks: []TaskView{}}
	for _, record := range records {
		if !matches(record, filter) {
			continue
		}
		view := TaskView{
			TaskRecord:  record,
			Difference:  record.RealHours - record.PlannedHours,
			Efficiency:  EfficiencyRatio(record.PlannedHours, record.RealHours),
			HasEstimate: record.PlannedHours > 0,
		}
		if record.HasSprintDates() {
			days := int(math.Floor(record.SprintEnd.Sub(*record.SprintStart).Hours() / 24))
			view.SprintDurationDays = &days
		}
		result.Tasks = append(result.Tasks, view)

		result.Metrics.TaskCount++
		if record.IsDone(doneState) {
			result.Metrics.CompletedTasks++
		}
		if record.PlannedHours == 0 {
			result.Metrics.MissingEstimates++
		}
	}

	if result.Metrics.TaskCount > 0 {
		count := float64(result.Metrics.TaskCount)
		result.Metrics.CompletionRate = float64(result.Metrics.CompletedTasks) / count * 100
		result.Metrics.MissingRate = float64(result.Metrics.MissingEstimates) / count * 100
	}
	return result
}

func matches(record task.TaskRecord, filter TaskFilter) bool {
	if filter.State != "" && record.State != filter.State {
		return false
	}
	if filter.Epic != "" && record.Epic != filter.Epic {
		return false
	}
	if filter.AssignedTo != "" && record.AssignedTo != filter.AssignedTo {
		return false
	}
	if filter.Sprint != "" && record.Sprint != filter.Sprint {
		return false
	}
	if filter.MinPlanned != nil && record.PlannedHours < *filter.MinPlanned {
		return false
	}
	if filter.MaxPlanned != nil && record.PlannedHours > *filter.MaxPlanned {
		return false
	}
	return true
}
