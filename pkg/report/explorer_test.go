package report

import (
	"testing"

	"github.com/sprintlens/sprintlens/pkg/task"
	"github.com/stretchr/testify/assert"
)

func explorerRecords() []task.TaskRecord {
	return []task.TaskRecord{
		{Number: "TASK-1", AssignedTo: "Ana", State: doneState, Epic: "Login", Sprint: "Sprint 1", PlannedHours: 4.0, RealHours: 5.0},
		{Number: "TASK-2", AssignedTo: "Bruno", State: "em andamento", Epic: "Login", Sprint: "Sprint 1", PlannedHours: 8.0, RealHours: 2.0},
		{Number: "TASK-3", AssignedTo: "Ana", State: doneState, Epic: "Checkout", Sprint: "Sprint 2", PlannedHours: 0.0, RealHours: 3.0},
	}
}

func TestExploreTasks_NoFilter(t *testing.T) {
	// when
	result := ExploreTasks(explorerRecords(), TaskFilter{}, doneState)

	// then
	assert.Len(t, result.Tasks, 3)
	assert.Equal(t, 3, result.Metrics.TaskCount)
	assert.Equal(t, 2, result.Metrics.CompletedTasks)
	assert.InDelta(t, 66.666, result.Metrics.CompletionRate, 0.01)
	assert.Equal(t, 1, result.Metrics.MissingEstimates)
	assert.InDelta(t, 33.333, result.Metrics.MissingRate, 0.01)
}

func TestExploreTasks_DerivedFields(t *testing.T) {
	result := ExploreTasks(explorerRecords(), TaskFilter{State: doneState, Epic: "Login"}, doneState)

	assert.Len(t, result.Tasks, 1)
	view := result.Tasks[0]
	assert.Equal(t, "TASK-1", view.Number)
	assert.Equal(t, 1.0, view.Difference)
	assert.Equal(t, 0.8, view.Efficiency)
	assert.True(t, view.HasEstimate)
	assert.Nil(t, view.SprintDurationDays)
}

func TestExploreTasks_MissingEstimateView(t *testing.T) {
	result := ExploreTasks(explorerRecords(), TaskFilter{Epic: "Checkout"}, doneState)

	assert.Len(t, result.Tasks, 1)
	view := result.Tasks[0]
	assert.False(t, view.HasEstimate)
	assert.Equal(t, 0.0, view.Efficiency)
}

func TestExploreTasks_PlannedHoursBounds(t *testing.T) {
	minPlanned := 2.0
	maxPlanned := 6.0

	result := ExploreTasks(explorerRecords(), TaskFilter{MinPlanned: &minPlanned, MaxPlanned: &maxPlanned}, doneState)

	assert.Len(t, result.Tasks, 1)
	assert.Equal(t, "TASK-1", result.Tasks[0].Number)
}

func TestExploreTasks_SprintDurationDays(t *testing.T) {
	records := []task.TaskRecord{sprintTask(1, 5, 4.0, 4.0)}

	result := ExploreTasks(records, TaskFilter{}, doneState)

	assert.Len(t, result.Tasks, 1)
	if assert.NotNil(t, result.Tasks[0].SprintDurationDays) {
		assert.Equal(t, 4, *result.Tasks[0].SprintDurationDays)
	}
}

func TestExploreTasks_NoMatch(t *testing.T) {
	result := ExploreTasks(explorerRecords(), TaskFilter{AssignedTo: "Dora"}, doneState)

	assert.Empty(t, result.Tasks)
	assert.Equal(t, ExplorerMetrics{}, result.Metrics)
}
