package report

import (
	"testing"
	"time"

	"github.com/sprintlens/sprintlens/pkg/task"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func sprintTask(startDay, endDay int, planned, real float64) task.TaskRecord {
	start := day(startDay)
	end := day(endDay)
	return task.TaskRecord{SprintStart: &start, SprintEnd: &end, PlannedHours: planned, RealHours: real}
}

func TestDistributeDailyWorkload_SpreadsEffortUniformly(t *testing.T) {
	// given: 9 planned / 6 real hours across a three-day sprint window
	records := []task.TaskRecord{sprintTask(1, 3, 9.0, 6.0)}

	// when
	points, available := DistributeDailyWorkload(records)

	// then
	assert.True(t, available)
	assert.Len(t, points, 3)
	for i, point := range points {
		assert.Equal(t, day(i+1), point.Date)
		assert.Equal(t, 3.0, point.PlannedHours)
		assert.Equal(t, 2.0, point.RealHours)
	}
}

func TestDistributeDailyWorkload_AccumulatesOverlappingTasks(t *testing.T) {
	// given: windows 1-2 and 2-3 overlap on day 2
	records := []task.TaskRecord{
		sprintTask(1, 2, 4.0, 0.0),
		sprintTask(2, 3, 2.0, 0.0),
	}

	// when
	points, available := DistributeDailyWorkload(records)

	// then
	assert.True(t, available)
	assert.Len(t, points, 3)
	assert.Equal(t, 2.0, points[0].PlannedHours)
	assert.Equal(t, 3.0, points[1].PlannedHours)
	assert.Equal(t, 1.0, points[2].PlannedHours)

	// distribution preserves the total planned effort
	total := 0.0
	for _, point := range points {
		total += point.PlannedHours
	}
	assert.InDelta(t, 6.0, total, 1e-9)
}

func TestDistributeDailyWorkload_SingleDaySprint(t *testing.T) {
	records := []task.TaskRecord{sprintTask(5, 5, 4.0, 3.0)}

	points, available := DistributeDailyWorkload(records)

	assert.True(t, available)
	assert.Len(t, points, 1)
	assert.Equal(t, 4.0, points[0].PlannedHours)
}

func TestDistributeDailyWorkload_UnavailableWithoutSprintDates(t *testing.T) {
	// given: no task has both dates
	start := day(1)
	records := []task.TaskRecord{
		{PlannedHours: 4.0},
		{SprintStart: &start, PlannedHours: 2.0},
	}

	// when
	points, available := DistributeDailyWorkload(records)

	// then
	assert.False(t, available)
	assert.Nil(t, points)
}

func TestDistributeDailyWorkload_ReversedWindowContributesNothing(t *testing.T) {
	// given: one valid window and one whose end precedes its start
	records := []task.TaskRecord{
		sprintTask(1, 2, 4.0, 0.0),
		sprintTask(9, 5, 100.0, 100.0),
	}

	// when
	points, available := DistributeDailyWorkload(records)

	// then: the reversed window distributes no effort
	assert.True(t, available)
	total := 0.0
	for _, point := range points {
		total += point.PlannedHours
	}
	assert.InDelta(t, 4.0, total, 1e-9)
}

func TestDistributeDailyWorkload_OnlyReversedWindows(t *testing.T) {
	records := []task.TaskRecord{sprintTask(9, 5, 8.0, 8.0)}

	points, available := DistributeDailyWorkload(records)

	assert.False(t, available)
	assert.Nil(t, points)
}

func TestDistributeDailyWorkload_TimestampsTruncatedToCalendarDays(t *testing.T) {
	// given: dates with time-of-day components spanning two calendar days
	start := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC)
	records := []task.TaskRecord{
		{SprintStart: &start, SprintEnd: &end, PlannedHours: 4.0},
	}

	// when
	points, available := DistributeDailyWorkload(records)

	// then
	assert.True(t, available)
	assert.Len(t, points, 2)
	assert.Equal(t, day(1), points[0].Date)
	assert.Equal(t, 2.0, points[0].PlannedHours)
}
