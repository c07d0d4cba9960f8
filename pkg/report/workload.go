package report

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sprintlens/sprintlens/pkg/task"
)

// DistributeDailyWorkload spreads each task's effort uniformly across the
// calendar days of its sprint window and accumulates overlapping tasks per
// day, producing one point per day from the earliest observed sprint start to
// the latest observed sprint end. The uniform spread is a deliberate
// simplification of how effort lands inside a sprint.
//
// Only tasks with both sprint dates qualify; a task whose end date precedes
// its start date contributes nothing but still widens the observed range.
// The boolean is false when no task carries a usable date range, which
// callers must treat as "projection not applicable", not as an error.
func DistributeDailyWorkload(records []task.TaskRecord) ([]DailyLoadPoint, bool) {
	type window struct {
		start, end    time.Time
		planned, real float64
	}

	windows := make([]window, 0, len(records))
	for _, record := range records {
		if !record.HasSprintDates() {
			continue
		}
		windows = append(windows, window{
			start:   dayOf(*record.SprintStart),
			end:     dayOf(*record.SprintEnd),
			planned: record.PlannedHours,
			real:    record.RealHours,
		})
	}
	if len(windows) == 0 {
		log.Debug("No task carries a parseable sprint date range, daily workload unavailable")
		return nil, false
	}

	rangeStart := windows[0].start
	rangeEnd := windows[0].end
	for _, w := range windows[1:] {
		if w.start.Before(rangeStart) {
			rangeStart = w.start
		}
		if w.end.After(rangeEnd) {
			rangeEnd = w.end
		}
	}
	if rangeEnd.Before(rangeStart) {
		// every window is reversed, nothing to project onto
		return nil, false
	}

	points := make([]DailyLoadPoint, daysBetween(rangeStart, rangeEnd)+1)
	for i := range points {
		points[i].Date = rangeStart.AddDate(0, 0, i)
	}

	for _, w := range windows {
		taskDays := daysBetween(w.start, w.end) + 1
		if taskDays <= 0 {
			// end date before start date: nothing to distribute
			continue
		}
		dailyPlanned := w.planned / float64(taskDays)
		dailyReal := w.real / float64(taskDays)
		offset := daysBetween(rangeStart, w.start)
		for i := 0; i < taskDays; i++ {
			points[offset+i].PlannedHours += dailyPlanned
			points[offset+i].RealHours += dailyReal
		}
	}

	return points, true
}

// dayOf truncates a timestamp to its calendar day, normalized to UTC so that
// day arithmetic stays exact across the whole range.
func dayOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from one UTC midnight to another; negative
// when to precedes from.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
