package task

import (
	"strings"
	"time"
)

// DateLayout is the sprint date format used by tracker exports:
// day/month/year with time of day.
const DateLayout = "02/01/2006 15:04:05"

// TaskRecord is one normalized row of a task-tracking export. Duration columns
// are already canonicalized to hours; sprint dates are nil when the export
// carried no parseable value.
type TaskRecord struct {
	Number           string
	ShortDescription string
	AssignedTo       string
	State            string
	Epic             string
	Sprint           string
	SprintStart      *time.Time
	SprintEnd        *time.Time
	PlannedHours     float64
	RealHours        float64
}

// IsDone reports whether the task state matches the completion literal,
// ignoring case.
func (t TaskRecord) IsDone(doneState string) bool {
	return strings.EqualFold(t.State, doneState)
}

// HasSprintDates reports whether both sprint boundary dates were parseable.
// Tasks without them are excluded from the daily workload projection only.
func (t TaskRecord) HasSprintDates() bool {
	return t.SprintStart != nil && t.SprintEnd != nil
}

// ParseDate parses a sprint date cell. A nil result means the cell was empty
// or malformed; the owning task then counts as dateless.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil
	}
	return &parsed
}
