package report

import (
	"time"
)

// Report is one ingested task export. Task records are stored with it and
// every projection is recomputed from them on request.
type Report struct {
	Uid        string
	Filename   string
	UploadedAt time.Time
	TaskCount  int
}

// UserSummaryRow aggregates completed tasks of one assignee.
type UserSummaryRow struct {
	AssignedTo         string
	TotalPlannedHours  float64
	TotalRealHours     float64
	Difference         float64
	EstimationAccuracy float64
}

// GroupSummaryRow aggregates all tasks sharing one grouping key. Epic and
// sprint summaries share this shape.
type GroupSummaryRow struct {
	Key               string
	NumTasks          int
	TotalPlannedHours float64
	TotalRealHours    float64
	Difference        float64
	PctCompleted      float64
}

// StatusCount is the number of tasks carrying one distinct state string.
type StatusCount struct {
	State string
	Count int
}

// DailyLoadPoint holds the effort attributed to one calendar day by all tasks
// whose sprint window covers that day.
type DailyLoadPoint struct {
	Date         time.Time
	PlannedHours float64
	RealHours    float64
}

// EfficiencyBucket is the number of tasks falling into one efficiency category.
type EfficiencyBucket struct {
	Category string
	Count    int
}

// OverviewMetrics is the headline block shown on top of a report.
type OverviewMetrics struct {
	AvgEstimationAccuracy float64
	CompletedTasks        int
	TotalTasks            int
	PctCompleted          float64
	TotalPlannedHours     float64
	TotalRealHours        float64
	TotalDifference       float64
	TopContributors       []UserSummaryRow
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
