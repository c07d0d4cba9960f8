package report

import (
	"sort"

	"github.com/sprintlens/sprintlens/pkg/task"
)

// Efficiency categories, in reporting order. The label/threshold mapping is a
// frozen contract carried over from the original report: the ratio reads
// inverted, so a value below 1 means the task overran its estimate even
// though the label says "under".
const (
	CategoryNoEstimate = "no estimate"
	CategoryFarUnder   = "far under"
	CategoryUnder      = "under"
	CategoryAdequate   = "adequate"
	CategoryOver       = "over"
	CategoryFarOver    = "far over"
)

// EfficiencyCategories lists every category in its fixed ordinal order.
var EfficiencyCategories = []string{
	CategoryNoEstimate,
	CategoryFarUnder,
	CategoryUnder,
	CategoryAdequate,
	CategoryOver,
	CategoryFarOver,
}

// EfficiencyRatio is the planned-to-actual hour ratio of one task, clamped to
// [0, 2]. A task without actual hours is defined as 0, which also puts any
// task without an estimate into the "no estimate" bucket.
func EfficiencyRatio(plannedHours, realHours float64) float64 {
	if realHours == 0 {
		return 0
	}
	return clamp(plannedHours/realHours, 0, 2)
}

// ClassifyEfficiency buckets a clamped ratio into its ordinal category.
func ClassifyEfficiency(ratio float64) string {
	switch {
	case ratio == 0:
		return CategoryNoEstimate
	case ratio < 0.5:
		return CategoryFarUnder
	case ratio < 0.8:
		return CategoryUnder
	case ratio < 1.25:
		return CategoryAdequate
	case ratio < 2:
		return CategoryOver
	default:
		return CategoryFarOver
	}
}

// EfficiencyDistribution counts completed tasks with an estimate per
// efficiency category. Buckets follow the fixed category order; empty
// buckets are omitted.
func EfficiencyDistribution(records []task.TaskRecord, doneState string) []EfficiencyBucket {
	counts := make(map[string]int)
	for _, record := range records {
		if !record.IsDone(doneState) || record.PlannedHours <= 0 {
			continue
		}
		category := ClassifyEfficiency(EfficiencyRatio(record.PlannedHours, record.RealHours))
		counts[category]++
	}

	order := make(map[string]int, len(EfficiencyCategories))
	for i, category := range EfficiencyCategories {
		order[category] = i
	}

	buckets := make([]EfficiencyBucket, 0, len(counts))
	for category, count := range counts {
		buckets = append(buckets, EfficiencyBucket{Category: category, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return order[buckets[i].Category] < order[buckets[j].Category]
	})
	return buckets
}
