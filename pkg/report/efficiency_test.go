package report

import (
	"testing"

	"github.com/sprintlens/sprintlens/pkg/task"
	"github.com/stretchr/testify/assert"
)

func TestEfficiencyRatio(t *testing.T) {
	tests := []struct {
		name    string
		planned float64
		real    float64
		want    float64
	}{
		{name: "no real hours", planned: 4.0, real: 0.0, want: 0.0},
		{name: "no estimate", planned: 0.0, real: 4.0, want: 0.0},
		{name: "on estimate", planned: 4.0, real: 4.0, want: 1.0},
		{name: "overran estimate", planned: 2.0, real: 4.0, want: 0.5},
		{name: "finished early", planned: 3.0, real: 2.0, want: 1.5},
		{name: "clamped at two", planned: 10.0, real: 2.0, want: 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EfficiencyRatio(tt.planned, tt.real))
		})
	}
}

func TestClassifyEfficiency(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 0.0, want: CategoryNoEstimate},
		{ratio: 0.1, want: CategoryFarUnder},
		{ratio: 0.49, want: CategoryFarUnder},
		{ratio: 0.5, want: CategoryUnder},
		{ratio: 0.79, want: CategoryUnder},
		{ratio: 0.8, want: CategoryAdequate},
		{ratio: 1.0, want: CategoryAdequate},
		{ratio: 1.24, want: CategoryAdequate},
		{ratio: 1.25, want: CategoryOver},
		{ratio: 1.99, want: CategoryOver},
		{ratio: 2.0, want: CategoryFarOver},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEfficiency(tt.ratio))
		})
	}
}

func TestEfficiencyDistribution(t *testing.T) {
	// given: two adequate tasks, one far over, plus tasks the distribution
	// must skip (not done, no estimate)
	records := []task.TaskRecord{
		doneTask("Ana", 4.0, 4.0),
		doneTask("Ana", 5.0, 4.5),
		doneTask("Bruno", 8.0, 2.0),
		doneTask("Bruno", 0.0, 3.0),
		{AssignedTo: "Carla", State: "em andamento", PlannedHours: 4.0, RealHours: 4.0},
	}

	// when
	buckets := EfficiencyDistribution(records, doneState)

	// then: buckets in category order, empty ones omitted
	assert.Equal(t, []EfficiencyBucket{
		{Category: CategoryAdequate, Count: 2},
		{Category: CategoryFarOver, Count: 1},
	}, buckets)
}

func TestEfficiencyDistribution_Empty(t *testing.T) {
	buckets := EfficiencyDistribution(nil, doneState)

	assert.Empty(t, buckets)
}
