package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assignment-workers/internal/matching/solver"
)

func TestAggregate(t *testing.T) {
	const maxVal = int64(1000)
	cost := CostMatrix{
		{maxVal - 150, maxVal - 300, maxVal},
		{maxVal - 150, maxVal - 300, maxVal},
		{maxVal, maxVal, maxVal},
	}

	tests := []struct {
		name       string
		assignment solver.Assignment
		want       float64
	}{
		{"optimal", solver.Assignment{0, 1, 2}, 4.5},
		{"padding column contributes nothing", solver.Assignment{2, 1, 0}, 3},
		{"unassigned rows skipped", solver.Assignment{solver.Unassigned, 0, solver.Unassigned}, 1.5},
		{"empty", solver.Assignment{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.assignment, cost, maxVal, DefaultScaleFactor))
		})
	}
}

func TestMatchedPairs_SkipsPadding(t *testing.T) {
	const maxVal = int64(1000)
	inst := NewMatchInstance([]string{"abe"}, []string{"cod", "tim"})
	cost := CostMatrix{
		{maxVal - 150, maxVal},
		{maxVal - 150, maxVal},
	}

	pairs := matchedPairs(inst, solver.Assignment{1, 0}, cost, maxVal)
	assert.Equal(t, []Pair{{
		ProductIndex:  1,
		CustomerIndex: 0,
		Product:       "tim",
		Customer:      "abe",
		Similarity:    150,
	}}, pairs)
}
