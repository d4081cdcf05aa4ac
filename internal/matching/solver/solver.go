// Package solver implements minimum-cost linear assignment over integer cost
// matrices. Two interchangeable strategies are provided: a Jonker-Volgenant
// shortest augmenting path solver that accepts rectangular matrices, and the
// classical Kuhn-Munkres algorithm, which needs a square matrix.
package solver

import (
	"strings"

	"assignment-workers/internal/common/errors"
)

const (
	StrategyLAPJV   = "lapjv"
	StrategyMunkres = "munkres"

	// DefaultStrategy is used when no strategy is configured.
	DefaultStrategy = StrategyLAPJV
)

// Unassigned marks a row that has no column in the assignment. Only possible
// when a rectangular matrix has more rows than columns.
const Unassigned = -1

// Assignment maps each row index to its matched column index.
type Assignment []int

// Cost sums cost[row][col] over the matched pairs.
func (a Assignment) Cost(cost [][]int64) int64 {
	var total int64
	for row, col := range a {
		if col == Unassigned {
			continue
		}
		total += cost[row][col]
	}
	return total
}

// Solver finds an assignment of minimum total cost.
type Solver interface {
	Name() string
	// RequiresSquare reports whether callers must pad the matrix to square
	// before calling Solve.
	RequiresSquare() bool
	Solve(cost [][]int64) (Assignment, error)
}

// New returns the solver registered under name. An empty name selects
// DefaultStrategy.
func New(name string) (Solver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyLAPJV:
		return NewLAPJV(), nil
	case StrategyMunkres:
		return NewMunkres(), nil
	default:
		return nil, errors.NewUnknownStrategyError(name)
	}
}

// Strategies lists the recognized strategy names.
func Strategies() []string {
	return []string{StrategyLAPJV, StrategyMunkres}
}

func shape(cost [][]int64) (rows, cols int) {
	rows = len(cost)
	if rows > 0 {
		cols = len(cost[0])
	}
	return rows, cols
}
