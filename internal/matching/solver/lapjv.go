// internal/matching/solver/lapjv.go
package solver

import (
	"fmt"
	"math"
)

const infinity = math.MaxInt64

// LAPJV solves rectangular assignment problems with the shortest augmenting
// path method of Jonker and Volgenant, keeping row and column potentials so
// every reduced cost stays non-negative. When the matrix has more rows than
// columns it is solved transposed, leaving the surplus rows Unassigned.
type LAPJV struct{}

func NewLAPJV() *LAPJV { return &LAPJV{} }

func (*LAPJV) Name() string { return StrategyLAPJV }

func (*LAPJV) RequiresSquare() bool { return false }

func (s *LAPJV) Solve(cost [][]int64) (Assignment, error) {
	rows, cols := shape(cost)
	if err := checkRagged(cost, cols); err != nil {
		return nil, err
	}

	result := make(Assignment, rows)
	for i := range result {
		result[i] = Unassigned
	}
	if rows == 0 || cols == 0 {
		return result, nil
	}

	if rows <= cols {
		col4row, err := augment(cost, rows, cols)
		if err != nil {
			return nil, err
		}
		copy(result, col4row)
		return result, nil
	}

	// more rows than columns: every column gets a row
	row4col, err := augment(transpose(cost, rows, cols), cols, rows)
	if err != nil {
		return nil, err
	}
	for col, row := range row4col {
		result[row] = col
	}
	return result, nil
}

type lapState struct {
	cost     [][]int64
	nr, nc   int
	u, v     []int64
	col4row  []int
	row4col  []int
	path     []int
	shortest []int64
	sr, sc   []bool
	remain   []int
}

// augment assigns each of the nr rows (nr <= nc) to a distinct column, one
// shortest augmenting path at a time.
func augment(cost [][]int64, nr, nc int) ([]int, error) {
	st := &lapState{
		cost:     cost,
		nr:       nr,
		nc:       nc,
		u:        make([]int64, nr),
		v:        make([]int64, nc),
		col4row:  make([]int, nr),
		row4col:  make([]int, nc),
		path:     make([]int, nc),
		shortest: make([]int64, nc),
		sr:       make([]bool, nr),
		sc:       make([]bool, nc),
		remain:   make([]int, nc),
	}
	for i := range st.col4row {
		st.col4row[i] = Unassigned
	}
	for j := range st.row4col {
		st.row4col[j] = Unassigned
		st.path[j] = Unassigned
	}

	for cur := 0; cur < nr; cur++ {
		sink, minVal := st.shortestPath(cur)
		if sink < 0 {
			return nil, fmt.Errorf("lapjv: no augmenting path for row %d", cur)
		}

		// update duals
		st.u[cur] += minVal
		for i := 0; i < nr; i++ {
			if st.sr[i] && i != cur {
				st.u[i] += minVal - st.shortest[st.col4row[i]]
			}
		}
		for j := 0; j < nc; j++ {
			if st.sc[j] {
				st.v[j] -= minVal - st.shortest[j]
			}
		}

		// flip the path
		j := sink
		for {
			i := st.path[j]
			st.row4col[j] = i
			st.col4row[i], j = j, st.col4row[i]
			if i == cur {
				break
			}
		}
	}

	return st.col4row, nil
}

// shortestPath runs a Dijkstra search over reduced costs from row cur to the
// nearest free column. It returns that column and the path length.
func (st *lapState) shortestPath(cur int) (int, int64) {
	var minVal int64
	numRemaining := st.nc
	for it := 0; it < st.nc; it++ {
		// reversed so ties prefer lower column indices
		st.remain[it] = st.nc - it - 1
		st.sc[it] = false
		st.shortest[it] = infinity
	}
	for i := range st.sr {
		st.sr[i] = false
	}

	sink := -1
	i := cur
	for sink == -1 {
		index := -1
		lowest := int64(infinity)
		st.sr[i] = true

		for it := 0; it < numRemaining; it++ {
			j := st.remain[it]
			r := minVal + st.cost[i][j] - st.u[i] - st.v[j]
			if r < st.shortest[j] {
				st.path[j] = i
				st.shortest[j] = r
			}
			if st.shortest[j] < lowest || (st.shortest[j] == lowest && st.row4col[j] == Unassigned) {
				lowest = st.shortest[j]
				index = it
			}
		}

		minVal = lowest
		if minVal == infinity {
			return -1, 0
		}

		j := st.remain[index]
		if st.row4col[j] == Unassigned {
			sink = j
		} else {
			i = st.row4col[j]
		}

		st.sc[j] = true
		numRemaining--
		st.remain[index] = st.remain[numRemaining]
	}

	return sink, minVal
}

func transpose(cost [][]int64, rows, cols int) [][]int64 {
	t := make([][]int64, cols)
	for j := range t {
		t[j] = make([]int64, rows)
		for i := 0; i < rows; i++ {
			t[j][i] = cost[i][j]
		}
	}
	return t
}

func checkRagged(cost [][]int64, cols int) error {
	for i, row := range cost {
		if len(row) != cols {
			return fmt.Errorf("cost matrix row %d has %d columns, want %d", i, len(row), cols)
		}
	}
	return nil
}
