// internal/matching/solver/munkres.go
package solver

import "assignment-workers/internal/common/errors"

// Munkres is the Kuhn-Munkres (Hungarian) algorithm with starred and primed
// zeros. It only accepts square matrices.
type Munkres struct{}

func NewMunkres() *Munkres { return &Munkres{} }

func (*Munkres) Name() string { return StrategyMunkres }

func (*Munkres) RequiresSquare() bool { return true }

func (s *Munkres) Solve(cost [][]int64) (Assignment, error) {
	rows, cols := shape(cost)
	if rows != cols {
		return nil, errors.NewNonSquareMatrixError(StrategyMunkres, rows, cols)
	}
	if err := checkRagged(cost, cols); err != nil {
		return nil, err
	}
	if rows == 0 {
		return Assignment{}, nil
	}

	m := newMunkresState(cost)
	m.run()
	return m.assignment(), nil
}

const (
	unmarked uint8 = iota
	starred
	primed
)

type munkresState struct {
	n          int
	c          [][]int64
	mark       [][]uint8
	rowCovered []bool
	colCovered []bool
	path       [][2]int
}

func newMunkresState(cost [][]int64) *munkresState {
	n := len(cost)
	m := &munkresState{
		n:          n,
		c:          make([][]int64, n),
		mark:       make([][]uint8, n),
		rowCovered: make([]bool, n),
		colCovered: make([]bool, n),
		path:       make([][2]int, 0, 2*n+1),
	}
	for i := range cost {
		m.c[i] = append([]int64(nil), cost[i]...)
		m.mark[i] = make([]uint8, n)
	}
	return m
}

func (m *munkresState) run() {
	m.reduceRows()
	m.starInitialZeros()
	for !m.coverStarredColumns() {
		row, col := m.primeUntilAugmentable()
		m.augmentPath(row, col)
	}
}

// reduceRows subtracts each row's minimum from the row.
func (m *munkresState) reduceRows() {
	for i := 0; i < m.n; i++ {
		lo := m.c[i][0]
		for _, v := range m.c[i][1:] {
			if v < lo {
				lo = v
			}
		}
		for j := range m.c[i] {
			m.c[i][j] -= lo
		}
	}
}

// starInitialZeros stars every zero with no other starred zero in its row or column.
func (m *munkresState) starInitialZeros() {
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if m.c[i][j] == 0 && !m.rowCovered[i] && !m.colCovered[j] {
				m.mark[i][j] = starred
				m.rowCovered[i] = true
				m.colCovered[j] = true
			}
		}
	}
	m.clearCovers()
}

// coverStarredColumns covers each column holding a starred zero and reports
// whether all columns are covered, i.e. the starred zeros form a complete
// assignment.
func (m *munkresState) coverStarredColumns() bool {
	count := 0
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if m.mark[i][j] == starred && !m.colCovered[j] {
				m.colCovered[j] = true
				count++
			}
		}
	}
	return count >= m.n
}

// primeUntilAugmentable primes uncovered zeros, adjusting covers, until it
// finds a primed zero with no starred zero in its row. The matrix is
// re-weighted whenever no uncovered zero remains.
func (m *munkresState) primeUntilAugmentable() (int, int) {
	for {
		row, col := m.findUncoveredZero()
		if row < 0 {
			m.adjustByMinimum()
			continue
		}

		m.mark[row][col] = primed
		starCol := m.findInRow(row, starred)
		if starCol < 0 {
			return row, col
		}
		m.rowCovered[row] = true
		m.colCovered[starCol] = false
	}
}

// augmentPath swaps stars and primes along the alternating path that starts
// at the primed zero (row, col), then resets covers and primes.
func (m *munkresState) augmentPath(row, col int) {
	m.path = m.path[:0]
	m.path = append(m.path, [2]int{row, col})
	for {
		r := m.findInCol(m.path[len(m.path)-1][1], starred)
		if r < 0 {
			break
		}
		m.path = append(m.path, [2]int{r, m.path[len(m.path)-1][1]})
		c := m.findInRow(r, primed)
		m.path = append(m.path, [2]int{r, c})
	}

	for _, p := range m.path {
		if m.mark[p[0]][p[1]] == starred {
			m.mark[p[0]][p[1]] = unmarked
		} else {
			m.mark[p[0]][p[1]] = starred
		}
	}

	m.clearCovers()
	for i := range m.mark {
		for j := range m.mark[i] {
			if m.mark[i][j] == primed {
				m.mark[i][j] = unmarked
			}
		}
	}
}

// adjustByMinimum adds the smallest uncovered value to covered rows and
// subtracts it from uncovered columns, creating a new uncovered zero without
// disturbing starred or primed zeros.
func (m *munkresState) adjustByMinimum() {
	lo := int64(infinity)
	for i := 0; i < m.n; i++ {
		if m.rowCovered[i] {
			continue
		}
		for j := 0; j < m.n; j++ {
			if !m.colCovered[j] && m.c[i][j] < lo {
				lo = m.c[i][j]
			}
		}
	}

	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if m.rowCovered[i] {
				m.c[i][j] += lo
			}
			if !m.colCovered[j] {
				m.c[i][j] -= lo
			}
		}
	}
}

func (m *munkresState) findUncoveredZero() (int, int) {
	for i := 0; i < m.n; i++ {
		if m.rowCovered[i] {
			continue
		}
		for j := 0; j < m.n; j++ {
			if !m.colCovered[j] && m.c[i][j] == 0 {
				return i, j
			}
		}
	}
	return -1, -1
}

func (m *munkresState) findInRow(row int, kind uint8) int {
	for j := 0; j < m.n; j++ {
		if m.mark[row][j] == kind {
			return j
		}
	}
	return -1
}

func (m *munkresState) findInCol(col int, kind uint8) int {
	for i := 0; i < m.n; i++ {
		if m.mark[i][col] == kind {
			return i
		}
	}
	return -1
}

func (m *munkresState) clearCovers() {
	for i := range m.rowCovered {
		m.rowCovered[i] = false
		m.colCovered[i] = false
	}
}

func (m *munkresState) assignment() Assignment {
	out := make(Assignment, m.n)
	for i := 0; i < m.n; i++ {
		out[i] = m.findInRow(i, starred)
	}
	return out
}
