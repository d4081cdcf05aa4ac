// internal/matching/costmatrix.go
package matching

import (
	"math"

	"assignment-workers/internal/common/errors"
)

const (
	// DefaultMaxVal is the "no compatibility" cost ceiling shared by all solvers.
	DefaultMaxVal int64 = math.MaxInt32

	// DefaultScaleFactor turns fractional scores into integer costs.
	DefaultScaleFactor int64 = 100
)

// CostMatrix is indexed [product][customer]. Entries lie in [0, MaxVal].
type CostMatrix [][]int64

func (m CostMatrix) Rows() int { return len(m) }

func (m CostMatrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func (m CostMatrix) IsSquare() bool { return m.Rows() == m.Cols() }

// MatrixBuilder converts pairwise compatibility scores into solver costs.
type MatrixBuilder struct {
	ScaleFactor int64
	MaxVal      int64
}

func NewMatrixBuilder(scaleFactor, maxVal int64) *MatrixBuilder {
	return &MatrixBuilder{ScaleFactor: scaleFactor, MaxVal: maxVal}
}

// Scale multiplies score by the scale factor and truncates toward zero.
func (b *MatrixBuilder) Scale(score float64) int64 {
	return int64(score * float64(b.ScaleFactor))
}

// Build returns the product x customer cost matrix. With pad set, the matrix is
// extended to max(products, customers) square with MaxVal dummy rows or columns.
func (b *MatrixBuilder) Build(inst *MatchInstance, pad bool) (CostMatrix, error) {
	products, customers := len(inst.Products), len(inst.Customers)

	width := customers
	if pad && products > customers {
		width = products
	}

	m := make(CostMatrix, 0, max(products, customers))
	for _, product := range inst.Products {
		row := make([]int64, width)
		for c, customer := range inst.Customers {
			scaled := b.Scale(Compatibility(product, customer))
			if scaled > b.MaxVal {
				return nil, errors.NewScoreOverflowError(scaled, b.MaxVal)
			}
			row[c] = b.MaxVal - scaled
		}
		for c := customers; c < width; c++ {
			row[c] = b.MaxVal
		}
		m = append(m, row)
	}

	if pad {
		for r := products; r < customers; r++ {
			row := make([]int64, width)
			for c := range row {
				row[c] = b.MaxVal
			}
			m = append(m, row)
		}
	}

	return m, nil
}
