// internal/matching/aggregate.go
package matching

import "assignment-workers/internal/matching/solver"

// Pair is one matched (product, customer) slot of a solved assignment.
// Pairs touching a padded row or column are not reported.
type Pair struct {
	ProductIndex  int    `json:"productIndex"`
	CustomerIndex int    `json:"customerIndex"`
	Product       string `json:"product"`
	Customer      string `json:"customer"`
	Similarity    int64  `json:"similarity"`
}

// Aggregate sums MaxVal - cost over the matched pairs and divides by the scale
// factor. Padded slots cost MaxVal and therefore add nothing.
func Aggregate(assignment solver.Assignment, cost CostMatrix, maxVal, scaleFactor int64) float64 {
	var total int64
	for row, col := range assignment {
		if col == solver.Unassigned {
			continue
		}
		total += maxVal - cost[row][col]
	}
	return float64(total) / float64(scaleFactor)
}

// matchedPairs lists the assignment pairs that refer to real products and customers.
func matchedPairs(inst *MatchInstance, assignment solver.Assignment, cost CostMatrix, maxVal int64) []Pair {
	pairs := make([]Pair, 0, min(len(inst.Products), len(inst.Customers)))
	for row, col := range assignment {
		if col == solver.Unassigned || row >= len(inst.Products) || col >= len(inst.Customers) {
			continue
		}
		pairs = append(pairs, Pair{
			ProductIndex:  row,
			CustomerIndex: col,
			Product:       inst.Products[row].Name,
			Customer:      inst.Customers[col].Name,
			Similarity:    maxVal - cost[row][col],
		})
	}
	return pairs
}
