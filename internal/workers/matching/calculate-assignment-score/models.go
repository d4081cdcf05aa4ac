package calculateassignmentscore

import "assignment-workers/internal/matching"

// Input carries either a raw line or the customer and product lists.
type Input struct {
	Line      string   `json:"line,omitempty"`
	Customers []string `json:"customers,omitempty"`
	Products  []string `json:"products,omitempty"`
	Strategy  string   `json:"strategy,omitempty"`
}

type Output struct {
	ResultID       string          `json:"resultId"`
	Score          float64         `json:"score"`
	FormattedScore string          `json:"formattedScore"`
	Strategy       string          `json:"strategy"`
	Pairs          []matching.Pair `json:"pairs"`
	Cached         bool            `json:"cached"`
}
