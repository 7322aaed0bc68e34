// Package candidate defines a ranked retrieval hit.
package candidate

import (
	"sort"

	"github.com/shoplens/discovery/internal/domain"
)

// Candidate is a Product paired with a dimensionless relevance score.
type Candidate struct {
	Product domain.Product
	Score   float64
}

// SortByScore orders candidates by descending score. The sort is stable so
// ties keep their original corpus order and repeated identical queries
// against an unchanged corpus yield identical orderings.
func SortByScore(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
}

// Products extracts the product records in ranked order.
func Products(cands []Candidate) []domain.Product {
	out := make([]domain.Product, len(cands))
	for i, c := range cands {
		out[i] = c.Product
	}
	return out
}
