package rank

import (
	"fmt"
	"slices"
)

// Order is the output order of the selected sentences, which is also the
// order their texts are joined in before generation.
type Order string

const (
	// OrderScore returns the selection by descending score. Default.
	OrderScore Order = "score"
	// OrderDocument returns the same selection in original document order.
	OrderDocument Order = "document"
)

// ParseOrder validates an order string. Empty means OrderScore.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "":
		return OrderScore, nil
	case OrderScore, OrderDocument:
		return Order(s), nil
	}
	return "", fmt.Errorf("unknown order %q (want score or document)", s)
}

// Candidate is a scored sentence index awaiting selection.
type Candidate struct {
	Index int
	Score float64
}

// SelectTop returns the k highest scoring candidates, k clamped to
// [0, len(candidates)]. Equal scores are broken by ascending Index. Rank in
// the result is always the 1-based score rank, whatever the output order.
func SelectTop(candidates []Candidate, k int, order Order) []RankedCandidate {
	k = max(0, min(k, len(candidates)))
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, cmpCandidate)

	out := make([]RankedCandidate, k)
	for i := 0; i < k; i++ {
		out[i] = RankedCandidate{Candidate: sorted[i], Rank: i + 1}
	}
	if order == OrderDocument {
		slices.SortFunc(out, func(a, b RankedCandidate) int { return a.Index - b.Index })
	}
	return out
}

// RankedCandidate is a selected candidate with its score rank.
type RankedCandidate struct {
	Candidate
	Rank int
}

func cmpCandidate(a, b Candidate) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	return a.Index - b.Index
}
