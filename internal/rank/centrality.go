package rank

import (
	"gonum.org/v1/gonum/floats"
)

// Power iteration defaults, used for any unset CentralityOptions field.
const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// CentralityOptions tunes the power iteration.
type CentralityOptions struct {
	Damping       float64
	Tolerance     float64
	MaxIterations int
}

func (o CentralityOptions) withDefaults() CentralityOptions {
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Centrality is the outcome of one power iteration run. When Converged is
// false the scores are the last iterate and still form a distribution.
type Centrality struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// Rank scores every node of g with damped PageRank over the row-normalized
// similarity weights. A node whose row sums to zero jumps uniformly to all
// nodes, which keeps the transition matrix stochastic and the scores
// summing to 1.
func (o CentralityOptions) Rank(g *Graph) Centrality {
	n := g.Len()
	switch n {
	case 0:
		return Centrality{Converged: true}
	case 1:
		return Centrality{Scores: []float64{1}, Converged: true}
	}
	o = o.withDefaults()

	rowSum := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rowSum[i] += g.Weight(i, j)
		}
	}

	nf := float64(n)
	base := (1 - o.Damping) / nf
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1 / nf
	}

	next := make([]float64, n)
	for iter := 1; iter <= o.MaxIterations; iter++ {
		dangling := 0.0
		for i := 0; i < n; i++ {
			if rowSum[i] == 0 {
				dangling += scores[i]
			}
		}
		for j := 0; j < n; j++ {
			link := dangling / nf
			for i := 0; i < n; i++ {
				if rowSum[i] == 0 || i == j {
					continue
				}
				link += scores[i] * g.Weight(i, j) / rowSum[i]
			}
			next[j] = base + o.Damping*link
		}

		delta := floats.Distance(next, scores, 1)
		scores, next = next, scores
		if delta < o.Tolerance {
			return Centrality{Scores: scores, Iterations: iter, Converged: true}
		}
	}
	return Centrality{Scores: scores, Iterations: o.MaxIterations, Converged: false}
}
