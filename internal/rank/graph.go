package rank

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Graph is a dense, fully connected, undirected similarity graph over
// sentence indices. Weights lie in [0,1], the diagonal is always 0.
type Graph struct {
	n       int
	weights *mat.SymDense
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return g.n }

// Weight returns the similarity between nodes i and j.
func (g *Graph) Weight(i, j int) float64 {
	if g.n == 0 {
		return 0
	}
	return g.weights.At(i, j)
}

// BuildGraph computes pairwise cosine similarity between vectors. Rows are
// computed by at most workers goroutines (<=0 means GOMAXPROCS); each
// worker owns its row buffer and the matrix is filled by index afterwards,
// so the result never depends on scheduling.
func BuildGraph(vectors []TermVector, workers int) *Graph {
	n := len(vectors)
	if n == 0 {
		return &Graph{}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([][]float64, n)
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			row := make([]float64, n-i-1)
			for j := i + 1; j < n; j++ {
				row[j-i-1] = cosine(vectors[i], vectors[j])
			}
			rows[i] = row
			return nil
		})
	}
	_ = g.Wait()

	sym := mat.NewSymDense(n, nil)
	for i, row := range rows {
		for k, w := range row {
			sym.SetSym(i, i+1+k, w)
		}
	}
	return &Graph{n: n, weights: sym}
}

// cosine is 0 when either vector has zero norm.
func cosine(a, b TermVector) float64 {
	if a.Norm == 0 || b.Norm == 0 {
		return 0
	}
	sim := dot(a, b) / (a.Norm * b.Norm)
	// rounding can push identical vectors a hair above 1
	if sim > 1 {
		sim = 1
	}
	return sim
}
