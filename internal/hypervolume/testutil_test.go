package hypervolume

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/copyleftdev/hypervol/internal/hypervolume/orderstat"
)

// dominates reports whether a Pareto-dominates b under minimization.
func dominates(a, b []float64) bool {
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

// nonDominated filters points down to its mutually non-dominated members.
func nonDominated(points [][]float64) [][]float64 {
	var front [][]float64
	for i, p := range points {
		dominated := false
		for j, q := range points {
			if i != j && dominates(q, p) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, p)
		}
	}
	return front
}

// randomIntegerFront draws n integer points in [0, side)^d and keeps the
// non-dominated ones.
func randomIntegerFront(rng *rand.Rand, n, d, side int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, d)
		for k := range p {
			p[k] = float64(rng.Intn(side))
		}
		points[i] = p
	}
	return nonDominated(points)
}

// randomSimplexFront draws n points on the unit simplex; any such set is
// mutually non-dominated.
func randomSimplexFront(rng *rand.Rand, n, d int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, d)
		sum := 0.0
		for k := range p {
			p[k] = rng.ExpFloat64()
			sum += p[k]
		}
		for k := range p {
			p[k] /= sum
		}
		points[i] = p
	}
	return points
}

// gridVolume counts the unit cells of [0, side)^d dominated by integer
// points. It is exact for integer coordinates and a reference of all side.
func gridVolume(points [][]float64, d, side int) float64 {
	cell := make([]int, d)
	total := 0
	cells := int(math.Pow(float64(side), float64(d)))
	for idx := 0; idx < cells; idx++ {
		rest := idx
		for k := range cell {
			cell[k] = rest % side
			rest /= side
		}
		for _, p := range points {
			covered := true
			for k := range cell {
				if p[k] > float64(cell[k]) {
					covered = false
					break
				}
			}
			if covered {
				total++
				break
			}
		}
	}
	return float64(total)
}

func constantRef(d int, v float64) []float64 {
	ref := make([]float64, d)
	for i := range ref {
		ref[i] = v
	}
	return ref
}

// shuffled returns a random permutation of points.
func shuffled(rng *rand.Rand, points [][]float64) [][]float64 {
	out := slices.Clone(points)
	orderstat.PartialShuffle(out, len(out), rng)
	return out
}

func cloneRows(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = slices.Clone(p)
	}
	return out
}

func mustCompute(t *testing.T, c *Calculator, points [][]float64, ref []float64) float64 {
	t.Helper()
	v, err := c.Compute(points, ref)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return v
}
