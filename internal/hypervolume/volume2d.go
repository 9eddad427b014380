package hypervolume

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Algorithm names reported by Calculator.Algorithm.
const (
	AlgorithmExact2D       = "exact2d"
	AlgorithmExact3D       = "exact3d"
	AlgorithmExactND       = "exactnd"
	AlgorithmApproximation = "approximation"
)

// clip keeps the points strictly dominating ref in every coordinate.
// A point touching or exceeding the reference on any axis spans a box of
// zero measure and cannot change the union.
func clip(points [][]float64, ref []float64) [][]float64 {
	kept := make([][]float64, 0, len(points))
	for _, p := range points {
		inside := true
		for i, r := range ref {
			if !(p[i] < r) {
				inside = false
				break
			}
		}
		if inside {
			kept = append(kept, p)
		}
	}
	return kept
}

// boxVolume returns the volume of [p, ref] using scratch for the edge lengths.
func boxVolume(scratch, p, ref []float64) float64 {
	return floats.Prod(floats.SubTo(scratch, ref, p))
}

// Volume2D returns the exact area dominated by points and bounded by ref.
//
// Points are swept in ascending order of the first coordinate; each point
// adds the rectangle between it, the reference point and the best second
// coordinate seen so far. O(n log n).
func Volume2D(points [][]float64, ref []float64) float64 {
	pts := clip(points, ref)
	slices.SortFunc(pts, func(a, b []float64) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})

	area := 0.0
	bestY := ref[1]
	for _, p := range pts {
		if p[1] < bestY {
			area += (ref[0] - p[0]) * (bestY - p[1])
			bestY = p[1]
		}
	}
	return area
}
