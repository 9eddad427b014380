package hypervolume

import (
	"cmp"
	"slices"
	"sort"
)

// front2D is the non-dominated staircase of the (x, y) projections swept
// so far, ordered by ascending x (and therefore strictly descending y),
// together with the area it dominates up to the reference corner.
type front2D struct {
	xs, ys []float64
	refX   float64
	refY   float64
	area   float64
}

// insert adds (px, py) to the staircase and updates the dominated area.
// A point weakly dominated by the staircase leaves it unchanged.
func (f *front2D) insert(px, py float64) {
	n := len(f.xs)
	idx := sort.SearchFloat64s(f.xs, px) // first member with x >= px

	if idx > 0 && f.ys[idx-1] <= py {
		return
	}
	if idx < n && f.xs[idx] == px && f.ys[idx] <= py {
		return
	}

	// Walk the members p dominates, accumulating the exclusive strip
	// under the staircase level between consecutive x positions.
	level := f.refY
	if idx > 0 {
		level = f.ys[idx-1]
	}
	curX := px
	added := 0.0
	j := idx
	for ; j < n && f.ys[j] >= py; j++ {
		added += (f.xs[j] - curX) * (level - py)
		curX, level = f.xs[j], f.ys[j]
	}
	endX := f.refX
	if j < n {
		endX = f.xs[j]
	}
	added += (endX - curX) * (level - py)
	f.area += added

	f.xs = slices.Replace(f.xs, idx, j, px)
	f.ys = slices.Replace(f.ys, idx, j, py)
}

// Volume3D returns the exact volume dominated by points and bounded by ref.
//
// Points are swept in ascending order of the third coordinate. Between two
// consecutive sweep positions the dominated cross-section is the area of
// the 2D staircase of all points seen so far, so each slab contributes
// area * thickness. The staircase is kept sorted by x with binary-search
// insertion.
func Volume3D(points [][]float64, ref []float64) float64 {
	pts := clip(points, ref)
	slices.SortFunc(pts, func(a, b []float64) int {
		for _, i := range [...]int{2, 0, 1} {
			if c := cmp.Compare(a[i], b[i]); c != 0 {
				return c
			}
		}
		return 0
	})

	f := &front2D{
		xs:   make([]float64, 0, len(pts)),
		ys:   make([]float64, 0, len(pts)),
		refX: ref[0],
		refY: ref[1],
	}

	volume := 0.0
	prevZ := ref[2]
	if len(pts) > 0 {
		prevZ = pts[0][2]
	}
	for _, p := range pts {
		volume += f.area * (p[2] - prevZ)
		prevZ = p[2]
		f.insert(p[0], p[1])
	}
	volume += f.area * (ref[2] - prevZ)
	return volume
}
