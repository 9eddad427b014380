package hypervolume

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/hypervol/internal/hypervolume/orderstat"
)

// VolumeND returns the exact volume dominated by points and bounded by ref
// for any dimensionality.
//
// The dominated region is the union of the boxes [p, ref]. The solver
// recursively cuts the bounding region [lo, hi] into two slabs along one
// coordinate until every slab is empty, fully covered by a single box, or
// meets only one box. Cuts are placed at a balanced split of the box
// corners lying inside the region (orderstat.PartitionEqually), so each
// slab sees roughly half the corners along the cut axis. Worst-case cost
// remains exponential in the dimension.
//
// Every decision depends only on the multiset of points, so the result is
// bit-identical for any ordering of the input.
func VolumeND(points [][]float64, ref []float64) float64 {
	boxes := clip(points, ref)
	if len(boxes) == 0 {
		return 0
	}

	lo := slices.Clone(boxes[0])
	for _, p := range boxes[1:] {
		for i, v := range p {
			if v < lo[i] {
				lo[i] = v
			}
		}
	}

	s := &ndSolver{
		dims:    len(ref),
		scratch: make([]float64, len(ref)),
		counts:  make([]int, len(ref)),
	}
	return s.volume(lo, slices.Clone(ref), boxes)
}

type ndSolver struct {
	dims    int
	scratch []float64
	counts  []int
}

// volume measures the union of the boxes [p, ref] inside [lo, hi].
// Every box passed in intersects the region with positive measure.
func (s *ndSolver) volume(lo, hi []float64, boxes [][]float64) float64 {
	switch len(boxes) {
	case 0:
		return 0
	case 1:
		return s.clippedVolume(lo, hi, boxes[0])
	}

	for i := range s.counts {
		s.counts[i] = 0
	}
	for _, p := range boxes {
		covers := true
		for i, v := range p {
			if v > lo[i] {
				s.counts[i]++
				covers = false
			}
		}
		if covers {
			return floats.Prod(floats.SubTo(s.scratch, hi, lo))
		}
	}

	axis := 0
	for i, c := range s.counts {
		if c > s.counts[axis] {
			axis = i
		}
	}

	cut := s.split(lo[axis], axis, boxes)

	below := make([][]float64, 0, len(boxes))
	for _, p := range boxes {
		if p[axis] < cut {
			below = append(below, p)
		}
	}
	loHi := slices.Clone(hi)
	loHi[axis] = cut
	volLower := s.volume(lo, loHi, below)

	hiLo := slices.Clone(lo)
	hiLo[axis] = cut
	volUpper := s.volume(hiLo, hi, boxes)

	return volLower + volUpper
}

// split picks the cut position along axis: the smallest corner coordinate
// of the right part of a balanced partition of the interior corners.
func (s *ndSolver) split(lower float64, axis int, boxes [][]float64) float64 {
	coords := make([]float64, 0, len(boxes))
	for _, p := range boxes {
		if p[axis] > lower {
			coords = append(coords, p[axis])
		}
	}
	at := orderstat.PartitionEqually(coords)
	if at == len(coords) {
		return coords[0]
	}
	return slices.Min(coords[at:])
}

func (s *ndSolver) clippedVolume(lo, hi, p []float64) float64 {
	for i := range s.scratch {
		s.scratch[i] = hi[i] - max(p[i], lo[i])
	}
	return floats.Prod(s.scratch)
}
