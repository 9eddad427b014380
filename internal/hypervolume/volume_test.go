package hypervolume

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolume2D(t *testing.T) {
	tests := []struct {
		name     string
		points   [][]float64
		ref      []float64
		expected float64
	}{
		{
			name:     "staircase",
			points:   [][]float64{{1, 4}, {2, 2}, {3, 1}},
			ref:      []float64{4, 4},
			expected: 5, // (4-2)*(4-2) + (4-3)*(2-1); (1,4) lies on the reference edge
		},
		{
			name:     "single point",
			points:   [][]float64{{1, 2}},
			ref:      []float64{3, 5},
			expected: 6,
		},
		{
			name:     "unsorted input",
			points:   [][]float64{{3, 0}, {0, 3}, {1, 1}},
			ref:      []float64{4, 4},
			expected: 4 + 6 + 1,
		},
		{
			name:     "duplicates add nothing",
			points:   [][]float64{{1, 1}, {1, 1}, {1, 1}},
			ref:      []float64{2, 3},
			expected: 2,
		},
		{
			name:     "point beyond reference",
			points:   [][]float64{{1, 1}, {5, 0}},
			ref:      []float64{3, 3},
			expected: 4,
		},
		{
			name:     "nothing inside",
			points:   [][]float64{{3, 0}, {0, 3}},
			ref:      []float64{3, 3},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Volume2D(tt.points, tt.ref), 1e-12)
		})
	}
}

func TestVolume3D(t *testing.T) {
	tests := []struct {
		name     string
		points   [][]float64
		ref      []float64
		expected float64
	}{
		{
			name:     "single point",
			points:   [][]float64{{1, 2, 3}},
			ref:      []float64{2, 4, 6},
			expected: 1 * 2 * 3,
		},
		{
			name:     "two overlapping boxes",
			points:   [][]float64{{0, 0, 1}, {1, 1, 0}},
			ref:      []float64{2, 2, 2},
			expected: 4 + 2 - 1,
		},
		{
			name:     "same z",
			points:   [][]float64{{0, 1, 0}, {1, 0, 0}},
			ref:      []float64{2, 2, 1},
			expected: 3,
		},
		{
			name:     "same x replaces weaker member",
			points:   [][]float64{{0, 1, 0}, {0, 0, 1}},
			ref:      []float64{1, 2, 2},
			expected: 2 + 2 - 1,
		},
		{
			name:     "duplicates and boundary points",
			points:   [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 1}, {1, 0, 0}},
			ref:      []float64{1, 1, 1},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Volume3D(tt.points, tt.ref), 1e-12)
		})
	}
}

func TestVolumeND(t *testing.T) {
	tests := []struct {
		name     string
		points   [][]float64
		ref      []float64
		expected float64
	}{
		{
			name:     "single point",
			points:   [][]float64{{1, 1, 1, 1}},
			ref:      []float64{2, 3, 4, 5},
			expected: 1 * 2 * 3 * 4,
		},
		{
			name:     "two points",
			points:   [][]float64{{0, 0, 0, 1}, {1, 1, 1, 0}},
			ref:      []float64{2, 2, 2, 2},
			expected: 8 + 2 - 1,
		},
		{
			name:     "all outside",
			points:   [][]float64{{2, 0, 0, 0}},
			ref:      []float64{2, 2, 2, 2},
			expected: 0,
		},
		{
			name:     "unit corners",
			points:   [][]float64{{0, 1, 1, 1, 1}, {1, 0, 1, 1, 1}, {1, 1, 0, 1, 1}, {1, 1, 1, 0, 1}, {1, 1, 1, 1, 0}},
			ref:      []float64{2, 2, 2, 2, 2},
			expected: 5*2 - 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, VolumeND(tt.points, tt.ref), 1e-12)
		})
	}
}

func TestExactAlgorithmsMatchGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	algorithms := map[int]func([][]float64, []float64) float64{
		2: Volume2D,
		3: Volume3D,
		4: VolumeND,
		5: VolumeND,
	}
	for d, volume := range algorithms {
		const side = 6
		for trial := 0; trial < 25; trial++ {
			points := randomIntegerFront(rng, 4+rng.Intn(20), d, side)
			want := gridVolume(points, d, side)
			got := volume(points, constantRef(d, side))
			require.InDelta(t, want, got, 1e-9, "d=%d trial=%d points=%v", d, trial, points)
		}
	}
}

func TestVolumeNDAgreesWithLowerDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	for trial := 0; trial < 20; trial++ {
		points := randomSimplexFront(rng, 30, 3)
		ref := constantRef(3, 1.5)
		want := Volume3D(points, ref)

		// lift: a constant fourth coordinate scales the volume by its extent
		lifted := make([][]float64, len(points))
		for i, p := range points {
			lifted[i] = append(append([]float64(nil), p...), 0.25)
		}
		got := VolumeND(lifted, append(append([]float64(nil), ref...), 1.25))
		assert.InDelta(t, want, got, 1e-9*want)

		assert.InDelta(t, want, VolumeND(points, ref), 1e-9*want, "VolumeND on 3D input")
	}

	for trial := 0; trial < 20; trial++ {
		points := randomSimplexFront(rng, 25, 2)
		ref := constantRef(2, 1.1)
		assert.InDelta(t, Volume2D(points, ref), VolumeND(points, ref), 1e-12)
		assert.InDelta(t, Volume2D(points, ref), Volume3D(liftTo3D(points), append(ref, 1)), 1e-12)
	}
}

func liftTo3D(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = []float64{p[0], p[1], 0}
	}
	return out
}

func TestOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	for _, d := range []int{2, 3, 4, 5} {
		points := randomSimplexFront(rng, 40, d)
		ref := constantRef(d, 1.2)
		calc := NewCalculator()
		want := mustCompute(t, calc, points, ref)
		for trial := 0; trial < 10; trial++ {
			got := mustCompute(t, calc, shuffled(rng, points), ref)
			require.Equal(t, want, got, "d=%d permutation %d", d, trial)
		}
	}
}

func TestMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	calc := NewCalculator()
	for _, d := range []int{2, 3, 4} {
		points := randomSimplexFront(rng, 24, d)
		ref := constantRef(d, 1.1)

		prev := 0.0
		for n := 1; n <= len(points); n++ {
			v := mustCompute(t, calc, points[:n], ref)
			assert.GreaterOrEqual(t, v, prev-1e-12, "d=%d adding point %d decreased the volume", d, n)
			prev = v
		}

		farther := constantRef(d, 1.5)
		assert.Greater(t, mustCompute(t, calc, points, farther), prev)
	}
}

func TestVolumesDoNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for _, d := range []int{2, 3, 4} {
		points := randomSimplexFront(rng, 15, d)
		before := cloneRows(points)
		ref := constantRef(d, 1)

		switch d {
		case 2:
			Volume2D(points, ref)
		case 3:
			Volume3D(points, ref)
		default:
			VolumeND(points, ref)
		}
		assert.Equal(t, before, points)
		assert.Equal(t, constantRef(d, 1), ref)
	}
}
