package hypervolume

import (
	"fmt"
	"math/rand"
	"testing"
)

// BenchmarkExact measures the exact algorithms on simplex fronts.
func BenchmarkExact(b *testing.B) {
	cases := []struct {
		dims   int
		points int
	}{
		{2, 1000},
		{3, 1000},
		{4, 100},
		{5, 50},
	}

	for _, c := range cases {
		rng := rand.New(rand.NewSource(42))
		points := randomSimplexFront(rng, c.points, c.dims)
		ref := constantRef(c.dims, 1.1)
		calc := NewCalculator()

		b.Run(fmt.Sprintf("d=%d/n=%d", c.dims, c.points), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := calc.Compute(points, ref); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkApproximation measures the sampler at its default accuracy.
func BenchmarkApproximation(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	points := randomSimplexFront(rng, 50, 6)
	ref := constantRef(6, 1.1)
	a := Approximator{Epsilon: 0.05, Delta: 0.05}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Volume(points, ref, rng); err != nil {
			b.Fatal(err)
		}
	}
}
