package hypervolume

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestApproximatorValidate(t *testing.T) {
	tests := []struct {
		name    string
		eps     float64
		delta   float64
		wantErr bool
	}{
		{name: "defaults", eps: DefaultEpsilon, delta: DefaultDelta},
		{name: "loose", eps: 0.5, delta: 0.5},
		{name: "epsilon zero", eps: 0, delta: 0.1, wantErr: true},
		{name: "epsilon one", eps: 1, delta: 0.1, wantErr: true},
		{name: "delta negative", eps: 0.1, delta: -0.1, wantErr: true},
		{name: "delta one", eps: 0.1, delta: 1, wantErr: true},
		{name: "infinite", eps: math.Inf(1), delta: 0.1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Approximator{Epsilon: tt.eps, Delta: tt.delta}.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfiguration))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestApproximatorTrials(t *testing.T) {
	a := Approximator{Epsilon: 0.5, Delta: 0.5}
	// 12 * log2(1/0.5) * n / 0.5^2
	assert.Equal(t, 48*3, a.Trials(3))

	tighter := Approximator{Epsilon: 0.25, Delta: 0.5}
	assert.Equal(t, 4*a.Trials(10), tighter.Trials(10))
}

func TestApproximatorTrialsSaturate(t *testing.T) {
	tests := []struct {
		name string
		a    Approximator
		n    int
	}{
		{name: "tiny epsilon", a: Approximator{Epsilon: 1e-12, Delta: 0.5}, n: 1000},
		{name: "tiny epsilon and delta", a: Approximator{Epsilon: 1e-12, Delta: 1e-300}, n: 1000},
		{name: "denormal epsilon", a: Approximator{Epsilon: 5e-324, Delta: 0.5}, n: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.a.Validate())
			assert.Equal(t, math.MaxInt, tt.a.Trials(tt.n))
		})
	}
}

func TestApproximatorFailsBeforeSampling(t *testing.T) {
	points := [][]float64{{0, 0.5, 0, 0}, {0.5, 0, 0, 0}}
	tests := []struct {
		name    string
		a       Approximator
		wantErr error
	}{
		{name: "invalid epsilon", a: Approximator{Epsilon: 0, Delta: 0.5}, wantErr: ErrInvalidConfiguration},
		{name: "budget overflow", a: Approximator{Epsilon: 1e-12, Delta: 1e-300}, wantErr: ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &countingRand{Rand: rand.New(rand.NewSource(1))}
			v, err := tt.a.Volume(points, constantRef(4, 1), rng)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, v)
			assert.Zero(t, rng.calls)
		})
	}
}

func TestApproximatorDegenerateInput(t *testing.T) {
	a := Approximator{Epsilon: 0.1, Delta: 0.1}
	v, err := a.Volume([][]float64{{1, 0, 0, 0}, {2, 2, 2, 2}}, constantRef(4, 1), nil)
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = a.Volume([][]float64{{0.5, 0, 0, 0}, {3, 0, 0, 0}}, constantRef(4, 1), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)
}

func TestApproximatorBound(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	points := randomSimplexFront(rng, 8, 4)
	ref := constantRef(4, 1.1)
	exact := VolumeND(points, ref)

	a := Approximator{Epsilon: 0.05, Delta: 0.1}
	const runs = 30
	failures := 0
	estimates := make([]float64, runs)
	for i := range estimates {
		v, err := a.Volume(points, ref, rng)
		require.NoError(t, err)
		estimates[i] = v
		if math.Abs(v-exact) > a.Epsilon*exact {
			failures++
		}
	}

	// Expected failures are at most Delta*runs = 3; allow sampling slack.
	assert.LessOrEqual(t, failures, 6, "estimates %v, exact %v", estimates, exact)
	assert.InDelta(t, exact, stat.Mean(estimates, nil), a.Epsilon*exact)
}

func TestApproximatorLiftedThreeDimensionalSet(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	base := randomSimplexFront(rng, 10, 3)
	ref3 := constantRef(3, 1.2)
	exact := Volume3D(base, ref3)

	lifted := make([][]float64, len(base))
	for i, p := range base {
		lifted[i] = []float64{p[0], p[1], p[2], 0, 0}
	}
	ref5 := append(append([]float64(nil), ref3...), 1, 1)

	calc := NewCalculator(WithRand(rng))
	calc.UseApproximation = true
	calc.SetApproximationEpsilon(0.05)
	calc.SetApproximationDelta(0.05)

	v := mustCompute(t, calc, lifted, ref5)
	assert.InDelta(t, exact, v, 2*calc.ApproximationEpsilon()*exact)
}

func TestApproximatorConcurrentCalls(t *testing.T) {
	points := randomSimplexFront(rand.New(rand.NewSource(47)), 6, 4)
	ref := constantRef(4, 1.1)
	exact := VolumeND(points, ref)

	var wg sync.WaitGroup
	results := make([]float64, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := Approximator{Epsilon: 0.1 + 0.01*float64(i), Delta: 0.1}
			results[i], errs[i] = a.Volume(points, ref, rand.New(rand.NewSource(int64(i+1))))
		}(i)
	}
	wg.Wait()

	for i, v := range results {
		require.NoError(t, errs[i])
		assert.InDelta(t, exact, v, 0.5*exact, "run %d", i)
	}
}

func TestApproximatorDefaultRand(t *testing.T) {
	points := randomSimplexFront(rand.New(rand.NewSource(53)), 4, 4)
	ref := constantRef(4, 1.1)
	v, err := Approximator{Epsilon: 0.2, Delta: 0.2}.Volume(points, ref, nil)
	require.NoError(t, err)
	assert.InDelta(t, VolumeND(points, ref), v, 0.5*v)

	assert.Equal(t, DefaultRand, NewRand(0))
	assert.NotEqual(t, DefaultRand, NewRand(9))
}

type countingRand struct {
	*rand.Rand
	calls int
}

func (r *countingRand) Float64() float64 {
	r.calls++
	return r.Rand.Float64()
}

func (r *countingRand) Intn(n int) int {
	r.calls++
	return r.Rand.Intn(n)
}

func TestNewRandSeeded(t *testing.T) {
	a, b := NewRand(11), NewRand(11)
	for i := 0; i < 8; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}

	points := randomSimplexFront(rand.New(rand.NewSource(5)), 6, 4)
	ref := constantRef(4, 1.1)
	first, err := Approximator{Epsilon: 0.3, Delta: 0.3}.Volume(points, ref, NewRand(3))
	require.NoError(t, err)
	second, err := Approximator{Epsilon: 0.3, Delta: 0.3}.Volume(points, ref, NewRand(3))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
