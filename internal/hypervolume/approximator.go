package hypervolume

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Default approximation parameters.
const (
	DefaultEpsilon = 1e-2
	DefaultDelta   = 1e-2
)

// Approximator estimates the hypervolume by Monte-Carlo sampling with an
// (epsilon, delta) guarantee: with probability at least 1-Delta the
// estimate is within relative error Epsilon of the true value.
//
// The estimator is the Karp-Luby-Madras coverage scheme over the boxes
// [p, ref]. A round draws a box with probability proportional to its
// volume and a uniform point x inside it, then draws boxes uniformly until
// one contains x. The expected number of draws per round is n/c(x), with
// c(x) the number of boxes covering x, which makes
// totalVolume * trials / (n * rounds) an unbiased ratio estimate of the
// union volume. The trial budget grows with n/epsilon^2 and log(1/delta).
//
// Epsilon and Delta are read on every call. An Approximator holds no
// sampling state, so concurrent calls only share the supplied Rand.
type Approximator struct {
	Epsilon float64 `json:"epsilon" yaml:"epsilon" toml:"epsilon"`
	Delta   float64 `json:"delta" yaml:"delta" toml:"delta"`
}

// NewApproximator returns an Approximator with DefaultEpsilon and DefaultDelta.
func NewApproximator() Approximator {
	return Approximator{Epsilon: DefaultEpsilon, Delta: DefaultDelta}
}

// Validate reports ErrInvalidConfiguration when Epsilon or Delta lies
// outside the open interval (0, 1).
func (a Approximator) Validate() error {
	const op = "Approximator.Validate"
	if !(a.Epsilon > 0 && a.Epsilon < 1) {
		return invalidConfiguration("epsilon must lie in (0,1), got %v", a.Epsilon).
			WithComponent(AlgorithmApproximation).WithOperation(op)
	}
	if !(a.Delta > 0 && a.Delta < 1) {
		return invalidConfiguration("delta must lie in (0,1), got %v", a.Delta).
			WithComponent(AlgorithmApproximation).WithOperation(op)
	}
	return nil
}

// Trials returns the sampling budget for n boxes. A budget too large for
// an int saturates at math.MaxInt; Volume rejects such configurations.
func (a Approximator) Trials(n int) int {
	t, ok := a.trials(n)
	if !ok {
		return math.MaxInt
	}
	return t
}

func (a Approximator) trials(n int) (int, bool) {
	t := math.Ceil(12 * math.Log2(1/a.Delta) * float64(n) / (a.Epsilon * a.Epsilon))
	// float64(math.MaxInt) rounds up to 2^63, so equality is out of range too
	if !(t >= 0 && t < float64(math.MaxInt)) {
		return 0, false
	}
	return int(t), true
}

// Volume estimates the volume dominated by points and bounded by ref.
// A nil rng falls back to DefaultRand.
func (a Approximator) Volume(points [][]float64, ref []float64, rng Rand) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if rng == nil {
		rng = DefaultRand
	}

	boxes := clip(points, ref)
	n := len(boxes)
	if n == 0 {
		return 0, nil
	}
	if n == 1 {
		return boxVolume(make([]float64, len(ref)), boxes[0], ref), nil
	}

	// cumulative volume table for proportional box selection
	cum := make([]float64, n)
	scratch := make([]float64, len(ref))
	for i, p := range boxes {
		cum[i] = boxVolume(scratch, p, ref)
	}
	floats.CumSum(cum, cum)
	total := cum[n-1]
	if total <= 0 {
		return 0, nil
	}

	budget, ok := a.trials(n)
	if !ok {
		return 0, invalidConfiguration("trial budget for %d boxes with epsilon %v and delta %v exceeds %d", n, a.Epsilon, a.Delta, math.MaxInt).
			WithComponent(AlgorithmApproximation).WithOperation("Approximator.Volume")
	}
	x := scratch
	trials, rounds := 0, 0
sampling:
	for {
		i := sort.SearchFloat64s(cum, rng.Float64()*total)
		if i >= n {
			i = n - 1
		}
		p := boxes[i]
		for k := range x {
			x[k] = p[k] + rng.Float64()*(ref[k]-p[k])
		}
		for {
			if trials >= budget {
				break sampling
			}
			trials++
			if contains(boxes[rng.Intn(n)], x) {
				break
			}
		}
		rounds++
	}

	if rounds == 0 {
		return total, nil
	}
	return total * float64(trials) / (float64(n) * float64(rounds)), nil
}

// contains reports whether x lies in the box [p, ref]; the upper bound is
// implied by sampling inside the reference corner.
func contains(p, x []float64) bool {
	for i, v := range p {
		if x[i] < v {
			return false
		}
	}
	return true
}
