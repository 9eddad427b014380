// Package hypervolume computes the hypervolume indicator of a
// non-dominated point set (minimization) with respect to a reference
// point: the measure of the region dominated by the set and bounded by
// the reference point.
//
// Callers must ensure the set is mutually non-dominated and that every
// point is componentwise below the reference point. Neither condition is
// checked; violating them yields a finite but meaningless result.
package hypervolume

import (
	"math"

	"go.uber.org/zap"
)

// Extractor projects a client point onto its objective vector.
type Extractor[P any] func(P) []float64

// Calculator selects an algorithm by dimensionality and delegates to it.
//
//	d == 2                     exact sweep, O(n log n)
//	d == 3                     exact sweep, O(n log n)
//	d >= 4, !UseApproximation  exact recursive partitioning
//	d >= 4, UseApproximation   Monte-Carlo (Epsilon, Delta) estimate
//
// The zero value is ready to use, except that approximation then fails
// until Epsilon and Delta are set; NewCalculator fills in the defaults.
// A Calculator is not synchronized. Concurrent Compute calls are safe as
// long as nobody mutates the configuration meanwhile.
type Calculator struct {
	// UseLogHyp replaces every extracted coordinate by its natural
	// logarithm before computing. The reference point is NOT transformed:
	// callers pass it already in log space.
	UseLogHyp bool `json:"use_log_hyp" yaml:"use_log_hyp" toml:"use_log_hyp"`

	// UseApproximation switches dimensions above three to the approximator.
	UseApproximation bool `json:"use_approximation" yaml:"use_approximation" toml:"use_approximation"`

	Approximator Approximator `json:"approximator" yaml:"approximator" toml:"approximator"`

	rng    Rand
	logger *zap.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRand sets the random source used by the approximator.
func WithRand(rng Rand) Option {
	return func(c *Calculator) { c.rng = rng }
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Calculator) { c.logger = logger }
}

// NewCalculator returns an exact, linear-space calculator with the default
// approximation parameters.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{Approximator: NewApproximator()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApproximationEpsilon returns the approximator's relative error bound.
func (c Calculator) ApproximationEpsilon() float64 { return c.Approximator.Epsilon }

// SetApproximationEpsilon sets the relative error bound. It is validated
// when an approximation runs.
func (c *Calculator) SetApproximationEpsilon(eps float64) { c.Approximator.Epsilon = eps }

// ApproximationDelta returns the approximator's failure probability.
func (c Calculator) ApproximationDelta() float64 { return c.Approximator.Delta }

// SetApproximationDelta sets the failure probability. It is validated when
// an approximation runs.
func (c *Calculator) SetApproximationDelta(delta float64) { c.Approximator.Delta = delta }

// Algorithm names the algorithm Compute selects for d objectives.
func (c *Calculator) Algorithm(d int) (string, error) {
	switch {
	case d < 2:
		return "", invalidArgument("reference point needs at least 2 coordinates, got %d", d).
			WithComponent("calculator").WithOperation("Algorithm")
	case d == 2:
		return AlgorithmExact2D, nil
	case d == 3:
		return AlgorithmExact3D, nil
	case c.UseApproximation:
		return AlgorithmApproximation, nil
	default:
		return AlgorithmExactND, nil
	}
}

// Compute returns the hypervolume of points with respect to ref.
// Each row of points is one objective vector; rows are never modified.
func (c *Calculator) Compute(points [][]float64, ref []float64) (float64, error) {
	return Compute(c, func(p []float64) []float64 { return p }, points, ref)
}

// Compute returns the hypervolume of the objective vectors extract yields
// for points, with respect to ref.
func Compute[P any](c *Calculator, extract Extractor[P], points []P, ref []float64) (float64, error) {
	const op = "Compute"

	d := len(ref)
	algorithm, err := c.Algorithm(d)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, invalidArgument("point set is empty").
			WithComponent("calculator").WithOperation(op)
	}

	coords := make([][]float64, len(points))
	flat := make([]float64, len(points)*d)
	for i, p := range points {
		v := extract(p)
		if len(v) != d {
			return 0, invalidArgument("point %d has %d coordinates, reference point has %d", i, len(v), d).
				WithComponent("calculator").WithOperation(op)
		}
		row := flat[i*d : (i+1)*d : (i+1)*d]
		if c.UseLogHyp {
			for k, x := range v {
				row[k] = math.Log(x)
			}
		} else {
			copy(row, v)
		}
		coords[i] = row
	}

	c.log().Debug("computing hypervolume",
		zap.String("algorithm", algorithm),
		zap.Int("points", len(points)),
		zap.Int("dimensions", d),
		zap.Bool("log_hyp", c.UseLogHyp),
	)

	switch algorithm {
	case AlgorithmExact2D:
		return Volume2D(coords, ref), nil
	case AlgorithmExact3D:
		return Volume3D(coords, ref), nil
	case AlgorithmApproximation:
		return c.Approximator.Volume(coords, ref, c.rng)
	default:
		return VolumeND(coords, ref), nil
	}
}

func (c *Calculator) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}
