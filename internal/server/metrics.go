package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/copyleftdev/hypervol/internal/errors"
)

// Metrics records hypervolume computations.
type Metrics struct {
	computations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	points       prometheus.Histogram
}

// NewMetrics registers the computation collectors with reg. Registering
// twice on the same registry reuses the existing collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		computations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hypervolume",
			Name:      "computations_total",
			Help:      "Hypervolume computations by algorithm and outcome.",
		}, []string{"algorithm", "status"})),
		duration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hypervolume",
			Name:      "computation_duration_seconds",
			Help:      "Time spent computing the hypervolume.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"algorithm"})),
		points: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hypervolume",
			Name:      "request_points",
			Help:      "Number of points per computation request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		})),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// observe records one computation attempt.
func (m *Metrics) observe(algorithm string, points int, elapsed time.Duration, err error) {
	if algorithm == "" {
		algorithm = "unknown"
	}
	m.computations.WithLabelValues(algorithm, outcome(err)).Inc()
	m.points.Observe(float64(points))
	if err == nil {
		m.duration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.HTTPStatus(err) < http.StatusInternalServerError:
		return "invalid"
	default:
		return "error"
	}
}
