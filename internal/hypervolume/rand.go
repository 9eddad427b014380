package hypervolume

import (
	"math/rand"
	"sync"

	"github.com/copyleftdev/hypervol/internal/hypervolume/orderstat"
)

// Rand is the uniform random source consumed by the approximator.
// *math/rand.Rand satisfies it; it is not safe for concurrent use, so a
// shared *rand.Rand must be synchronized by its owner.
type Rand interface {
	orderstat.Rand
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) Intn(n int) int   { return rand.Intn(n) }

// DefaultRand is the process-wide fallback used when no Rand is supplied.
// It draws from the math/rand top-level source and is safe for concurrent use.
var DefaultRand Rand = globalRand{}

// lockedRand serializes access to a seeded source.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// NewRand returns a seeded source that is safe for concurrent use, or
// DefaultRand when seed is zero.
func NewRand(seed int64) Rand {
	if seed == 0 {
		return DefaultRand
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}
