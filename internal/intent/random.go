package intent

import (
	"math/rand/v2"
	"sync"
)

// Randomizer picks answer variants.
type Randomizer interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewRandomizer returns a seeded, goroutine-safe source. Seed 0 uses the
// runtime's global source.
func NewRandomizer(seed uint64) Randomizer {
	if seed == 0 {
		return globalRand{}
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed))}
}

// sample picks k distinct items of xs in random order.
func sample[T any](rnd Randomizer, xs []T, k int) []T {
	pool := append([]T(nil), xs...)
	k = min(k, len(pool))
	for i := range k {
		j := i + rnd.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
