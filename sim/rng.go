package sim

import (
	"hash/fnv"
	"math/rand"
)

// RNG subsystem names. Stochastic delay sampling and random conflict
// resolution draw from separate streams, so changing the conflict policy
// cannot perturb the delay sequence of an otherwise identical run.
const (
	subsystemSampling = "sampling"
	subsystemPolicy   = "policy"
)

// rngSet derives one deterministic stream per subsystem from a master seed.
// A run is reproducible from the seed alone. Not safe for concurrent use.
type rngSet struct {
	seed    int64
	streams map[string]*rand.Rand
}

func newRNGSet(seed int64) *rngSet {
	return &rngSet{
		seed:    seed,
		streams: make(map[string]*rand.Rand),
	}
}

// forSubsystem returns the cached stream for name, creating it from
// seed XOR fnv1a64(name) on first use.
func (r *rngSet) forSubsystem(name string) *rand.Rand {
	if rng, ok := r.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(r.seed ^ fnv1a64(name)))
	r.streams[name] = rng
	return rng
}

func (r *rngSet) sampling() *rand.Rand { return r.forSubsystem(subsystemSampling) }
func (r *rngSet) policy() *rand.Rand   { return r.forSubsystem(subsystemPolicy) }

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
