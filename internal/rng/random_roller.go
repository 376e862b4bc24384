package rng

import (
	"math/rand"
	"sync"
	"time"
)

// randomRoller implements Roller over a seeded math/rand source
type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller creates a roller with the given seed.
// A zero seed uses the current time.
func NewRandomRoller(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randomRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 implements Roller.Float64
func (r *randomRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Range implements Roller.Range
func (r *randomRoller) Range(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}

// Intn implements Roller.Intn
func (r *randomRoller) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Chance reports whether a uniform draw falls under p
func Chance(r Roller, p float64) bool {
	return r.Float64() < p
}

// Pick returns a uniformly chosen index into a slice of length n, or -1 when n is 0.
// A single candidate is returned without drawing.
func Pick(r Roller, n int) int {
	switch {
	case n <= 0:
		return -1
	case n == 1:
		return 0
	}
	return r.Intn(n)
}
