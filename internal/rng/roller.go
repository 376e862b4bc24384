package rng

// Roller provides the random draws the combat rules need.
// This allows us to inject deterministic implementations for testing.
type Roller interface {
	// Float64 returns a uniform draw in [0, 1)
	Float64() float64

	// Range returns a uniform draw between min and max
	Range(min, max float64) float64

	// Intn returns a uniform integer in [0, n). n must be positive.
	Intn(n int) int
}
