package rng_test

import (
	"testing"

	"github.com/KirkDiggler/battle-engine/internal/rng"
	mockrng "github.com/KirkDiggler/battle-engine/internal/rng/mock"
	"github.com/stretchr/testify/assert"
)

func TestRandomRoller_Bounds(t *testing.T) {
	roller := rng.NewRandomRoller(42)

	for i := 0; i < 1000; i++ {
		f := roller.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		r := roller.Range(0.85, 1.0)
		assert.GreaterOrEqual(t, r, 0.85)
		assert.LessOrEqual(t, r, 1.0)

		n := roller.Intn(6)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 6)
	}
}

func TestRandomRoller_SeedIsDeterministic(t *testing.T) {
	a := rng.NewRandomRoller(7)
	b := rng.NewRandomRoller(7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRandomRoller_DegenerateInputs(t *testing.T) {
	roller := rng.NewRandomRoller(1)
	assert.Equal(t, 0, roller.Intn(1))
	assert.Equal(t, 0, roller.Intn(0))
	assert.Equal(t, 3.0, roller.Range(3, 3))
}

func TestHelpers(t *testing.T) {
	roller := mockrng.NewManualMockRoller(0.1, 0.9, 2)
	assert.True(t, rng.Chance(roller, 0.5))
	assert.False(t, rng.Chance(roller, 0.5))
	assert.Equal(t, 2, rng.Pick(roller, 3))
	assert.Equal(t, -1, rng.Pick(roller, 0))
	assert.Equal(t, 0, rng.Pick(roller, 1))
	assert.Equal(t, 3, roller.Used(), "single candidates do not draw")
}

func TestManualMockRoller(t *testing.T) {
	roller := mockrng.NewManualMockRoller(0.25, 1.0)

	assert.Equal(t, 0.25, roller.Float64())
	assert.Equal(t, 1.0, roller.Range(0.85, 1.0))
	assert.Equal(t, 2, roller.Used())

	assert.Panics(t, func() { roller.Float64() })

	roller.SetDefault(0.5)
	assert.Equal(t, 0.5, roller.Float64())

	roller.Reset()
	roller.SetNext(50)
	assert.Panics(t, func() { roller.Range(0, 10) })
}
