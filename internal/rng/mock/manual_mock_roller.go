package mockrng

import (
	"fmt"
	"sync"
)

// ManualMockRoller implements rng.Roller for testing with predetermined results.
// Every call consumes the next queued value: Float64 returns it as-is, Range
// returns it as the drawn value (it must lie within the requested bounds) and
// Intn truncates it to an int.
type ManualMockRoller struct {
	mu         sync.Mutex
	values     []float64
	index      int
	fallback   float64
	hasDefault bool
}

// NewManualMockRoller creates a new mock roller
func NewManualMockRoller(values ...float64) *ManualMockRoller {
	return &ManualMockRoller{
		values: values,
	}
}

// SetNext appends values to the queue
func (m *ManualMockRoller) SetNext(values ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = append(m.values, values...)
}

// SetDefault sets the value returned once the queue is exhausted
func (m *ManualMockRoller) SetDefault(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = v
	m.hasDefault = true
}

// Reset clears all values and resets the index
func (m *ManualMockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = nil
	m.index = 0
	m.hasDefault = false
}

// Used returns how many queued values were consumed
func (m *ManualMockRoller) Used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *ManualMockRoller) next() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index >= len(m.values) {
		if m.hasDefault {
			return m.fallback
		}
		panic(fmt.Sprintf("no more predetermined values available (used %d of %d)", m.index, len(m.values)))
	}

	v := m.values[m.index]
	m.index++
	return v
}

// Float64 implements rng.Roller.Float64
func (m *ManualMockRoller) Float64() float64 {
	return m.next()
}

// Range implements rng.Roller.Range
func (m *ManualMockRoller) Range(min, max float64) float64 {
	v := m.next()
	if v < min || v > max {
		panic(fmt.Sprintf("invalid value %v for range [%v, %v]", v, min, max))
	}
	return v
}

// Intn implements rng.Roller.Intn
func (m *ManualMockRoller) Intn(n int) int {
	v := int(m.next())
	if v < 0 || (n > 0 && v >= n) {
		panic(fmt.Sprintf("invalid value %d for Intn(%d)", v, n))
	}
	return v
}
