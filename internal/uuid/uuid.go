// uuid simple generator that allows mocking
package uuid

//go:generate mockgen -destination=mocks/mock_generator.go -package=mocks -source=uuid.go

import (
	"strconv"

	"github.com/google/uuid"
)

// Generator is an interface for generating IDs for battles, entities and effect instances
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements the Generator interface using Google's UUID package
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// SequenceGenerator returns prefixed, monotonically numbered IDs. Handy for
// deterministic logs and tests.
type SequenceGenerator struct {
	Prefix string
	next   int
}

// New returns the next ID in the sequence
func (g *SequenceGenerator) New() string {
	g.next++
	return g.Prefix + strconv.Itoa(g.next)
}
