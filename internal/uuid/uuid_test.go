package uuid_test

import (
	"testing"

	"github.com/KirkDiggler/battle-engine/internal/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGoogleUUIDGenerator_Unique(t *testing.T) {
	gen := uuid.NewGoogleUUIDGenerator()
	a, b := gen.New(), gen.New()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestSequenceGenerator(t *testing.T) {
	gen := &uuid.SequenceGenerator{Prefix: "fx-"}
	assert.Equal(t, "fx-1", gen.New())
	assert.Equal(t, "fx-2", gen.New())
	for i := 0; i < 8; i++ {
		gen.New()
	}
	assert.Equal(t, "fx-11", gen.New())
}
