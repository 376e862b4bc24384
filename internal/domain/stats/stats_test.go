package stats_test

import (
	"math/rand"
	"testing"

	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplier(t *testing.T) {
	testCases := []struct {
		stage    int
		expected float64
	}{
		{0, 1.0},
		{1, 1.5},
		{2, 2.0},
		{6, 4.0},
		{-1, 2.0 / 3.0},
		{-2, 0.5},
		{-6, 0.25},
		{9, 4.0},
		{-9, 0.25},
	}

	for _, tc := range testCases {
		assert.InDelta(t, tc.expected, stats.Multiplier(tc.stage), 1e-9, "stage %d", tc.stage)
	}
}

func TestDerive(t *testing.T) {
	raw := stats.Base{HP: 45, MP: 20, ATK: 49, DEF: 49, MATK: 65, MDEF: 65, SPD: 45, CritModifier: 1, DodgeModifier: 1}

	derived := stats.Derive(raw, stats.DefaultLevel)

	// floor(45*100/100)+50+10
	assert.Equal(t, 105, derived.HP)
	assert.Equal(t, 80, derived.MP)
	assert.Equal(t, 54, derived.ATK)
	assert.Equal(t, 54, derived.DEF)
	assert.Equal(t, 70, derived.MATK)
	assert.Equal(t, 70, derived.MDEF)
	assert.Equal(t, 50, derived.SPD)
	assert.Equal(t, 1.0, derived.CritModifier)
}

func TestDerive_FloorsAtOtherLevels(t *testing.T) {
	derived := stats.Derive(stats.Base{HP: 33, ATK: 33}, 25)
	// floor(33*50/100) = 16
	assert.Equal(t, 16+25+10, derived.HP)
	assert.Equal(t, 16+5, derived.ATK)

	assert.Equal(t, stats.Derive(stats.Base{HP: 10}, stats.DefaultLevel), stats.Derive(stats.Base{HP: 10}, 0))
}

func TestStages_Clamp(t *testing.T) {
	s := stats.NewStages()

	assert.Equal(t, 6, s.Change(stats.Attack, 8))
	assert.Equal(t, 6, s.Get(stats.Attack))
	assert.Equal(t, 0, s.Change(stats.Attack, 1))
	assert.Equal(t, -12, s.Change(stats.Attack, -20))
	assert.Equal(t, -6, s.Get(stats.Attack))
	assert.Equal(t, 0, s.Get(stats.Defense))
	assert.InDelta(t, 0.25, s.Multiplier(stats.Attack), 1e-9)

	s.Reset()
	assert.Equal(t, 0, s.Get(stats.Attack))
	assert.Empty(t, s.Snapshot())
}

func TestStages_StayInBoundsForAnyDeltaSequence(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	s := stats.NewStages()

	for i := 0; i < 5000; i++ {
		kind := stats.Kinds[r.Intn(len(stats.Kinds))]
		s.Change(kind, r.Intn(25)-12)
		for _, k := range stats.Kinds {
			require.GreaterOrEqual(t, s.Get(k), stats.MinStage)
			require.LessOrEqual(t, s.Get(k), stats.MaxStage)
		}
	}
}

func TestModifiers_FirstWriterWins(t *testing.T) {
	m := stats.NewModifiers()

	assert.True(t, m.Add(stats.Attack, "Rage", 1.5))
	assert.False(t, m.Add(stats.Attack, "Rage", 3.0))
	assert.True(t, m.Add(stats.Attack, "Charm", 0.5))
	assert.True(t, m.Add(stats.Speed, "Rage", 2.0))

	assert.InDelta(t, 0.75, m.Product(stats.Attack), 1e-9)
	assert.Equal(t, []string{"Rage", "Charm"}, m.Keys(stats.Attack))
	assert.True(t, m.Has(stats.Speed, "Rage"))

	assert.True(t, m.Remove(stats.Attack, "Rage"))
	assert.False(t, m.Remove(stats.Attack, "Rage"))
	assert.InDelta(t, 0.5, m.Product(stats.Attack), 1e-9)

	assert.Equal(t, 1.0, m.Product(stats.Evasion))

	m.Clear()
	assert.Equal(t, 1.0, m.Product(stats.Speed))
}

func TestKind_Validate(t *testing.T) {
	assert.NoError(t, stats.SpecialDefense.Validate())
	assert.Error(t, stats.Kind("luck").Validate())
	assert.True(t, stats.SpecialAttack.IsOffensive())
	assert.False(t, stats.Speed.IsDefensive())
}

func TestBase_Value(t *testing.T) {
	b := stats.Base{ATK: 1, DEF: 2, MATK: 3, MDEF: 4, SPD: 5}
	assert.Equal(t, 3, b.Value(stats.SpecialAttack))
	assert.Equal(t, 5, b.Value(stats.Speed))
	assert.Equal(t, 1, b.Value(stats.Accuracy))
}
