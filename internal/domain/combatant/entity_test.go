package combatant_test

import (
	"testing"

	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ effects.Holder = (*combatant.Entity)(nil)

func newSlime(t *testing.T) *combatant.Entity {
	t.Helper()
	e := combatant.New(&combatant.Config{
		ID:   "slime-1",
		Name: "Slime",
		Side: combatant.Opponent,
		Raw:  stats.Base{HP: 45, MP: 20, ATK: 49, DEF: 49, MATK: 65, MDEF: 65, SPD: 45, CritModifier: 1},
		Spells: []*spells.Definition{
			{Name: "Tackle", Cost: 0},
			{Name: "Ember", Cost: 40},
		},
	})
	require.NotNil(t, e)
	return e
}

func TestNew_DerivesStats(t *testing.T) {
	e := newSlime(t)

	assert.Equal(t, 105, e.HP())
	assert.Equal(t, 105, e.MaxHP())
	assert.Equal(t, 80, e.MP())
	assert.Equal(t, 54, e.Base().ATK)
	assert.Equal(t, stats.DefaultLevel, e.Level())
	assert.True(t, e.Alive())
	assert.True(t, e.IsAI(), "control defaults to ai")
}

func TestAssign_RecomputesAndRefills(t *testing.T) {
	e := newSlime(t)
	e.TakeDamage(30)
	e.Stages().Change(stats.Attack, 2)
	e.Modifiers().Add(stats.Speed, "Haste", 2)

	e.Assign(stats.Base{HP: 10, MP: 10, SPD: 10}, 10)

	assert.Equal(t, 22, e.HP())
	assert.Equal(t, 22, e.MaxHP())
	assert.Zero(t, e.Stages().Get(stats.Attack))
	assert.Equal(t, 1.0, e.Modifiers().Product(stats.Speed))
}

func TestHPBounds(t *testing.T) {
	e := newSlime(t)

	assert.Equal(t, 5, e.TakeDamage(5))
	assert.Equal(t, 5, e.Heal(50), "heal stops at max")
	assert.Equal(t, 105, e.HP())

	assert.Equal(t, 105, e.TakeDamage(1000))
	assert.Zero(t, e.HP())
	assert.False(t, e.Alive())
	assert.Zero(t, e.Heal(10))
	assert.Zero(t, e.TakeDamage(10))
	assert.Equal(t, 105, e.Turn().DamageTaken)
}

func TestMP(t *testing.T) {
	e := newSlime(t)

	assert.False(t, e.SpendMP(81), "no partial spend")
	assert.Equal(t, 80, e.MP())
	assert.True(t, e.SpendMP(50))
	assert.Equal(t, 30, e.MP())
	assert.Equal(t, 30, e.DrainMP(100))
	assert.Equal(t, 80, e.RestoreMP(500))
}

func TestAffordable(t *testing.T) {
	e := newSlime(t)
	assert.Len(t, e.Affordable(), 2)

	e.DrainMP(45)
	names := []string{}
	for _, s := range e.Affordable() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Tackle"}, names)
}

func TestTurnState(t *testing.T) {
	e := newSlime(t)
	tackle, ok := e.Spell("Tackle")
	require.True(t, ok)

	e.Choose(tackle, "hero")
	e.CancelAction()
	e.SetAcceptsTouch(true)
	assert.True(t, e.HasChosen())
	assert.True(t, e.AcceptsTouch())
	assert.True(t, e.Turn().Cancelled)
	assert.Equal(t, "hero", e.Turn().Choice.TargetID)

	e.ResetTurn()
	assert.Equal(t, combatant.TurnState{}, e.Turn())
}

func TestProperties(t *testing.T) {
	e := newSlime(t)
	focus := &effects.Definition{Name: "Focus"}

	e.QueueProperty(focus)
	assert.Equal(t, []*effects.Definition{focus}, e.Properties())
	assert.Equal(t, []*effects.Definition{focus}, e.TakeProperties())
	assert.Empty(t, e.TakeProperties())
}

func TestEffectiveSpeed(t *testing.T) {
	e := newSlime(t)
	require.Equal(t, 50, e.Base().SPD)

	e.Stages().Change(stats.Speed, 2)
	e.Modifiers().Add(stats.Speed, "Tailwind", 1.5)

	assert.InDelta(t, 50*2*1.5, e.EffectiveSpeed(), 1e-9)
}
