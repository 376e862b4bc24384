package effects_test

import (
	"testing"

	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
	mockrng "github.com/KirkDiggler/battle-engine/internal/rng/mock"
	"github.com/KirkDiggler/battle-engine/internal/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
	roller    *mockrng.ManualMockRoller
	narrator  *recordingNarrator
	sequencer *recordingSequencer
	library   mapLibrary
	engine    *effects.Engine
	user      *testHolder
	target    *testHolder
}

func (s *EngineTestSuite) SetupTest() {
	s.roller = mockrng.NewManualMockRoller()
	s.narrator = &recordingNarrator{}
	s.sequencer = &recordingSequencer{}
	s.library = mapLibrary{}
	s.engine = effects.NewEngine(&effects.EngineConfig{
		Roller:        s.roller,
		Narrator:      s.narrator,
		Sequencer:     s.sequencer,
		Library:       s.library,
		UUIDGenerator: &uuid.SequenceGenerator{Prefix: "fx-"},
	})
	s.user = newHolder("hero", 100)
	s.target = newHolder("slime", 100)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func defenseUp(stackable bool) *effects.Definition {
	return &effects.Definition{
		Name:       "Guard",
		Stackable:  stackable,
		Priority:   3,
		Volatility: effects.Volatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookOnApply: {
				{Code: effects.OpChangeStage, Stat: stats.Defense, Amount: 1},
			},
			effects.HookOnStack: {
				{Code: effects.OpChangeStage, Stat: stats.Defense, Amount: 1},
			},
			effects.HookOnDeactivate: {
				{Code: effects.OpNarrate, Message: "%s's guard fell"},
			},
		},
	}
}

func (s *EngineTestSuite) TestAttach_NonStackableIsIdempotent() {
	def := defenseUp(false)

	first := s.engine.NewInstance(def, s.user, s.target, nil)
	s.Equal(effects.Applied, s.engine.Attach(first))
	s.Equal(1, s.target.Stages().Get(stats.Defense))

	second := s.engine.NewInstance(def, s.user, s.target, nil)
	s.Equal(effects.Discarded, s.engine.Attach(second))

	s.Equal(1, s.target.Effects().Len())
	s.Same(first, s.target.Effects().Find("Guard"))
	s.Equal(1, s.target.Stages().Get(stats.Defense), "on_apply must not run again")
	s.Equal(1, first.Stacks)
}

func (s *EngineTestSuite) TestAttach_StackableRunsOnStack() {
	def := defenseUp(true)

	first := s.engine.NewInstance(def, s.user, s.target, nil)
	s.engine.Attach(first)
	s.Equal(effects.Stacked, s.engine.Attach(s.engine.NewInstance(def, s.user, s.target, nil)))
	s.Equal(effects.Stacked, s.engine.Attach(s.engine.NewInstance(def, s.user, s.target, nil)))

	s.Equal(1, s.target.Effects().Len())
	s.Equal(3, first.Stacks)
	s.Equal(3, s.target.Stages().Get(stats.Defense))
}

func (s *EngineTestSuite) TestGenericEffectsAreScopedPerSpell() {
	def := defenseUp(false)
	def.Generic = true

	a := s.engine.NewInstance(def, s.user, s.target, testCast{spell: "Bash"})
	b := s.engine.NewInstance(def, s.user, s.target, testCast{spell: "Slam"})

	s.Equal("BashGuard", a.Name())
	s.Equal(effects.Applied, s.engine.Attach(a))
	s.Equal(effects.Applied, s.engine.Attach(b))
	s.Equal(2, s.target.Effects().Len())
	s.True(s.target.Effects().Has("Guard"))
}

func (s *EngineTestSuite) TestRun_PredicateShortCircuits() {
	def := &effects.Definition{
		Name:       "Sap",
		Priority:   1,
		Volatility: effects.NonVolatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookOnTurnStart: {
				{Code: effects.OpDrainMP, Amount: 2},
				{Code: effects.OpChance, Chance: 0.5},
				{Code: effects.OpDrainMP, Amount: 5},
				{Code: effects.OpAlive},
				{Code: effects.OpDrainMP, Amount: 7},
			},
		},
	}
	inst := s.engine.NewInstance(def, s.user, s.target, nil)

	s.roller.SetNext(0.9)
	s.False(s.engine.Run(effects.HookOnTurnStart, inst))
	s.Equal(18, s.target.MP(), "only the op before the failed predicate runs")
	s.Equal(1, s.roller.Used(), "predicates after a failure are not evaluated")

	s.roller.SetNext(0.1)
	s.True(s.engine.Run(effects.HookOnTurnStart, inst))
	s.Equal(4, s.target.MP())
}

func (s *EngineTestSuite) TestActivate() {
	def := &effects.Definition{
		Name:       "Poison",
		Priority:   5,
		Volatility: effects.NonVolatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookCheckSuccess: {
				{Code: effects.OpLacksEffect, Effect: "Poison"},
				{Code: effects.OpChance, Chance: 0.3},
			},
			effects.HookOnFailedToActivate: {
				{Code: effects.OpNarrate, Message: "It had no effect"},
			},
			effects.HookOnActivate: {
				{Code: effects.OpPlaySequence, Script: "poison"},
			},
		},
	}

	s.Run("failed check runs on_failed_to_activate", func() {
		s.SetupTest()
		s.roller.SetNext(0.5)
		inst := s.engine.NewInstance(def, s.user, s.target, nil)
		s.Equal(effects.Failed, s.engine.Activate(inst))
		s.False(inst.Success)
		s.Equal([]string{"It had no effect"}, s.narrator.lines)
		s.Zero(s.target.Effects().Len())
	})

	s.Run("passing check activates and attaches", func() {
		s.SetupTest()
		s.roller.SetNext(0.1)
		inst := s.engine.NewInstance(def, s.user, s.target, nil)
		s.Equal(effects.Applied, s.engine.Activate(inst))
		s.True(inst.Success)
		s.Equal([]string{"poison"}, s.sequencer.scripts)
		s.True(s.target.Effects().Contains(inst))
	})

	s.Run("live conflict is discarded before any check", func() {
		s.SetupTest()
		s.roller.SetNext(0.1)
		s.engine.Activate(s.engine.NewInstance(def, s.user, s.target, nil))

		again := s.engine.NewInstance(def, s.user, s.target, nil)
		s.Equal(effects.Discarded, s.engine.Activate(again))
		s.Equal(1, s.roller.Used())
		s.Len(s.sequencer.scripts, 1)
	})

	s.Run("dead target is discarded", func() {
		s.SetupTest()
		s.target.hp = 0
		s.Equal(effects.Discarded, s.engine.Activate(s.engine.NewInstance(def, s.user, s.target, nil)))
	})
}

func (s *EngineTestSuite) TestTurnEnd_RemainActive() {
	def := &effects.Definition{
		Name:       "Haste",
		Priority:   2,
		Volatility: effects.Volatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookOnApply: {
				{Code: effects.OpAddModifier, Stat: stats.Speed, Factor: 2},
			},
			effects.HookCheckRemainActive: {
				{Code: effects.OpTurnsBelow, Amount: 2},
			},
			effects.HookOnDeactivate: {
				{Code: effects.OpRemoveModifier, Stat: stats.Speed},
			},
			effects.HookOnTurnEnd: {
				{Code: effects.OpNarrate, Message: "tick"},
			},
		},
	}

	inst := s.engine.NewInstance(def, s.user, s.target, nil)
	s.engine.Attach(inst)
	s.Equal(2.0, s.target.Modifiers().Product(stats.Speed))

	s.engine.TurnEnd(s.target)
	s.engine.TurnEnd(s.target)
	s.Equal(2, inst.TurnsActive)
	s.True(s.target.Effects().Contains(inst))

	s.engine.TurnEnd(s.target)
	s.False(s.target.Effects().Contains(inst))
	s.Equal(1.0, s.target.Modifiers().Product(stats.Speed))
	s.Equal([]string{"tick", "tick"}, s.narrator.lines, "removed effects skip on_turn_end")
}

func (s *EngineTestSuite) TestDeactivateVersusRemove() {
	def := defenseUp(false)

	inst := s.engine.NewInstance(def, s.user, s.target, nil)
	s.engine.Attach(inst)
	s.True(s.engine.Remove(inst))
	s.Empty(s.narrator.lines, "remove skips on_deactivate")

	inst = s.engine.NewInstance(def, s.user, s.target, nil)
	s.engine.Attach(inst)
	s.True(s.engine.Deactivate(inst))
	s.Equal([]string{"%s's guard fell"}, s.narrator.lines)
	s.False(s.engine.Deactivate(inst))
}

func (s *EngineTestSuite) TestDamage_StripsVolatileOnDeath() {
	volatile := defenseUp(false)
	lasting := &effects.Definition{Name: "Curse", Priority: 4, Volatility: effects.NonVolatile}

	s.engine.Attach(s.engine.NewInstance(volatile, s.user, s.target, nil))
	s.engine.Attach(s.engine.NewInstance(lasting, s.user, s.target, nil))

	s.Equal(40, s.engine.Damage(s.target, 40))
	s.Equal(2, s.target.Effects().Len())

	s.Equal(60, s.engine.Damage(s.target, 500))
	s.False(s.target.Alive())
	s.Equal([]string{"Curse"}, s.target.Effects().Names())
	s.Zero(s.engine.Damage(s.target, 10))
}

func (s *EngineTestSuite) TestDamageFractionCanKill() {
	def := &effects.Definition{
		Name:       "Burn",
		Priority:   6,
		Volatility: effects.NonVolatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookOnTurnEnd: {
				{Code: effects.OpDamageFraction, Factor: 0.125},
			},
		},
	}
	s.target.hp = 10
	s.engine.Attach(s.engine.NewInstance(def, s.user, s.target, nil))

	s.engine.TurnEnd(s.target)
	s.Equal(0, s.target.HP())
	s.False(s.target.Alive())
}

func (s *EngineTestSuite) TestApplyEffectChainsThroughLibrary() {
	s.library["Sleep"] = &effects.Definition{
		Name:       "Sleep",
		Priority:   7,
		Volatility: effects.NonVolatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookOnApply: {{Code: effects.OpCancelAction}},
		},
	}
	yawn := &effects.Definition{
		Name:       "Yawn",
		Priority:   1,
		Volatility: effects.Volatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookCheckRemainActive: {{Code: effects.OpTurnsBelow, Amount: 1}},
			effects.HookOnDeactivate:      {{Code: effects.OpApplyEffect, Effect: "Sleep"}},
		},
	}

	s.engine.Attach(s.engine.NewInstance(yawn, s.user, s.target, nil))
	s.engine.TurnEnd(s.target)
	s.engine.TurnEnd(s.target)

	s.Equal([]string{"Sleep"}, s.target.Effects().Names())
	s.True(s.target.cancelled)
}

func (s *EngineTestSuite) TestUserSubject() {
	def := &effects.Definition{
		Name:       "Leech",
		Priority:   2,
		Volatility: effects.NonVolatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookOnTurnEnd: {
				{Code: effects.OpDamageFraction, Factor: 0.1},
				{Code: effects.OpHealFraction, Subject: effects.SubjectUser, Factor: 0.1},
			},
		},
	}
	s.user.hp = 50
	s.engine.Attach(s.engine.NewInstance(def, s.user, s.target, nil))
	s.engine.TurnEnd(s.target)

	s.Equal(90, s.target.HP())
	s.Equal(60, s.user.HP())
}

func (s *EngineTestSuite) TestCastLandedAndDryRun() {
	def := &effects.Definition{
		Name:       "Flinch",
		Priority:   8,
		Volatility: effects.Volatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookCheckSuccess: {
				{Code: effects.OpCastLanded},
				{Code: effects.OpNarrate, Message: "flinch"},
			},
		},
	}

	missed := s.engine.NewInstance(def, s.user, s.target, testCast{spell: "Bite"})
	s.False(s.engine.DryRun(missed))

	landed := s.engine.NewInstance(def, s.user, s.target, testCast{spell: "Bite", landed: true})
	s.True(s.engine.DryRun(landed))
	s.Empty(s.narrator.lines, "dry runs have no side effects")
	s.False(landed.Success)
}

func (s *EngineTestSuite) TestProperties() {
	def := &effects.Definition{
		Name:       "Focus",
		Priority:   0,
		Volatility: effects.Volatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookOnActivate:   {{Code: effects.OpAddModifier, Stat: stats.Accuracy, Factor: 1.5}},
			effects.HookOnDeactivate: {{Code: effects.OpRemoveModifier, Stat: stats.Accuracy}},
		},
	}

	inst := s.engine.NewInstance(def, s.user, s.user, nil)
	s.True(s.engine.ActivateProperty(inst))
	s.Equal(1.5, s.user.Modifiers().Product(stats.Accuracy))
	s.Zero(s.user.Effects().Len())

	s.engine.DeactivateProperty(inst)
	s.Equal(1.0, s.user.Modifiers().Product(stats.Accuracy))
}

func TestNewEngine_RequiresRoller(t *testing.T) {
	assert.Panics(t, func() { effects.NewEngine(&effects.EngineConfig{}) })
	assert.Panics(t, func() { effects.NewEngine(nil) })
}

func TestDefinition_Validate(t *testing.T) {
	require.NoError(t, defenseUp(true).Validate())

	tests := []struct {
		name string
		def  effects.Definition
	}{
		{name: "missing name", def: effects.Definition{Volatility: effects.Volatile}},
		{name: "priority", def: effects.Definition{Name: "x", Priority: 10, Volatility: effects.Volatile}},
		{name: "volatility", def: effects.Definition{Name: "x", Volatility: "sometimes"}},
		{name: "hook", def: effects.Definition{Name: "x", Volatility: effects.Volatile,
			Hooks: map[effects.Hook][]effects.Op{"on_lunch": nil}}},
		{name: "op", def: effects.Definition{Name: "x", Volatility: effects.Volatile,
			Hooks: map[effects.Hook][]effects.Op{effects.HookOnApply: {{Code: "explode"}}}}},
		{name: "stat", def: effects.Definition{Name: "x", Volatility: effects.Volatile,
			Hooks: map[effects.Hook][]effects.Op{effects.HookOnApply: {{Code: effects.OpChangeStage, Stat: "luck"}}}}},
		{name: "chance", def: effects.Definition{Name: "x", Volatility: effects.Volatile,
			Hooks: map[effects.Hook][]effects.Op{effects.HookCheckSuccess: {{Code: effects.OpChance, Chance: 30}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.def.Validate())
		})
	}
}

func (s *EngineTestSuite) TestContactHurtsWhenTargetAcceptsTouch() {
	thorns := &effects.Definition{
		Name:       "Thorns",
		Priority:   4,
		Volatility: effects.Volatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookOnTurnStart: {{Code: effects.OpAcceptTouch}},
		},
	}
	contact := &effects.Definition{
		Name:       "Contact",
		Priority:   7,
		Volatility: effects.Volatile,
		Hooks: map[effects.Hook][]effects.Op{
			effects.HookCheckSuccess: {{Code: effects.OpTouchable}},
			effects.HookOnActivate: {
				{Code: effects.OpDamageFraction, Subject: effects.SubjectUser, Factor: 0.125},
			},
		},
	}

	s.False(s.engine.ActivateProperty(s.engine.NewInstance(contact, s.user, s.target, nil)))
	s.Equal(100, s.user.HP())

	s.engine.Attach(s.engine.NewInstance(thorns, s.target, s.target, nil))
	s.engine.TurnStart(s.target)
	s.True(s.target.AcceptsTouch())

	s.True(s.engine.ActivateProperty(s.engine.NewInstance(contact, s.user, s.target, nil)))
	s.Equal(88, s.user.HP())
}
