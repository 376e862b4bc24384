package battle

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
	"github.com/KirkDiggler/battle-engine/internal/events"
)

// ActionChoice is a player's action for the current turn. An empty Spell passes.
type ActionChoice struct {
	EntityID string
	Spell    string
	TargetID string
}

// Topics published by the scheduler. ActionChosen is consumed by it.
var (
	PhaseChanged       = events.NewTopic[string]("battle.phase")
	TurnStarted        = events.NewTopic[int]("battle.turn")
	ActiveEntity       = events.NewTopic[*combatant.Entity]("battle.active_entity")
	SpellCast          = events.NewTopic[*spells.Definition]("battle.spell_cast")
	PreCast            = events.NewTopic[*combatant.Entity]("battle.pre_cast")
	Defeated           = events.NewTopic[*combatant.Entity]("battle.defeated")
	Lost               = events.NewTopic[events.Void]("battle.lost")
	EncounterRequested = events.NewTopic[events.Void]("battle.encounter_requested")
	ActionChosen       = events.NewTopic[ActionChoice]("battle.action_chosen")
)
