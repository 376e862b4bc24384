// Package combatant models the entities that take part in a battle.
package combatant

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
	"github.com/KirkDiggler/battle-engine/internal/uuid"
)

// Side is the team an entity fights for
type Side string

const (
	Player   Side = "player"
	Opponent Side = "opponent"
)

// Control says who picks the entity's action each turn
type Control string

const (
	Human Control = "human"
	AI    Control = "ai"
)

// Choice is the action picked for the current turn
type Choice struct {
	Spell    *spells.Definition
	TargetID string
}

// TurnState is reset at the start of every turn
type TurnState struct {
	Choice       Choice
	Chosen       bool
	Cancelled    bool
	DamageTaken  int
	AcceptsTouch bool
}

// Config describes a new entity
type Config struct {
	ID      string
	Name    string
	Side    Side
	Control Control
	Raw     stats.Base
	Level   int
	Spells  []*spells.Definition
}

// Entity is a battle participant. It implements effects.Holder.
type Entity struct {
	id      string
	name    string
	side    Side
	control Control
	level   int

	raw  stats.Base
	base stats.Base
	hp   int
	mp   int

	alive     bool
	stages    *stats.Stages
	modifiers *stats.Modifiers
	effects   *effects.List

	spells     []*spells.Definition
	properties []*effects.Definition
	turn       TurnState
}

// New creates an entity with derived stats and full HP/MP
func New(cfg *Config) *Entity {
	if cfg == nil {
		panic("combatant: config is required")
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewGoogleUUIDGenerator().New()
	}
	control := cfg.Control
	if control == "" {
		control = AI
	}

	e := &Entity{
		id:        id,
		name:      cfg.Name,
		side:      cfg.Side,
		control:   control,
		stages:    stats.NewStages(),
		modifiers: stats.NewModifiers(),
		effects:   effects.NewList(),
		spells:    cfg.Spells,
	}
	e.Assign(cfg.Raw, cfg.Level)

	return e
}

// Assign re-derives runtime stats from raw values and refills the entity.
// Stages, modifiers, effects and queued properties are cleared.
func (e *Entity) Assign(raw stats.Base, level int) {
	if level <= 0 {
		level = stats.DefaultLevel
	}
	e.raw = raw
	e.level = level
	e.base = stats.Derive(raw, level)
	e.hp = e.base.HP
	e.mp = e.base.MP
	e.alive = e.hp > 0
	e.stages.Reset()
	e.modifiers.Clear()
	e.effects.Clear()
	e.properties = nil
	e.ResetTurn()
}

func (e *Entity) ID() string                  { return e.id }
func (e *Entity) Name() string                { return e.name }
func (e *Entity) Side() Side                  { return e.side }
func (e *Entity) Control() Control            { return e.control }
func (e *Entity) IsAI() bool                  { return e.control == AI }
func (e *Entity) Level() int                  { return e.level }
func (e *Entity) Raw() stats.Base             { return e.raw }
func (e *Entity) Base() stats.Base            { return e.base }
func (e *Entity) HP() int                     { return e.hp }
func (e *Entity) MaxHP() int                  { return e.base.HP }
func (e *Entity) MP() int                     { return e.mp }
func (e *Entity) MaxMP() int                  { return e.base.MP }
func (e *Entity) Alive() bool                 { return e.alive }
func (e *Entity) Stages() *stats.Stages       { return e.stages }
func (e *Entity) Modifiers() *stats.Modifiers { return e.modifiers }
func (e *Entity) Effects() *effects.List      { return e.effects }
func (e *Entity) Spells() []*spells.Definition {
	return e.spells
}

// Turn returns a copy of the per-turn state
func (e *Entity) Turn() TurnState {
	return e.turn
}

// IsEnemyOf reports whether other fights on the opposite side
func (e *Entity) IsEnemyOf(other *Entity) bool {
	return e.side != other.side
}

// TakeDamage lowers HP, never below zero, and returns the amount removed.
// Reaching zero HP marks the entity defeated.
func (e *Entity) TakeDamage(n int) int {
	if n <= 0 || !e.alive {
		return 0
	}
	if n > e.hp {
		n = e.hp
	}
	e.hp -= n
	e.turn.DamageTaken += n
	if e.hp == 0 {
		e.alive = false
	}
	return n
}

// Heal raises HP, never above max, and returns the amount restored.
// Defeated entities cannot be healed.
func (e *Entity) Heal(n int) int {
	if n <= 0 || !e.alive {
		return 0
	}
	if e.hp+n > e.base.HP {
		n = e.base.HP - e.hp
	}
	e.hp += n
	return n
}

// SpendMP pays cost in full or not at all
func (e *Entity) SpendMP(cost int) bool {
	if cost < 0 || cost > e.mp {
		return false
	}
	e.mp -= cost
	return true
}

// RestoreMP raises MP, never above max, and returns the amount restored
func (e *Entity) RestoreMP(n int) int {
	if n <= 0 {
		return 0
	}
	if e.mp+n > e.base.MP {
		n = e.base.MP - e.mp
	}
	e.mp += n
	return n
}

// DrainMP lowers MP, never below zero, and returns the amount removed
func (e *Entity) DrainMP(n int) int {
	if n <= 0 {
		return 0
	}
	if n > e.mp {
		n = e.mp
	}
	e.mp -= n
	return n
}

// ResetTurn clears the per-turn state
func (e *Entity) ResetTurn() {
	e.turn = TurnState{}
}

// Choose records the action for this turn. A nil spell passes the turn.
func (e *Entity) Choose(spell *spells.Definition, targetID string) {
	e.turn.Choice = Choice{Spell: spell, TargetID: targetID}
	e.turn.Chosen = true
}

// HasChosen reports whether an action is recorded for this turn
func (e *Entity) HasChosen() bool {
	return e.turn.Chosen
}

// CancelAction drops this turn's action
func (e *Entity) CancelAction() {
	e.turn.Cancelled = true
}

// AcceptsTouch reports whether contact with e triggers effects this turn
func (e *Entity) AcceptsTouch() bool {
	return e.turn.AcceptsTouch
}

// SetAcceptsTouch marks whether contact-triggered effects apply this turn
func (e *Entity) SetAcceptsTouch(v bool) {
	e.turn.AcceptsTouch = v
}

// QueueProperty adds a property consumed by the next cast
func (e *Entity) QueueProperty(def *effects.Definition) {
	e.properties = append(e.properties, def)
}

// TakeProperties returns the queued properties and clears the queue
func (e *Entity) TakeProperties() []*effects.Definition {
	props := e.properties
	e.properties = nil
	return props
}

// Properties returns the queued properties without clearing them
func (e *Entity) Properties() []*effects.Definition {
	return e.properties
}

// EffectiveSpeed is speed after its stage multiplier and named modifiers
func (e *Entity) EffectiveSpeed() float64 {
	return float64(e.base.SPD) * e.stages.Multiplier(stats.Speed) * e.modifiers.Product(stats.Speed)
}

// Affordable returns the known spells the entity has MP for
func (e *Entity) Affordable() []*spells.Definition {
	var out []*spells.Definition
	for _, s := range e.spells {
		if s.Cost <= e.mp {
			out = append(out, s)
		}
	}
	return out
}

// Spell returns the known spell with the given name
func (e *Entity) Spell(name string) (*spells.Definition, bool) {
	for _, s := range e.spells {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
