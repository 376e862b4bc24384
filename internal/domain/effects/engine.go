package effects

import (
	"log"
	"math"
	"strings"

	"github.com/KirkDiggler/battle-engine/internal/rng"
	"github.com/KirkDiggler/battle-engine/internal/uuid"
)

// maxApplyDepth bounds apply_effect chains started from inside a hook
const maxApplyDepth = 8

// Outcome reports what happened to an instance handed to the engine
type Outcome string

const (
	Applied   Outcome = "applied"
	Stacked   Outcome = "stacked"
	Discarded Outcome = "discarded"
	Failed    Outcome = "failed"
)

// Narrator receives narrate ops. The message is a locale key.
type Narrator interface {
	Narrate(key string, args ...any)
}

// Sequencer receives play_sequence ops. Play reports whether the script was queued.
type Sequencer interface {
	Play(script string) bool
}

// Library resolves effect names used by apply_effect
type Library interface {
	Effect(name string) (*Definition, bool)
}

// EngineConfig holds the collaborators of an Engine
type EngineConfig struct {
	Roller        rng.Roller
	Narrator      Narrator
	Sequencer     Sequencer
	Library       Library
	UUIDGenerator uuid.Generator
}

// Engine evaluates effect hooks against their holders.
// Every evaluation receives its instance explicitly, so hooks may start
// further evaluations without clobbering shared state.
type Engine struct {
	roller    rng.Roller
	narrator  Narrator
	sequencer Sequencer
	library   Library
	uuidGen   uuid.Generator
	depth     int
}

// NewEngine creates an engine. Roller is required.
func NewEngine(cfg *EngineConfig) *Engine {
	if cfg == nil {
		panic("effects: engine config is required")
	}
	if cfg.Roller == nil {
		panic("effects: roller is required")
	}

	e := &Engine{
		roller:    cfg.Roller,
		narrator:  cfg.Narrator,
		sequencer: cfg.Sequencer,
		library:   cfg.Library,
		uuidGen:   cfg.UUIDGenerator,
	}
	if e.uuidGen == nil {
		e.uuidGen = uuid.NewGoogleUUIDGenerator()
	}

	return e
}

// NewInstance creates an instance of def cast by user on target. cast may be nil.
func (e *Engine) NewInstance(def *Definition, user, target Holder, cast Cast) *Instance {
	spell := ""
	if cast != nil {
		spell = cast.SpellName()
	}
	return &Instance{
		ID:         e.uuidGen.New(),
		Definition: def,
		User:       user,
		Target:     target,
		Cast:       cast,
		Stacks:     1,
		name:       def.ResolvedName(spell),
	}
}

// Run evaluates the ops of hook in order. Predicates AND into a success flag
// that starts true; once it is false the remaining ops are skipped.
func (e *Engine) Run(hook Hook, inst *Instance) bool {
	for _, op := range inst.Definition.Ops(hook) {
		if op.Code.IsPredicate() {
			if !e.test(op, inst) {
				return false
			}
			continue
		}
		e.apply(op, inst)
	}
	return true
}

// Check runs a check hook and stores its result on the instance
func (e *Engine) Check(hook Hook, inst *Instance) bool {
	inst.Success = e.Run(hook, inst)
	return inst.Success
}

// Attach inserts inst into its target's list. A live instance with the same
// resolved name either stacks (on_stack runs on the live one) or, for
// non-stackable definitions, wins and inst is dropped without any hook.
func (e *Engine) Attach(inst *Instance) Outcome {
	list := inst.Target.Effects()
	if existing := list.Find(inst.Name()); existing != nil {
		if !inst.Definition.Stackable {
			return Discarded
		}
		existing.Stacks++
		e.Run(HookOnStack, existing)
		log.Printf("[EFFECTS] %s stacked on %s (x%d)", existing.Name(), inst.Target.Name(), existing.Stacks)
		return Stacked
	}

	list.Insert(inst)
	e.Run(HookOnApply, inst)
	log.Printf("[EFFECTS] Applied %s to %s", inst.Name(), inst.Target.Name())
	return Applied
}

// Activate runs the deferred activation of a proc: check_success, then
// on_activate and Attach, or on_failed_to_activate.
func (e *Engine) Activate(inst *Instance) Outcome {
	if !inst.Target.Alive() {
		return Discarded
	}
	if !inst.Definition.Stackable && inst.Target.Effects().Find(inst.Name()) != nil {
		return Discarded
	}

	if !e.Check(HookCheckSuccess, inst) {
		e.Run(HookOnFailedToActivate, inst)
		return Failed
	}

	e.Run(HookOnActivate, inst)
	return e.Attach(inst)
}

// ActivateProperty activates a cast-scoped property. Properties never enter the effect list.
func (e *Engine) ActivateProperty(inst *Instance) bool {
	if !e.Check(HookCheckSuccess, inst) {
		return false
	}
	e.Run(HookOnActivate, inst)
	return true
}

// DeactivateProperty tears down a property that activated successfully
func (e *Engine) DeactivateProperty(inst *Instance) {
	if !inst.Success {
		return
	}
	e.Run(HookOnDeactivate, inst)
	inst.Success = false
}

// Deactivate runs on_deactivate and removes inst. It reports false when inst was not live.
func (e *Engine) Deactivate(inst *Instance) bool {
	if !inst.Target.Effects().Contains(inst) {
		return false
	}
	e.Run(HookOnDeactivate, inst)
	inst.Target.Effects().Remove(inst)
	log.Printf("[EFFECTS] Removed %s from %s", inst.Name(), inst.Target.Name())
	return true
}

// Remove drops inst without running on_deactivate, for forced takeovers
func (e *Engine) Remove(inst *Instance) bool {
	return inst.Target.Effects().Remove(inst)
}

// TurnStart runs on_turn_start for every live effect of h
func (e *Engine) TurnStart(h Holder) {
	e.each(h, func(inst *Instance) {
		e.Run(HookOnTurnStart, inst)
	})
}

// MoveSelected runs on_move_selected for every live effect of h
func (e *Engine) MoveSelected(h Holder) {
	e.each(h, func(inst *Instance) {
		e.Run(HookOnMoveSelected, inst)
	})
}

// TurnEnd deactivates every effect whose check_remain_active fails, then runs
// on_turn_end for the survivors and advances their turn counters.
func (e *Engine) TurnEnd(h Holder) {
	e.each(h, func(inst *Instance) {
		if !e.Check(HookCheckRemainActive, inst) {
			e.Deactivate(inst)
		}
	})
	e.each(h, func(inst *Instance) {
		e.Run(HookOnTurnEnd, inst)
		inst.TurnsActive++
	})
}

// Damage lowers the HP of h and strips its volatile effects if it dies.
// It returns the damage actually dealt.
func (e *Engine) Damage(h Holder, n int) int {
	if n <= 0 || !h.Alive() {
		return 0
	}
	dealt := h.TakeDamage(n)
	if !h.Alive() {
		log.Printf("[EFFECTS] %s was defeated", h.Name())
		e.StripVolatile(h)
	}
	return dealt
}

// StripVolatile deactivates every volatile effect of h
func (e *Engine) StripVolatile(h Holder) {
	e.each(h, func(inst *Instance) {
		if inst.Definition.IsVolatile() {
			e.Deactivate(inst)
		}
	})
}

// DryRun evaluates only the predicates of check_success. Random predicates
// still draw from the roller.
func (e *Engine) DryRun(inst *Instance) bool {
	for _, op := range inst.Definition.Ops(HookCheckSuccess) {
		if op.Code.IsPredicate() && !e.test(op, inst) {
			return false
		}
	}
	return true
}

// each visits a snapshot of the list, skipping instances removed along the way
func (e *Engine) each(h Holder, fn func(*Instance)) {
	list := h.Effects()
	for _, inst := range list.All() {
		if !list.Contains(inst) {
			continue
		}
		fn(inst)
	}
}

func (e *Engine) test(op Op, inst *Instance) bool {
	subject := inst.subject(op.Subject)
	switch op.Code {
	case OpChance:
		return rng.Chance(e.roller, op.Chance)
	case OpTurnsBelow:
		return inst.TurnsActive < op.Amount
	case OpAlive:
		return subject.Alive()
	case OpHPBelow:
		return float64(subject.HP()) < op.Factor*float64(subject.MaxHP())
	case OpHasEffect:
		return subject.Effects().Has(op.Effect)
	case OpLacksEffect:
		return !subject.Effects().Has(op.Effect)
	case OpCastLanded:
		return inst.Cast != nil && inst.Cast.Landed()
	case OpTouchable:
		return subject.AcceptsTouch()
	default:
		return true
	}
}

func (e *Engine) apply(op Op, inst *Instance) {
	subject := inst.subject(op.Subject)
	switch op.Code {
	case OpChangeStage:
		applied := subject.Stages().Change(op.Stat, op.Amount)
		log.Printf("[EFFECTS] %s: %s %s stage %+d", inst.Name(), subject.Name(), op.Stat, applied)
	case OpAddModifier:
		subject.Modifiers().Add(op.Stat, e.modifierKey(op, inst), op.Factor)
	case OpRemoveModifier:
		subject.Modifiers().Remove(op.Stat, e.modifierKey(op, inst))
	case OpDamageFraction:
		e.Damage(subject, fraction(subject.MaxHP(), op.Factor))
	case OpHealFraction:
		if subject.Alive() {
			subject.Heal(fraction(subject.MaxHP(), op.Factor))
		}
	case OpDrainMP:
		subject.DrainMP(op.Amount)
	case OpNarrate:
		if e.narrator == nil {
			return
		}
		if strings.Contains(op.Message, "%") {
			e.narrator.Narrate(op.Message, subject.Name())
		} else {
			e.narrator.Narrate(op.Message)
		}
	case OpPlaySequence:
		if e.sequencer != nil {
			if !e.sequencer.Play(op.Script) {
				log.Printf("[EFFECTS] %s: sequence %s not played", inst.Name(), op.Script)
			}
		}
	case OpCancelAction:
		subject.CancelAction()
	case OpAcceptTouch:
		subject.SetAcceptsTouch(true)
	case OpApplyEffect:
		e.applyEffect(op, inst, subject)
	}
}

func (e *Engine) applyEffect(op Op, inst *Instance, subject Holder) {
	if e.library == nil {
		log.Printf("[EFFECTS] %s: no library to resolve %s", inst.Name(), op.Effect)
		return
	}
	def, ok := e.library.Effect(op.Effect)
	if !ok {
		log.Printf("[EFFECTS] %s: unknown effect %s", inst.Name(), op.Effect)
		return
	}
	if e.depth >= maxApplyDepth {
		log.Printf("[EFFECTS] %s: apply_effect chain too deep, skipping %s", inst.Name(), op.Effect)
		return
	}

	e.depth++
	defer func() { e.depth-- }()
	e.Activate(e.NewInstance(def, inst.User, subject, inst.Cast))
}

func (e *Engine) modifierKey(op Op, inst *Instance) string {
	if op.Key != "" {
		return op.Key
	}
	return inst.Name()
}

// fraction returns floor(total*f), at least 1
func fraction(total int, f float64) int {
	n := int(math.Floor(float64(total) * f))
	if n < 1 {
		return 1
	}
	return n
}
