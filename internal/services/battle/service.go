// Package battle runs the turn scheduler: a phase state machine that collects
// actions, orders and resolves them, and waits on presentation between steps.
package battle

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
	"github.com/KirkDiggler/battle-engine/internal/events"
	"github.com/KirkDiggler/battle-engine/internal/locale"
	"github.com/KirkDiggler/battle-engine/internal/repositories/battles"
	"github.com/KirkDiggler/battle-engine/internal/rng"
	"github.com/KirkDiggler/battle-engine/internal/sequence"
	"github.com/KirkDiggler/battle-engine/internal/services/action"
	"github.com/KirkDiggler/battle-engine/internal/uuid"
)

// Phase is a state of the scheduler
type Phase string

const (
	PhaseAwaitEntities Phase = "await_entities"
	PhaseBattleStart   Phase = "battle_start"
	PhaseTurnStart     Phase = "turn_start"
	PhaseAwaitActions  Phase = "await_actions"
	PhaseAISelect      Phase = "ai_select"
	PhaseActionResolve Phase = "action_resolve"
	PhaseEffectResolve Phase = "effect_resolve"
	PhaseTurnEnd       Phase = "turn_end"
	PhaseBattleLost    Phase = "battle_lost"
)

// maxTransitionsPerTick keeps a battle with no presentation from running
// many turns inside one Tick
const maxTransitionsPerTick = 16

// Service is the turn scheduler. It is driven from a single goroutine: the
// host calls Tick at its own rate and feeds choices between ticks.
type Service interface {
	ID() string
	Phase() Phase
	Turn() int

	// Start (re)enters battle_start, interrupting whatever transition was running
	Start(ctx context.Context)

	// Tick steps presentation once, then advances phases until one blocks
	Tick(ctx context.Context) error

	AddEntity(e *combatant.Entity) error
	RemoveEntity(id string) error
	Entities() []*combatant.Entity
	Entity(id string) (*combatant.Entity, bool)

	// Choose records a turn action. An empty spellName passes the turn.
	Choose(entityID, spellName, targetID string) error

	Snapshot() *battles.Snapshot
}

// ServiceConfig holds configuration for the battle service
type ServiceConfig struct {
	ID      string
	Bus     *events.Bus
	Player  *sequence.Player
	Engine  *effects.Engine
	Actions action.Service
	Roller  rng.Roller

	// Sequencer queues named scripts, normally a *sequence.Director
	Sequencer   effects.Sequencer
	Narrator    *Narrator
	Printer     *locale.Printer
	Repository  battles.Repository
	IntroScript string
	Tracer      trace.Tracer

	UUIDGenerator uuid.Generator
}

type resolveStage int

const (
	stageNext resolveStage = iota
	stageCast
	stageEffects
)

type service struct {
	id          string
	bus         *events.Bus
	player      *sequence.Player
	engine      *effects.Engine
	actions     action.Service
	roller      rng.Roller
	sequencer   effects.Sequencer
	narrator    *Narrator
	printer     *locale.Printer
	repository  battles.Repository
	introScript string
	tracer      trace.Tracer

	entities  []*combatant.Entity
	announced map[string]bool

	phase Phase
	turn  int

	order   []*combatant.Entity
	cursor  int
	stage   resolveStage
	pending []*effects.Instance

	transitionCtx context.Context
	cancel        context.CancelFunc
	span          trace.Span
}

// NewService creates a new battle service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Bus == nil {
		panic("bus is required")
	}
	if cfg.Player == nil {
		panic("sequence player is required")
	}
	if cfg.Engine == nil {
		panic("effects engine is required")
	}
	if cfg.Actions == nil {
		panic("action service is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}

	svc := &service{
		id:          cfg.ID,
		bus:         cfg.Bus,
		player:      cfg.Player,
		engine:      cfg.Engine,
		actions:     cfg.Actions,
		roller:      cfg.Roller,
		sequencer:   cfg.Sequencer,
		narrator:    cfg.Narrator,
		printer:     cfg.Printer,
		repository:  cfg.Repository,
		introScript: cfg.IntroScript,
		tracer:      cfg.Tracer,
		announced:   make(map[string]bool),
		phase:       PhaseAwaitEntities,
	}
	if svc.id == "" {
		gen := cfg.UUIDGenerator
		if gen == nil {
			gen = uuid.NewGoogleUUIDGenerator()
		}
		svc.id = gen.New()
	}
	if svc.printer == nil {
		svc.printer = locale.NewPrinter("en")
	}
	if svc.narrator == nil {
		svc.narrator = NewNarrator(svc.bus, svc.printer)
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer("github.com/KirkDiggler/battle-engine/internal/services/battle")
	}

	events.Subscribe(svc.bus, ActionChosen, func(c ActionChoice) error {
		return svc.Choose(c.EntityID, c.Spell, c.TargetID)
	})

	return svc
}

func (s *service) ID() string   { return s.id }
func (s *service) Phase() Phase { return s.phase }
func (s *service) Turn() int    { return s.turn }

func (s *service) Start(ctx context.Context) {
	s.interrupt(ctx, PhaseBattleStart)
}

func (s *service) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperr.Wrapf(err, "battle %s tick", s.id)
	}

	s.player.Tick()
	for i := 0; i < maxTransitionsPerTick; i++ {
		if !s.poll(ctx) {
			break
		}
	}
	return nil
}

// poll runs the wait of the current phase once and reports whether it moved on
func (s *service) poll(ctx context.Context) bool {
	switch s.phase {
	case PhaseAwaitEntities:
		if !s.ready() {
			return false
		}
		s.enter(ctx, PhaseBattleStart)
		return true

	case PhaseBattleStart:
		return s.afterDrain(ctx, PhaseTurnStart)

	case PhaseTurnStart:
		return s.afterDrain(ctx, PhaseAwaitActions)

	case PhaseAwaitActions:
		for _, e := range s.entities {
			if e.Alive() && !e.IsAI() && !e.HasChosen() {
				return false
			}
		}
		s.enter(ctx, PhaseAISelect)
		return true

	case PhaseAISelect:
		waiting := false
		for _, e := range s.entities {
			if e.Alive() && e.IsAI() && !e.HasChosen() {
				s.selectAI(e)
				waiting = waiting || !e.HasChosen()
			}
		}
		if waiting {
			return false
		}
		s.enter(ctx, PhaseActionResolve)
		return true

	case PhaseActionResolve:
		return s.resolveActions(ctx)

	case PhaseEffectResolve:
		return s.afterDrain(ctx, PhaseTurnEnd)

	case PhaseTurnEnd:
		if s.player.Active() {
			return false
		}
		s.finishTurn(ctx)
		return true
	}

	return false
}

func (s *service) afterDrain(ctx context.Context, next Phase) bool {
	if s.player.Active() {
		return false
	}
	s.enter(ctx, next)
	return true
}

// enter closes the running transition and performs the entry work of phase
func (s *service) enter(ctx context.Context, phase Phase) {
	s.closeTransition(false)

	s.phase = phase
	// a transition may outlive the Tick that started it; only leaving the phase cancels it
	spanCtx, span := s.tracer.Start(context.WithoutCancel(ctx), "battle."+string(phase), trace.WithAttributes(
		attribute.String("battle.id", s.id),
		attribute.Int("battle.turn", s.turn),
	))
	s.transitionCtx, s.cancel = context.WithCancel(spanCtx)
	s.span = span

	log.Printf("[BATTLE] %s: entering %s", s.id, phase)
	events.MustPublish(s.bus, PhaseChanged, string(phase))

	switch phase {
	case PhaseBattleStart:
		s.onBattleStart(ctx)
	case PhaseTurnStart:
		s.onTurnStart()
	case PhaseActionResolve:
		s.onActionResolve()
	case PhaseEffectResolve:
		s.announceDefeats()
	case PhaseTurnEnd:
		s.onTurnEnd()
	case PhaseBattleLost:
		s.narrator.Narrate(locale.MsgBattleLost)
		events.MustPublish(s.bus, Lost, events.Void{})
		s.closeTransition(false)
	}
}

// interrupt enters phase, marking the running transition as cancelled
func (s *service) interrupt(ctx context.Context, phase Phase) {
	s.closeTransition(true)
	s.order = nil
	s.pending = nil
	s.enter(ctx, phase)
}

func (s *service) closeTransition(interrupted bool) {
	if s.cancel == nil {
		return
	}
	if interrupted {
		s.span.SetStatus(codes.Error, "interrupted")
		log.Printf("[BATTLE] %s: %s interrupted", s.id, s.phase)
	}
	s.cancel()
	s.span.End()
	s.cancel = nil
	s.span = nil
}

// ready reports whether two sides can fight
func (s *service) ready() bool {
	return len(s.entities) >= 2 && s.sideAlive(combatant.Player) && s.sideAlive(combatant.Opponent)
}

func (s *service) sideAlive(side combatant.Side) bool {
	for _, e := range s.entities {
		if e.Side() == side && e.Alive() {
			return true
		}
	}
	return false
}

func (s *service) onBattleStart(ctx context.Context) {
	if !s.ready() {
		s.enter(ctx, PhaseAwaitEntities)
		return
	}

	for _, e := range s.entities {
		if e.Side() == combatant.Opponent && e.Alive() {
			s.narrator.Narrate(locale.MsgEncounter, e.Name())
		}
	}
	s.play(s.introScript)
}

func (s *service) onTurnStart() {
	s.turn++
	events.MustPublish(s.bus, TurnStarted, s.turn)
	log.Printf("[BATTLE] %s: turn %d", s.id, s.turn)

	for _, e := range s.entities {
		e.ResetTurn()
	}
	for _, e := range s.entities {
		if e.Alive() {
			s.engine.TurnStart(e)
		}
	}
}

// selectAI makes one attempt at picking an action for e
func (s *service) selectAI(e *combatant.Entity) {
	affordable := e.Affordable()
	if len(affordable) == 0 {
		log.Printf("[BATTLE] %s has nothing affordable and passes", e.Name())
		e.Choose(nil, "")
		return
	}

	spell := affordable[rng.Pick(s.roller, len(affordable))]
	target, targetID := s.aiTarget(spell, e)
	if target == nil {
		return
	}
	if !s.actions.DryRun(spell, e, target) {
		return
	}
	e.Choose(spell, targetID)
}

// aiTarget picks who an AI aims spell at. targetID is only set for shapes that need a choice.
func (s *service) aiTarget(spell *spells.Definition, user *combatant.Entity) (*combatant.Entity, string) {
	if spell.Target.NeedsChoice() {
		options := candidates(spell.Target, user, s.entities)
		i := rng.Pick(s.roller, len(options))
		if i < 0 {
			return nil, ""
		}
		return options[i], options[i].ID()
	}

	// probe against the first entity the shape would reach
	for _, e := range s.entities {
		if !e.Alive() {
			continue
		}
		switch spell.Target {
		case spells.Self:
			return user, ""
		case spells.RandomEnemy, spells.AllEnemy:
			if e.IsEnemyOf(user) {
				return e, ""
			}
		case spells.AllParty:
			if !e.IsEnemyOf(user) {
				return e, ""
			}
		default:
			return e, ""
		}
	}
	return nil, ""
}

func (s *service) onActionResolve() {
	var acting []*combatant.Entity
	for _, e := range s.entities {
		if e.Alive() {
			s.engine.MoveSelected(e)
			acting = append(acting, e)
		}
	}

	s.order = TurnOrder(acting, s.roller)
	s.cursor = 0
	s.stage = stageNext
	s.pending = nil
}

// resolveActions works through the turn order, blocking while presentation plays
func (s *service) resolveActions(ctx context.Context) bool {
	for {
		switch s.stage {
		case stageNext:
			if s.cursor >= len(s.order) {
				s.order = nil
				s.enter(ctx, PhaseEffectResolve)
				return true
			}
			e := s.order[s.cursor]
			s.cursor++
			s.beginCast(e)

		case stageCast:
			if s.player.Active() {
				return false
			}
			for _, inst := range s.pending {
				outcome := s.engine.Activate(inst)
				log.Printf("[BATTLE] %s on %s: %s", inst.Name(), inst.Target.Name(), outcome)
			}
			s.pending = nil
			s.stage = stageEffects

		case stageEffects:
			if s.player.Active() {
				return false
			}
			s.stage = stageNext
		}
	}
}

// beginCast resolves the chosen action of e and queues its presentation
func (s *service) beginCast(e *combatant.Entity) {
	if !e.Alive() || !s.has(e) {
		return
	}

	turn := e.Turn()
	spell := turn.Choice.Spell
	if spell == nil {
		return
	}
	if turn.Cancelled {
		s.narrator.Narrate(locale.MsgCannotMove, e.Name())
		return
	}

	events.MustPublish(s.bus, ActiveEntity, e)
	events.MustPublish(s.bus, PreCast, e)
	s.narrator.Narrate(locale.MsgUsedSpell, e.Name(), spell.Name)

	targets := resolveTargets(spell.Target, e, turn.Choice.TargetID, s.entities, s.roller)
	if len(targets) == 0 {
		s.narrator.Narrate(locale.MsgNoTarget)
		return
	}
	events.MustPublish(s.bus, SpellCast, spell)

	casts, err := s.actions.Cast(s.transitionCtx, spell, e, targets)
	if err != nil {
		log.Printf("[BATTLE] %s casting %s: %v", e.Name(), spell.Name, err)
		return
	}

	for _, c := range casts {
		s.narrateCast(c)
		s.pending = append(s.pending, c.Triggered...)
	}
	s.play(spell.Sequence)
	s.stage = stageCast
}

func (s *service) narrateCast(c *action.Cast) {
	if c.FailMessage != "" {
		s.narrator.Line(c.FailMessage)
		return
	}
	if c.Critical() {
		s.narrator.Narrate(locale.MsgCritical)
	}
	if dmg := c.TotalDamage(); dmg > 0 {
		s.narrator.Narrate(locale.MsgTookDamage, c.Target.Name(), dmg)
	}
	if len(c.Hits) > 1 {
		s.narrator.Narrate(locale.MsgHitTimes, c.LandedHits())
	}
}

func (s *service) announceDefeats() {
	for _, e := range s.entities {
		if e.Alive() || s.announced[e.ID()] {
			continue
		}
		s.announced[e.ID()] = true
		s.narrator.Narrate(locale.MsgFainted, e.Name())
		events.MustPublish(s.bus, Defeated, e)
	}
}

func (s *service) onTurnEnd() {
	for _, e := range s.entities {
		if e.Alive() {
			s.engine.TurnEnd(e)
		}
	}
	s.announceDefeats()
}

// finishTurn persists the turn and picks the next phase
func (s *service) finishTurn(ctx context.Context) {
	s.save()

	switch {
	case !s.sideAlive(combatant.Player):
		s.enter(ctx, PhaseBattleLost)
	case !s.sideAlive(combatant.Opponent):
		s.dropDefeatedOpponents()
		events.MustPublish(s.bus, EncounterRequested, events.Void{})
		s.enter(ctx, PhaseBattleStart)
	default:
		s.enter(ctx, PhaseTurnStart)
	}
}

func (s *service) dropDefeatedOpponents() {
	kept := s.entities[:0]
	for _, e := range s.entities {
		if e.Side() == combatant.Opponent && !e.Alive() {
			delete(s.announced, e.ID())
			continue
		}
		kept = append(kept, e)
	}
	s.entities = kept
}

func (s *service) save() {
	if s.repository == nil {
		return
	}
	if err := s.repository.Save(s.transitionCtx, s.Snapshot()); err != nil {
		log.Printf("[BATTLE] %s: saving snapshot: %v", s.id, err)
	}
}

func (s *service) play(script string) {
	if script == "" || s.sequencer == nil {
		return
	}
	s.sequencer.Play(script)
}

func (s *service) Snapshot() *battles.Snapshot {
	snap := &battles.Snapshot{
		ID:       s.id,
		Turn:     s.turn,
		Phase:    string(s.phase),
		Entities: make([]battles.EntitySnapshot, 0, len(s.entities)),
	}
	for _, e := range s.entities {
		snap.Entities = append(snap.Entities, entitySnapshot(e))
	}
	return snap
}

func (s *service) AddEntity(e *combatant.Entity) error {
	if e == nil {
		return apperr.InvalidArgument("entity is required")
	}
	if s.has(e) {
		return apperr.AlreadyExistsf("entity %s already in battle %s", e.ID(), s.id)
	}
	s.entities = append(s.entities, e)
	log.Printf("[BATTLE] %s: %s joined (%s)", s.id, e.Name(), e.Side())
	return nil
}

func (s *service) RemoveEntity(id string) error {
	for i, e := range s.entities {
		if e.ID() == id {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			delete(s.announced, id)
			return nil
		}
	}
	return apperr.NotFoundf("entity %s not in battle %s", id, s.id)
}

func (s *service) Entities() []*combatant.Entity {
	out := make([]*combatant.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func (s *service) Entity(id string) (*combatant.Entity, bool) {
	for _, e := range s.entities {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

func (s *service) has(e *combatant.Entity) bool {
	_, ok := s.Entity(e.ID())
	return ok
}

func (s *service) Choose(entityID, spellName, targetID string) error {
	if s.phase != PhaseTurnStart && s.phase != PhaseAwaitActions {
		return apperr.FailedPreconditionf("battle %s is not taking actions in %s", s.id, s.phase)
	}

	e, ok := s.Entity(entityID)
	if !ok {
		return apperr.NotFoundf("entity %s not in battle %s", entityID, s.id)
	}
	if !e.Alive() {
		return apperr.FailedPreconditionf("%s is defeated", e.Name())
	}

	if spellName == "" {
		e.Choose(nil, "")
		return nil
	}

	spell, ok := e.Spell(spellName)
	if !ok {
		return apperr.NotFoundf("%s does not know %s", e.Name(), spellName)
	}
	if spell.Target.NeedsChoice() {
		if targetID == "" {
			return apperr.InvalidArgumentf("%s needs a target", spell.Name)
		}
		if _, ok := s.Entity(targetID); !ok {
			return apperr.NotFoundf("target %s not in battle %s", targetID, s.id)
		}
		if !isCandidate(spell.Target, e, targetID, s.entities) {
			return apperr.InvalidArgumentf("%s cannot be aimed at %s", spell.Name, targetID)
		}
	} else {
		targetID = ""
	}

	e.Choose(spell, targetID)
	return nil
}
