// Package action resolves spell casts: cost, hit checks, damage, criticals and procs.
package action

//go:generate mockgen -destination=mock/mock_service.go -package=mockaction -source=service.go

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
	"github.com/KirkDiggler/battle-engine/internal/locale"
	"github.com/KirkDiggler/battle-engine/internal/rng"
)

// Service resolves spell casts
type Service interface {
	// Cast resolves spell from user against each target in order. Gameplay
	// failures are reported on the returned casts, not as errors.
	Cast(ctx context.Context, spell *spells.Definition, user *combatant.Entity, targets []*combatant.Entity) ([]*Cast, error)

	// DryRun reports whether the properties and procs of spell could activate
	// against target. Used by AI action selection.
	DryRun(spell *spells.Definition, user, target *combatant.Entity) bool
}

// EligibilityFunc decides whether user may cast spell on target at all
type EligibilityFunc func(spell *spells.Definition, user, target *combatant.Entity) bool

// ServiceConfig holds configuration for the action service
type ServiceConfig struct {
	Engine   *effects.Engine
	Roller   rng.Roller
	Printer  *locale.Printer
	Eligible EligibilityFunc
	Level    int
	Tracer   trace.Tracer
}

type service struct {
	engine   *effects.Engine
	roller   rng.Roller
	printer  *locale.Printer
	eligible EligibilityFunc
	level    int
	tracer   trace.Tracer
}

// NewService creates a new action service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Engine == nil {
		panic("effects engine is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}

	svc := &service{
		engine:   cfg.Engine,
		roller:   cfg.Roller,
		printer:  cfg.Printer,
		eligible: cfg.Eligible,
		level:    cfg.Level,
		tracer:   cfg.Tracer,
	}
	if svc.printer == nil {
		svc.printer = locale.NewPrinter("en")
	}
	if svc.eligible == nil {
		svc.eligible = func(*spells.Definition, *combatant.Entity, *combatant.Entity) bool { return true }
	}
	if svc.level <= 0 {
		svc.level = stats.DefaultLevel
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer("github.com/KirkDiggler/battle-engine/internal/services/action")
	}

	return svc
}

// Cast resolves every target in order. Each target pays the cost on its own.
func (s *service) Cast(ctx context.Context, spell *spells.Definition, user *combatant.Entity, targets []*combatant.Entity) ([]*Cast, error) {
	if spell == nil {
		return nil, apperr.InvalidArgument("spell is required")
	}
	if user == nil {
		return nil, apperr.InvalidArgument("user is required")
	}
	if len(targets) == 0 {
		return nil, apperr.InvalidArgumentf("spell %s has no targets", spell.Name)
	}

	_, span := s.tracer.Start(ctx, "action.Cast", trace.WithAttributes(
		attribute.String("spell", spell.Name),
		attribute.String("user", user.ID()),
		attribute.Int("targets", len(targets)),
	))
	defer span.End()

	external := user.Properties()
	paid, consumed := 0, false

	casts := make([]*Cast, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return casts, apperr.Wrapf(err, "cast %s interrupted", spell.Name)
		}

		c := &Cast{Spell: spell, User: user, Target: target}
		casts = append(casts, c)

		if !user.SpendMP(spell.Cost) {
			c.FailMessage = s.printer.Sprintf(locale.MsgNotEnoughMP, user.Name())
			log.Printf("[ACTION] %s -> %s: %s not enough MP", user.Name(), targetName(target), spell.Name)
			continue
		}
		paid++

		switch {
		case target == nil || !target.Alive():
			c.FailMessage = s.printer.Sprintf(locale.MsgNoTarget)
		case !s.eligible(spell, user, target):
			c.FailMessage = s.printer.Sprintf(locale.MsgCannotCast, user.Name())
		default:
			props := s.activateProperties(c, external)
			s.resolve(c)
			for _, p := range props {
				s.engine.DeactivateProperty(p)
			}
			consumed = true
		}

		log.Printf("[ACTION] %s -> %s: %s success=%v damage=%d triggered=%d",
			user.Name(), targetName(target), spell.Name, c.Success, c.TotalDamage(), len(c.Triggered))
	}

	// queued properties last for one resolved cast
	if consumed {
		user.TakeProperties()
	}

	span.SetAttributes(attribute.Int("paid", paid))
	return casts, nil
}

func (s *service) activateProperties(c *Cast, external []*effects.Definition) []*effects.Instance {
	defs := make([]*effects.Definition, 0, len(c.Spell.Properties)+len(external))
	defs = append(defs, c.Spell.Properties...)
	defs = append(defs, external...)

	active := make([]*effects.Instance, 0, len(defs))
	for _, def := range defs {
		inst := s.engine.NewInstance(def, c.User, c.Target, c)
		if s.engine.ActivateProperty(inst) {
			active = append(active, inst)
		}
	}
	return active
}

func (s *service) resolve(c *Cast) {
	behavior := c.Spell.Behavior
	switch behavior.Kind() {
	case spells.KindFlavor:
		c.Success = true

	case spells.KindStatus:
		if !s.hitCheck(c, behavior.Status.Accuracy) {
			return
		}
		c.Hits = []Hit{{Landed: true}}
		s.rollProcs(c)
		c.Success = true

	case spells.KindOffensive:
		s.resolveOffensive(c, behavior.Offensive)

	default:
		log.Printf("[ACTION] %s has no behavior", c.Spell.Name)
		c.FailMessage = s.printer.Sprintf(locale.MsgButFailed)
	}
}

func (s *service) resolveOffensive(c *Cast, o *spells.Offensive) {
	if !s.hitCheck(c, o.Accuracy) {
		return
	}

	count := o.MinHits
	if o.MaxHits > o.MinHits {
		count = spells.HitCount(o.MinHits, o.MaxHits, o.HitCurve, s.roller.Float64())
	}

	procced := false
	for i := 0; i < count && c.Target.Alive(); i++ {
		if i > 0 && o.AccuracyPerHit && !s.rollHit(c, o.Accuracy) {
			c.Hits = append(c.Hits, Hit{})
			continue
		}

		hit := Hit{Landed: true}
		if p := CritProbability(o.CritChance, c.User.Base().CritModifier); p > 0 {
			hit.Critical = rng.Chance(s.roller, p)
		}
		hit.Damage = s.damage(c, o, hit.Critical)
		s.engine.Damage(c.Target, hit.Damage)
		c.Hits = append(c.Hits, hit)

		if s.rollProcs(c) {
			procced = true
		}
	}

	c.Success = c.Landed() || c.TotalDamage() > 0 || procced
	if !c.Success && c.FailMessage == "" {
		c.FailMessage = s.printer.Sprintf(locale.MsgButFailed)
	}
}

func (s *service) damage(c *Cast, o *spells.Offensive, critical bool) int {
	atkMod := c.User.Stages().Multiplier(o.Attack)
	defMod := c.Target.Stages().Multiplier(o.Defense)
	if critical {
		if atkMod < 1 {
			atkMod = 1
		}
		if defMod > 1 {
			defMod = 1
		}
	}
	atkMod *= c.User.Modifiers().Product(o.Attack)
	defMod *= c.Target.Modifiers().Product(o.Defense)

	return ComputeDamage(DamageInput{
		Level:      s.level,
		Power:      o.Power,
		Attack:     float64(c.User.Base().Value(o.Attack)),
		AttackMod:  atkMod,
		Defense:    float64(c.Target.Base().Value(o.Defense)),
		DefenseMod: defMod,
		Random:     s.roller.Range(MinRandomFactor, MaxRandomFactor),
		Critical:   critical,
	})
}

// hitCheck rolls the first accuracy check and writes the miss message on failure
func (s *service) hitCheck(c *Cast, accuracy float64) bool {
	if s.rollHit(c, accuracy) {
		return true
	}

	acc, eva := s.accuracy(c), s.evasion(c)
	if s.roller.Float64() < eva/(acc+eva) {
		c.FailMessage = s.printer.Sprintf(locale.MsgDodged, c.Target.Name())
	} else {
		c.FailMessage = s.printer.Sprintf(locale.MsgMissed, c.User.Name())
	}
	return false
}

// rollHit compares a uniform draw in [0, 100) with
// accuracy * (userAccuracy/targetEvasion) * product(accuracy modifiers).
// Zero accuracy never misses.
func (s *service) rollHit(c *Cast, accuracy float64) bool {
	if accuracy <= 0 {
		return true
	}
	chance := accuracy * (s.accuracy(c) / s.evasion(c)) * c.User.Modifiers().Product(stats.Accuracy)
	return s.roller.Range(0, 100) <= chance
}

func (s *service) accuracy(c *Cast) float64 {
	return c.User.Stages().Multiplier(stats.Accuracy)
}

func (s *service) evasion(c *Cast) float64 {
	dodge := c.Target.Base().DodgeModifier
	if dodge <= 0 {
		dodge = 1
	}
	return c.Target.Stages().Multiplier(stats.Evasion) * dodge
}

// rollProcs evaluates every proc once. A candidate whose non-stackable
// definition is already queued on the same holder for this cast is dropped.
func (s *service) rollProcs(c *Cast) bool {
	procced := false
	for _, proc := range c.Spell.Procs {
		if len(proc.Effects) == 0 {
			continue
		}
		if !rng.Chance(s.roller, proc.Chance) {
			continue
		}

		def := proc.Effects[rng.Pick(s.roller, len(proc.Effects))]
		holder := c.Target
		if proc.OnSelf {
			holder = c.User
		}

		inst := s.engine.NewInstance(def, c.User, holder, c)
		if queuedConflict(c.Triggered, inst) {
			continue
		}
		c.Triggered = append(c.Triggered, inst)
		procced = true
	}
	return procced
}

func queuedConflict(queued []*effects.Instance, inst *effects.Instance) bool {
	if inst.Definition.Stackable {
		return false
	}
	for _, q := range queued {
		if q.Target == inst.Target && q.Name() == inst.Name() {
			return true
		}
	}
	return false
}

// DryRun evaluates the check predicates of every property, and requires each
// proc to have at least one candidate that could activate.
func (s *service) DryRun(spell *spells.Definition, user, target *combatant.Entity) bool {
	if spell == nil || user == nil || target == nil {
		return false
	}
	if spell.Cost > user.MP() || !target.Alive() {
		return false
	}

	probe := &Cast{Spell: spell, User: user, Target: target, Hits: []Hit{{Landed: true}}}
	for _, def := range spell.Properties {
		if !s.engine.DryRun(s.engine.NewInstance(def, user, target, probe)) {
			return false
		}
	}

	for _, proc := range spell.Procs {
		holder := target
		if proc.OnSelf {
			holder = user
		}
		ok := len(proc.Effects) == 0
		for _, def := range proc.Effects {
			if s.engine.DryRun(s.engine.NewInstance(def, user, holder, probe)) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	return true
}

func targetName(e *combatant.Entity) string {
	if e == nil {
		return "<none>"
	}
	return e.Name()
}
