// Package spells holds immutable spell definitions. A spell's mechanics are
// a tagged behavior variant that callers switch over.
package spells

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
)

// Priority bounds for turn ordering. Unrelated to effect priority.
const (
	MinPriority = -6
	MaxPriority = 6
)

// Target is the shape of the set of entities a spell affects
type Target string

const (
	SingleEnemy Target = "single_enemy"
	RandomEnemy Target = "random_enemy"
	AllEnemy    Target = "all_enemy"
	Self        Target = "self"
	SingleParty Target = "single_party"
	AllParty    Target = "all_party"
	All         Target = "all"
)

// Validate reports whether t is a known shape
func (t Target) Validate() error {
	switch t {
	case SingleEnemy, RandomEnemy, AllEnemy, Self, SingleParty, AllParty, All:
		return nil
	}
	return apperr.Validationf("unknown target shape %q", string(t))
}

// NeedsChoice reports whether the caster picks one target
func (t Target) NeedsChoice() bool {
	return t == SingleEnemy || t == SingleParty
}

// Kind tags the active behavior variant
type Kind string

const (
	KindFlavor    Kind = "flavor"
	KindOffensive Kind = "offensive"
	KindStatus    Kind = "status"
)

// Flavor spells have no mechanical effect and always succeed
type Flavor struct{}

// Offensive spells roll hits and deal damage
type Offensive struct {
	Power          int        `yaml:"power"`
	Attack         stats.Kind `yaml:"attack"`  // attack or special_attack
	Defense        stats.Kind `yaml:"defense"` // defense or special_defense
	MinHits        int        `yaml:"min_hits"`
	MaxHits        int        `yaml:"max_hits"`
	HitCurve       Curve      `yaml:"hit_curve,omitempty"`
	AccuracyPerHit bool       `yaml:"accuracy_per_hit,omitempty"`

	// Accuracy is the base hit chance in percent. Zero never misses.
	Accuracy float64 `yaml:"accuracy"`

	// CritChance is the base crit denominator: 16 means 1 in 16. Zero never crits.
	CritChance float64 `yaml:"crit_chance"`
}

// Status spells only hit-check and proc
type Status struct {
	Accuracy float64 `yaml:"accuracy"`
}

// Behavior holds exactly one variant
type Behavior struct {
	Flavor    *Flavor    `yaml:"flavor,omitempty"`
	Offensive *Offensive `yaml:"offensive,omitempty"`
	Status    *Status    `yaml:"status,omitempty"`
}

// Kind returns the tag of the set variant, or "" when none or several are set
func (b Behavior) Kind() Kind {
	set := 0
	var kind Kind
	if b.Flavor != nil {
		set++
		kind = KindFlavor
	}
	if b.Offensive != nil {
		set++
		kind = KindOffensive
	}
	if b.Status != nil {
		set++
		kind = KindStatus
	}
	if set != 1 {
		return ""
	}
	return kind
}

// Accuracy returns the base accuracy of the variant. Flavor spells never miss.
func (b Behavior) Accuracy() float64 {
	switch b.Kind() {
	case KindOffensive:
		return b.Offensive.Accuracy
	case KindStatus:
		return b.Status.Accuracy
	default:
		return 0
	}
}

// Proc is a chance to trigger one effect out of a candidate set
type Proc struct {
	Chance      float64               `yaml:"chance"` // [0, 1]
	EffectNames []string              `yaml:"effects"`
	OnSelf      bool                  `yaml:"on_self,omitempty"`
	Effects     []*effects.Definition `yaml:"-"`
}

// Definition is an immutable spell
type Definition struct {
	Name          string                `yaml:"name"`
	Description   string                `yaml:"description,omitempty"`
	Cost          int                   `yaml:"cost"`
	Priority      int                   `yaml:"priority,omitempty"`
	Target        Target                `yaml:"target"`
	Behavior      Behavior              `yaml:"behavior"`
	Procs         []Proc                `yaml:"procs,omitempty"`
	PropertyNames []string              `yaml:"properties,omitempty"`
	Sequence      string                `yaml:"sequence,omitempty"`
	Properties    []*effects.Definition `yaml:"-"`
}

// Validate checks the definition without resolving effect names
func (d *Definition) Validate() error {
	if d.Name == "" {
		return apperr.Validation("spell name is required")
	}
	if d.Cost < 0 {
		return apperr.Validationf("spell %s: negative cost", d.Name)
	}
	if d.Priority < MinPriority || d.Priority > MaxPriority {
		return apperr.Validationf("spell %s: priority %d outside [%d, %d]", d.Name, d.Priority, MinPriority, MaxPriority)
	}
	if err := d.Target.Validate(); err != nil {
		return apperr.Wrapf(err, "spell %s", d.Name)
	}

	switch d.Behavior.Kind() {
	case KindOffensive:
		if err := d.Behavior.Offensive.validate(); err != nil {
			return apperr.Wrapf(err, "spell %s", d.Name)
		}
	case KindStatus:
		if d.Behavior.Status.Accuracy < 0 {
			return apperr.Validationf("spell %s: negative accuracy", d.Name)
		}
	case KindFlavor:
	default:
		return apperr.Validationf("spell %s: behavior must set exactly one of flavor, offensive, status", d.Name)
	}

	for i, p := range d.Procs {
		if p.Chance < 0 || p.Chance > 1 {
			return apperr.Validationf("spell %s: proc %d chance %v outside [0, 1]", d.Name, i, p.Chance)
		}
		if len(p.EffectNames) == 0 {
			return apperr.Validationf("spell %s: proc %d has no effects", d.Name, i)
		}
	}

	return nil
}

func (o *Offensive) validate() error {
	if o.Power <= 0 {
		return apperr.Validation("power must be positive")
	}
	if !o.Attack.IsOffensive() {
		return apperr.Validationf("attack stat %q is not offensive", o.Attack)
	}
	if !o.Defense.IsDefensive() {
		return apperr.Validationf("defense stat %q is not defensive", o.Defense)
	}
	if o.MinHits < 1 || o.MaxHits < o.MinHits {
		return apperr.Validationf("hit range [%d, %d] is invalid", o.MinHits, o.MaxHits)
	}
	if err := o.HitCurve.Validate(); err != nil {
		return err
	}
	if o.Accuracy < 0 || o.CritChance < 0 {
		return apperr.Validation("accuracy and crit chance must not be negative")
	}
	return nil
}

// Link resolves property and proc effect names through lookup
func (d *Definition) Link(lookup func(name string) (*effects.Definition, bool)) error {
	d.Properties = d.Properties[:0]
	for _, name := range d.PropertyNames {
		def, ok := lookup(name)
		if !ok {
			return apperr.NotFoundf("spell %s: property %s not found", d.Name, name)
		}
		d.Properties = append(d.Properties, def)
	}

	for i := range d.Procs {
		proc := &d.Procs[i]
		proc.Effects = proc.Effects[:0]
		for _, name := range proc.EffectNames {
			def, ok := lookup(name)
			if !ok {
				return apperr.NotFoundf("spell %s: proc effect %s not found", d.Name, name)
			}
			proc.Effects = append(proc.Effects, def)
		}
	}

	return nil
}
