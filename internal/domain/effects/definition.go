// Package effects implements status effects: immutable definitions whose
// lifecycle hooks are lists of declarative operations, the runtime instances
// attached to entities, and the engine that evaluates them.
package effects

import (
	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
)

// MaxPriority bounds Definition.Priority. Effect priority is unrelated to spell priority.
const MaxPriority = 9

// Volatility decides whether an effect survives the death of its holder
type Volatility string

const (
	Volatile    Volatility = "volatile"
	NonVolatile Volatility = "non_volatile"
)

// Hook names a lifecycle point of an effect
type Hook string

const (
	HookCheckSuccess       Hook = "check_success"
	HookCheckRemainActive  Hook = "check_remain_active"
	HookOnActivate         Hook = "on_activate"
	HookOnFailedToActivate Hook = "on_failed_to_activate"
	HookOnApply            Hook = "on_apply"
	HookOnDeactivate       Hook = "on_deactivate"
	HookOnTurnStart        Hook = "on_turn_start"
	HookOnMoveSelected     Hook = "on_move_selected"
	HookOnTurnEnd          Hook = "on_turn_end"
	HookOnStack            Hook = "on_stack"
)

var knownHooks = map[Hook]bool{
	HookCheckSuccess:       true,
	HookCheckRemainActive:  true,
	HookOnActivate:         true,
	HookOnFailedToActivate: true,
	HookOnApply:            true,
	HookOnDeactivate:       true,
	HookOnTurnStart:        true,
	HookOnMoveSelected:     true,
	HookOnTurnEnd:          true,
	HookOnStack:            true,
}

// Definition is the immutable template of a status effect, shared by all of its instances
type Definition struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Stackable   bool          `yaml:"stackable,omitempty"`
	Generic     bool          `yaml:"generic,omitempty"` // name is scoped per owning spell
	Priority    int           `yaml:"priority"`          // higher resolves and deactivates first
	Volatility  Volatility    `yaml:"volatility"`
	Hooks       map[Hook][]Op `yaml:"hooks,omitempty"`
}

// ResolvedName returns the name instances of d are keyed by
func (d *Definition) ResolvedName(spellName string) string {
	if d.Generic {
		return spellName + d.Name
	}
	return d.Name
}

// Ops returns the operations of a hook. A missing hook has none.
func (d *Definition) Ops(hook Hook) []Op {
	if d.Hooks == nil {
		return nil
	}
	return d.Hooks[hook]
}

// IsVolatile reports whether instances are stripped when their holder dies
func (d *Definition) IsVolatile() bool {
	return d.Volatility == Volatile
}

// Validate checks the definition and every op of every hook
func (d *Definition) Validate() error {
	if d.Name == "" {
		return apperr.Validation("effect name is required")
	}
	if d.Priority < 0 || d.Priority > MaxPriority {
		return apperr.Validationf("effect %s: priority %d outside [0, %d]", d.Name, d.Priority, MaxPriority)
	}
	switch d.Volatility {
	case Volatile, NonVolatile:
	default:
		return apperr.Validationf("effect %s: unknown volatility %q", d.Name, d.Volatility)
	}

	for hook, ops := range d.Hooks {
		if !knownHooks[hook] {
			return apperr.Validationf("effect %s: unknown hook %q", d.Name, hook)
		}
		for i, op := range ops {
			if err := op.Validate(); err != nil {
				return apperr.Wrapf(err, "effect %s: %s[%d]", d.Name, hook, i)
			}
		}
	}

	return nil
}
