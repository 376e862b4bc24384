package effects

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
)

// OpCode selects what an Op does
type OpCode string

// Predicates AND into the success flag of a hook evaluation
const (
	OpChance      OpCode = "chance"
	OpTurnsBelow  OpCode = "turns_below"
	OpAlive       OpCode = "alive"
	OpHPBelow     OpCode = "hp_below"
	OpHasEffect   OpCode = "has_effect"
	OpLacksEffect OpCode = "lacks_effect"
	OpCastLanded  OpCode = "cast_landed"
	OpTouchable   OpCode = "accepts_touch"
)

// Actions run only while the success flag is still true
const (
	OpChangeStage    OpCode = "change_stage"
	OpAddModifier    OpCode = "add_modifier"
	OpRemoveModifier OpCode = "remove_modifier"
	OpDamageFraction OpCode = "damage_fraction"
	OpHealFraction   OpCode = "heal_fraction"
	OpDrainMP        OpCode = "drain_mp"
	OpNarrate        OpCode = "narrate"
	OpPlaySequence   OpCode = "play_sequence"
	OpCancelAction   OpCode = "cancel_action"
	OpApplyEffect    OpCode = "apply_effect"
	OpAcceptTouch    OpCode = "accept_touch"
)

var predicates = map[OpCode]bool{
	OpChance:      true,
	OpTurnsBelow:  true,
	OpAlive:       true,
	OpHPBelow:     true,
	OpHasEffect:   true,
	OpLacksEffect: true,
	OpCastLanded:  true,
	OpTouchable:   true,
}

var actions = map[OpCode]bool{
	OpChangeStage:    true,
	OpAddModifier:    true,
	OpRemoveModifier: true,
	OpDamageFraction: true,
	OpHealFraction:   true,
	OpDrainMP:        true,
	OpNarrate:        true,
	OpPlaySequence:   true,
	OpCancelAction:   true,
	OpApplyEffect:    true,
	OpAcceptTouch:    true,
}

// IsPredicate reports whether c tests state instead of changing it
func (c OpCode) IsPredicate() bool {
	return predicates[c]
}

// Subject selects which side of an instance an Op reads or changes
type Subject string

const (
	// SubjectTarget is the holder of the effect and the default
	SubjectTarget Subject = "target"
	// SubjectUser is whoever caused the effect
	SubjectUser Subject = "user"
)

// Op is one declarative step of a hook
type Op struct {
	Code    OpCode     `yaml:"op"`
	Subject Subject    `yaml:"subject,omitempty"`
	Stat    stats.Kind `yaml:"stat,omitempty"`
	Amount  int        `yaml:"amount,omitempty"`
	Factor  float64    `yaml:"factor,omitempty"`
	Chance  float64    `yaml:"chance,omitempty"`
	Key     string     `yaml:"key,omitempty"`
	Effect  string     `yaml:"effect,omitempty"`
	Message string     `yaml:"message,omitempty"`
	Script  string     `yaml:"script,omitempty"`
}

// Validate checks that the op carries the arguments its code needs
func (o Op) Validate() error {
	if !predicates[o.Code] && !actions[o.Code] {
		return apperr.Validationf("unknown op %q", o.Code)
	}
	switch o.Subject {
	case "", SubjectTarget, SubjectUser:
	default:
		return apperr.Validationf("op %s: unknown subject %q", o.Code, o.Subject)
	}

	switch o.Code {
	case OpChance:
		if o.Chance < 0 || o.Chance > 1 {
			return apperr.Validationf("op %s: chance %v outside [0, 1]", o.Code, o.Chance)
		}
	case OpChangeStage, OpAddModifier, OpRemoveModifier:
		if err := o.Stat.Validate(); err != nil {
			return apperr.Wrapf(err, "op %s", o.Code)
		}
		if o.Code == OpAddModifier && o.Factor <= 0 {
			return apperr.Validationf("op %s: factor must be positive", o.Code)
		}
	case OpHPBelow, OpDamageFraction, OpHealFraction:
		if o.Factor <= 0 || o.Factor > 1 {
			return apperr.Validationf("op %s: factor %v outside (0, 1]", o.Code, o.Factor)
		}
	case OpHasEffect, OpLacksEffect, OpApplyEffect:
		if o.Effect == "" {
			return apperr.Validationf("op %s: effect is required", o.Code)
		}
	case OpNarrate:
		if o.Message == "" {
			return apperr.Validationf("op %s: message is required", o.Code)
		}
	case OpPlaySequence:
		if o.Script == "" {
			return apperr.Validationf("op %s: script is required", o.Code)
		}
	}

	return nil
}
