package stats

import (
	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
)

// Kind names a stat that has a stage and a modifier category
type Kind string

const (
	Attack         Kind = "attack"
	Defense        Kind = "defense"
	SpecialAttack  Kind = "special_attack"
	SpecialDefense Kind = "special_defense"
	Speed          Kind = "speed"
	Evasion        Kind = "evasion"
	Accuracy       Kind = "accuracy"
)

// Kinds lists every stage kind in a stable order
var Kinds = []Kind{Attack, Defense, Speed, SpecialAttack, SpecialDefense, Evasion, Accuracy}

// Validate reports whether k is a known kind
func (k Kind) Validate() error {
	for _, known := range Kinds {
		if k == known {
			return nil
		}
	}
	return apperr.Validationf("unknown stat kind %q", string(k))
}

// IsOffensive reports whether k can be used as a spell's attacking stat
func (k Kind) IsOffensive() bool {
	return k == Attack || k == SpecialAttack
}

// IsDefensive reports whether k can be used as a spell's defending stat
func (k Kind) IsDefensive() bool {
	return k == Defense || k == SpecialDefense
}
