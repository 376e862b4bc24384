// Package stats holds the per-entity numeric model: base values derived from
// design data, bounded stat stages and named multiplicative modifiers.
package stats

import (
	"math"
)

// DefaultLevel is the K constant used by the derivation and damage formulas
const DefaultLevel = 50

// Base holds the core stats of an entity
type Base struct {
	HP            int     `yaml:"hp" json:"hp"`
	MP            int     `yaml:"mp" json:"mp"`
	ATK           int     `yaml:"atk" json:"atk"`
	DEF           int     `yaml:"def" json:"def"`
	MATK          int     `yaml:"matk" json:"matk"`
	MDEF          int     `yaml:"mdef" json:"mdef"`
	SPD           int     `yaml:"spd" json:"spd"`
	CritModifier  float64 `yaml:"crit_modifier" json:"crit_modifier"`
	DodgeModifier float64 `yaml:"dodge_modifier" json:"dodge_modifier"`
}

// Derive converts raw design values into runtime stats.
//
//	HP, MP:                 floor(raw*2*K/100) + K + 10
//	ATK, DEF, MATK, MDEF, SPD: floor(raw*2*K/100) + 5
func Derive(raw Base, level int) Base {
	if level <= 0 {
		level = DefaultLevel
	}
	scale := func(v int) int {
		return int(math.Floor(float64(v*2*level) / 100))
	}
	return Base{
		HP:            scale(raw.HP) + level + 10,
		MP:            scale(raw.MP) + level + 10,
		ATK:           scale(raw.ATK) + 5,
		DEF:           scale(raw.DEF) + 5,
		MATK:          scale(raw.MATK) + 5,
		MDEF:          scale(raw.MDEF) + 5,
		SPD:           scale(raw.SPD) + 5,
		CritModifier:  raw.CritModifier,
		DodgeModifier: raw.DodgeModifier,
	}
}

// Value returns the base value backing a stage kind.
// Evasion and accuracy have no base value and return 1.
func (b Base) Value(kind Kind) int {
	switch kind {
	case Attack:
		return b.ATK
	case Defense:
		return b.DEF
	case SpecialAttack:
		return b.MATK
	case SpecialDefense:
		return b.MDEF
	case Speed:
		return b.SPD
	default:
		return 1
	}
}
