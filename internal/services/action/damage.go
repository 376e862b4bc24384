package action

import (
	"math"

	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
)

// Random damage spread
const (
	MinRandomFactor = 0.85
	MaxRandomFactor = 1.0
	CriticalFactor  = 1.5
)

// DamageInput holds everything the damage formula reads
type DamageInput struct {
	Level      int
	Power      int
	Attack     float64
	AttackMod  float64
	Defense    float64
	DefenseMod float64
	Random     float64
	Critical   bool
}

// ComputeDamage applies
//
//	floor(((2K/5 + 2) * power * (atk*atkMod)/(def*defMod)) / 50) * random * (1.5 if critical)
//
// and floors the result.
func ComputeDamage(in DamageInput) int {
	k := in.Level
	if k <= 0 {
		k = stats.DefaultLevel
	}
	def := in.Defense * in.DefenseMod
	if def <= 0 {
		def = 1
	}

	base := math.Floor(((2*float64(k)/5 + 2) * float64(in.Power) * (in.Attack * in.AttackMod) / def) / 50)
	dmg := base * in.Random
	if in.Critical {
		dmg *= CriticalFactor
	}
	return int(math.Floor(dmg))
}

// CritProbability is 1/(baseChance/critModifier). A zero modifier or base never crits.
func CritProbability(baseChance, critModifier float64) float64 {
	if critModifier <= 0 || baseChance <= 0 {
		return 0
	}
	return 1 / (baseChance / critModifier)
}
