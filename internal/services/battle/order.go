package battle

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/rng"
)

// TurnOrder sorts entities by the priority of their chosen spell, then by
// effective speed, both descending. Every comparison between equals draws a
// fresh coin flip, so ties are not transitive.
func TurnOrder(entities []*combatant.Entity, roller rng.Roller) []*combatant.Entity {
	out := make([]*combatant.Entity, len(entities))
	copy(out, entities)

	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && actsBefore(out[j], out[j-1], roller); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func actsBefore(a, b *combatant.Entity, roller rng.Roller) bool {
	pa, pb := priority(a), priority(b)
	if pa != pb {
		return pa > pb
	}
	sa, sb := a.EffectiveSpeed(), b.EffectiveSpeed()
	if sa != sb {
		return sa > sb
	}
	return rng.Chance(roller, 0.5)
}

func priority(e *combatant.Entity) int {
	if spell := e.Turn().Choice.Spell; spell != nil {
		return spell.Priority
	}
	return 0
}
