package battle

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
	"github.com/KirkDiggler/battle-engine/internal/rng"
)

// resolveTargets expands a target shape into the alive entities it covers.
// A single chosen target that is gone or defeated yields nothing.
func resolveTargets(shape spells.Target, user *combatant.Entity, targetID string, entities []*combatant.Entity, roller rng.Roller) []*combatant.Entity {
	switch shape {
	case spells.Self:
		if user.Alive() {
			return []*combatant.Entity{user}
		}
		return nil
	case spells.SingleEnemy, spells.SingleParty:
		for _, e := range entities {
			if e.ID() == targetID && e.Alive() {
				return []*combatant.Entity{e}
			}
		}
		return nil
	case spells.RandomEnemy:
		enemies := alive(entities, func(e *combatant.Entity) bool { return e.IsEnemyOf(user) })
		if i := rng.Pick(roller, len(enemies)); i >= 0 {
			return []*combatant.Entity{enemies[i]}
		}
		return nil
	case spells.AllEnemy:
		return alive(entities, func(e *combatant.Entity) bool { return e.IsEnemyOf(user) })
	case spells.AllParty:
		return alive(entities, func(e *combatant.Entity) bool { return !e.IsEnemyOf(user) })
	case spells.All:
		return alive(entities, func(*combatant.Entity) bool { return true })
	}
	return nil
}

// candidates returns who a single-target spell may be aimed at
func candidates(shape spells.Target, user *combatant.Entity, entities []*combatant.Entity) []*combatant.Entity {
	switch shape {
	case spells.SingleEnemy:
		return alive(entities, func(e *combatant.Entity) bool { return e.IsEnemyOf(user) })
	case spells.SingleParty:
		return alive(entities, func(e *combatant.Entity) bool { return !e.IsEnemyOf(user) })
	}
	return nil
}

// isCandidate reports whether targetID is a valid aim for shape
func isCandidate(shape spells.Target, user *combatant.Entity, targetID string, entities []*combatant.Entity) bool {
	for _, e := range candidates(shape, user, entities) {
		if e.ID() == targetID {
			return true
		}
	}
	return false
}

func alive(entities []*combatant.Entity, keep func(*combatant.Entity) bool) []*combatant.Entity {
	var out []*combatant.Entity
	for _, e := range entities {
		if e.Alive() && keep(e) {
			out = append(out, e)
		}
	}
	return out
}
