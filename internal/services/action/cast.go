package action

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
)

// Hit is the outcome of one hit of a cast
type Hit struct {
	Landed   bool
	Critical bool
	Damage   int
}

// Cast is the result of one spell against one target. It implements effects.Cast.
type Cast struct {
	Spell  *spells.Definition
	User   *combatant.Entity
	Target *combatant.Entity

	Success bool
	Hits    []Hit
	// Triggered holds proc instances awaiting deferred activation
	Triggered   []*effects.Instance
	FailMessage string
}

// SpellName implements effects.Cast
func (c *Cast) SpellName() string {
	return c.Spell.Name
}

// Landed implements effects.Cast. It reports whether any hit landed.
func (c *Cast) Landed() bool {
	for _, h := range c.Hits {
		if h.Landed {
			return true
		}
	}
	return false
}

// Critical reports whether any hit was critical
func (c *Cast) Critical() bool {
	for _, h := range c.Hits {
		if h.Critical {
			return true
		}
	}
	return false
}

// TotalDamage sums the damage of every hit
func (c *Cast) TotalDamage() int {
	total := 0
	for _, h := range c.Hits {
		total += h.Damage
	}
	return total
}

// LandedHits counts the hits that landed
func (c *Cast) LandedHits() int {
	n := 0
	for _, h := range c.Hits {
		if h.Landed {
			n++
		}
	}
	return n
}
