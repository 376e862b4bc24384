package testutils

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
)

// BalancedStats derive to 105 HP, 80 MP and 54 in every battle stat at level 50
var BalancedStats = stats.Base{HP: 45, MP: 20, ATK: 49, DEF: 49, MATK: 49, MDEF: 49, SPD: 45}

// CreateTestSpell creates a single-hit physical spell with power 50 and 100 accuracy
func CreateTestSpell(name string) *spells.Definition {
	return &spells.Definition{
		Name:   name,
		Target: spells.SingleEnemy,
		Behavior: spells.Behavior{Offensive: &spells.Offensive{
			Power:      50,
			Attack:     stats.Attack,
			Defense:    stats.Defense,
			MinHits:    1,
			MaxHits:    1,
			Accuracy:   100,
			CritChance: 16,
		}},
	}
}

// CreateTestFlavorSpell creates a spell that does nothing and always succeeds
func CreateTestFlavorSpell(name string) *spells.Definition {
	return &spells.Definition{
		Name:     name,
		Target:   spells.Self,
		Behavior: spells.Behavior{Flavor: &spells.Flavor{}},
	}
}

// CreateTestEntity creates an entity with BalancedStats knowing the given spells
func CreateTestEntity(id string, side combatant.Side, control combatant.Control, known ...*spells.Definition) *combatant.Entity {
	return combatant.New(&combatant.Config{
		ID:      id,
		Name:    id,
		Side:    side,
		Control: control,
		Raw:     BalancedStats,
		Spells:  known,
	})
}

// CreateTestEntityWithSpeed is CreateTestEntity with a raw speed override
func CreateTestEntityWithSpeed(id string, side combatant.Side, spd int, known ...*spells.Definition) *combatant.Entity {
	raw := BalancedStats
	raw.SPD = spd
	return combatant.New(&combatant.Config{
		ID:     id,
		Name:   id,
		Side:   side,
		Raw:    raw,
		Spells: known,
	})
}

// CreateTestEffect creates an effect with no hooks
func CreateTestEffect(name string, priority int, volatility effects.Volatility) *effects.Definition {
	return &effects.Definition{
		Name:       name,
		Priority:   priority,
		Volatility: volatility,
	}
}
