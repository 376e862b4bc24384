package battle

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/repositories/battles"
)

func entitySnapshot(e *combatant.Entity) battles.EntitySnapshot {
	var stages map[string]int
	if snap := e.Stages().Snapshot(); len(snap) > 0 {
		stages = make(map[string]int, len(snap))
		for k, v := range snap {
			stages[string(k)] = v
		}
	}

	return battles.EntitySnapshot{
		ID:      e.ID(),
		Name:    e.Name(),
		Side:    string(e.Side()),
		HP:      e.HP(),
		MaxHP:   e.MaxHP(),
		MP:      e.MP(),
		MaxMP:   e.MaxMP(),
		Alive:   e.Alive(),
		Stages:  stages,
		Effects: e.Effects().Names(),
	}
}
