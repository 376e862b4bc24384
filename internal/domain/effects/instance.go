package effects

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
)

// Holder is anything that can carry effects
type Holder interface {
	ID() string
	Name() string
	Alive() bool
	HP() int
	MaxHP() int
	MP() int
	Stages() *stats.Stages
	Modifiers() *stats.Modifiers
	Effects() *List
	// TakeDamage lowers HP and returns the amount actually removed
	TakeDamage(n int) int
	// Heal raises HP and returns the amount actually restored
	Heal(n int) int
	// DrainMP lowers MP and returns the amount actually removed
	DrainMP(n int) int
	CancelAction()
	// AcceptsTouch reports whether contact hurts whoever touches h this turn
	AcceptsTouch() bool
	SetAcceptsTouch(v bool)
}

// Cast is the spell cast an instance originated from
type Cast interface {
	SpellName() string
	Landed() bool
}

// Instance is a runtime application of a Definition
type Instance struct {
	ID         string
	Definition *Definition
	User       Holder
	Target     Holder
	// Cast is nil for effects that did not come from a spell
	Cast        Cast
	TurnsActive int
	Stacks      int
	Success     bool

	name string
}

// Name returns the resolved name of the instance
func (i *Instance) Name() string {
	return i.name
}

// Priority returns the definition priority
func (i *Instance) Priority() int {
	return i.Definition.Priority
}

func (i *Instance) subject(s Subject) Holder {
	if s == SubjectUser && i.User != nil {
		return i.User
	}
	return i.Target
}
