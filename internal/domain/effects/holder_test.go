package effects_test

import (
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
)

// testHolder is a minimal effects.Holder
type testHolder struct {
	id        string
	hp, maxHP int
	mp        int
	cancelled bool
	touchable bool
	stages    *stats.Stages
	modifiers *stats.Modifiers
	effects   *effects.List
}

func newHolder(id string, hp int) *testHolder {
	return &testHolder{
		id:        id,
		hp:        hp,
		maxHP:     hp,
		mp:        20,
		stages:    stats.NewStages(),
		modifiers: stats.NewModifiers(),
		effects:   effects.NewList(),
	}
}

func (h *testHolder) ID() string                  { return h.id }
func (h *testHolder) Name() string                { return h.id }
func (h *testHolder) Alive() bool                 { return h.hp > 0 }
func (h *testHolder) HP() int                     { return h.hp }
func (h *testHolder) MaxHP() int                  { return h.maxHP }
func (h *testHolder) MP() int                     { return h.mp }
func (h *testHolder) Stages() *stats.Stages       { return h.stages }
func (h *testHolder) Modifiers() *stats.Modifiers { return h.modifiers }
func (h *testHolder) Effects() *effects.List      { return h.effects }
func (h *testHolder) CancelAction()               { h.cancelled = true }
func (h *testHolder) AcceptsTouch() bool          { return h.touchable }
func (h *testHolder) SetAcceptsTouch(v bool)      { h.touchable = v }

func (h *testHolder) TakeDamage(n int) int {
	if n > h.hp {
		n = h.hp
	}
	h.hp -= n
	return n
}

func (h *testHolder) Heal(n int) int {
	if h.hp+n > h.maxHP {
		n = h.maxHP - h.hp
	}
	h.hp += n
	return n
}

func (h *testHolder) DrainMP(n int) int {
	if n > h.mp {
		n = h.mp
	}
	h.mp -= n
	return n
}

type testCast struct {
	spell  string
	landed bool
}

func (c testCast) SpellName() string { return c.spell }
func (c testCast) Landed() bool      { return c.landed }

type recordingNarrator struct {
	lines []string
}

func (n *recordingNarrator) Narrate(key string, args ...any) {
	n.lines = append(n.lines, key)
}

type recordingSequencer struct {
	scripts []string
}

func (s *recordingSequencer) Play(script string) bool {
	s.scripts = append(s.scripts, script)
	return true
}

type mapLibrary map[string]*effects.Definition

func (l mapLibrary) Effect(name string) (*effects.Definition, bool) {
	def, ok := l[name]
	return def, ok
}
