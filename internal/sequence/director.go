package sequence

import (
	"log"
)

// ScriptSource looks up script text by name
type ScriptSource interface {
	Script(name string) (string, bool)
}

// Director turns script names into queued sequences
type Director struct {
	source  ScriptSource
	player  *Player
	actions Actions
}

// NewDirector creates a director. source and player are required.
func NewDirector(source ScriptSource, player *Player, actions Actions) *Director {
	if source == nil {
		panic("sequence: script source is required")
	}
	if player == nil {
		panic("sequence: player is required")
	}
	return &Director{source: source, player: player, actions: actions}
}

// Play loads the named script and queues it. Unknown names are logged and
// reported as false; an empty name is a silent no-op.
func (d *Director) Play(name string) bool {
	if name == "" {
		return false
	}
	src, ok := d.source.Script(name)
	if !ok {
		log.Printf("[SEQUENCE] unknown script %q", name)
		return false
	}
	d.player.Enqueue(Load(name, src, d.actions))
	return true
}
