package sequence

import (
	"log"
	"sync"

	"github.com/KirkDiggler/battle-engine/internal/events"
)

// Playback topics
var (
	Started  = events.NewTopic[Sequence]("sequence.started")
	Finished = events.NewTopic[Sequence]("sequence.finished")
)

// Player plays queued sequences one at a time, one step per tick
type Player struct {
	mu      sync.Mutex
	queue   []Sequence
	current Sequence
	bus     *events.Bus
}

// NewPlayer creates a player. bus may be nil.
func NewPlayer(bus *events.Bus) *Player {
	return &Player{bus: bus}
}

// Enqueue appends seq to the queue
func (p *Player) Enqueue(seq Sequence) {
	if seq == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, seq)
}

// Preempt drops the playing sequence and puts seq at the front of the queue.
// The dropped sequence does not get End; only natural completion ends a sequence.
func (p *Player) Preempt(seq Sequence) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		log.Printf("[SEQUENCE] %s preempted", p.current.Name())
		p.current = nil
	}
	if seq != nil {
		p.queue = append([]Sequence{seq}, p.queue...)
	}
}

// Active reports whether a sequence is playing or queued
func (p *Player) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil || len(p.queue) > 0
}

// Len returns the number of queued sequences, not counting the playing one
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Current returns the playing sequence, if any
func (p *Player) Current() Sequence {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Tick does one unit of playback: it starts the next sequence if none is
// playing, then steps the current one once. Steps run without the lock held
// so handlers may enqueue more sequences.
func (p *Player) Tick() {
	p.mu.Lock()
	started := false
	if p.current == nil {
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		p.current = p.queue[0]
		p.queue = p.queue[1:]
		started = true
	}
	seq := p.current
	p.mu.Unlock()

	if started {
		seq.Start()
		p.publish(Started, seq)
	}

	if !seq.Step() {
		return
	}

	p.mu.Lock()
	// a preempt during Step already dropped seq
	finished := p.current == seq
	if finished {
		p.current = nil
	}
	p.mu.Unlock()

	if finished {
		seq.End()
		p.publish(Finished, seq)
	}
}

// Drain ticks until nothing is left. Playback that never finishes blocks forever.
func (p *Player) Drain() {
	for p.Active() {
		p.Tick()
	}
}

func (p *Player) publish(topic events.Topic[Sequence], seq Sequence) {
	if p.bus == nil {
		return
	}
	events.MustPublish(p.bus, topic, seq)
}
