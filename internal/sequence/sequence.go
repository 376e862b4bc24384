package sequence

import (
	"log"
)

// Sequence is a cooperative presentation task. Step does exactly one unit of
// work per call so hosts can single-step playback.
type Sequence interface {
	Name() string
	// Start prepares playback. Calling it again has no effect.
	Start()
	// Step advances one frame and reports whether the sequence finished
	Step() bool
	End()
	Active() bool
}

// ScriptSequence plays a parsed script, dispatching each frame's steps through Actions
type ScriptSequence struct {
	script  *Script
	actions Actions
	last    int
	frame   int
	started bool
	active  bool
}

// NewScriptSequence creates a sequence over script
func NewScriptSequence(script *Script, actions Actions) *ScriptSequence {
	if script == nil {
		script = &Script{}
	}
	return &ScriptSequence{
		script:  script,
		actions: actions,
		last:    script.LastFrame(),
	}
}

// Load parses src into a sequence. A malformed script is logged and plays as
// an empty sequence that finishes on its first step.
func Load(name, src string, actions Actions) *ScriptSequence {
	script, err := Parse(name, src)
	if err != nil {
		log.Printf("[SEQUENCE] %v", err)
	}
	return NewScriptSequence(script, actions)
}

func (s *ScriptSequence) Name() string {
	return s.script.Name
}

// Script returns the parsed script
func (s *ScriptSequence) Script() *Script {
	return s.script
}

// Frame returns the next frame to dispatch
func (s *ScriptSequence) Frame() int {
	return s.frame
}

func (s *ScriptSequence) Start() {
	if s.started {
		return
	}
	s.started = true
	s.active = true
	s.frame = 0
}

func (s *ScriptSequence) Step() bool {
	if !s.started {
		s.Start()
	}
	if s.frame > s.last {
		return true
	}

	for _, st := range s.script.Steps {
		if st.Frame == s.frame {
			s.actions.Dispatch(st)
		}
	}
	s.frame++

	return s.frame > s.last
}

func (s *ScriptSequence) End() {
	s.active = false
}

func (s *ScriptSequence) Active() bool {
	return s.active
}
